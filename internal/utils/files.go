package utils

import (
	"os"
	"path/filepath"
	"strings"
)

func GetFilename(filePath string) string {
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// OpenFile creates the output file for a model, either inside a per-model
// directory (makeDir) or as a suffixed flat file. The file is truncated if it
// already exists: reruns overwrite previous results in place.
func OpenFile(makeDir bool, outputPath string, subdir, name string) (*os.File, error) {
	if makeDir && subdir != "" && subdir != "." {
		if err := os.MkdirAll(filepath.Join(outputPath, subdir), 0750); err != nil {
			return nil, err
		}
		return os.Create(filepath.Join(outputPath, subdir, name+".txt"))
	}
	if subdir == "" {
		return os.Create(filepath.Join(outputPath, name+".txt"))
	}
	return os.Create(filepath.Join(outputPath, name+"_"+subdir+".txt"))
}
