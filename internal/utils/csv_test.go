package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetFilename(t *testing.T) {
	if GetFilename("a/b/model.toml") != "model" || GetFilename("plain") != "plain" {
		t.Fatal("GetFilename failed")
	}
}

func TestWriteAsCSVNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	data := CSV{
		{"model10", "0.3"},
		{"model2", "0.1"},
		{"model1", "0.2"},
	}
	if err := WriteAsCSV(data, dir, "", "summary", []string{"model", "rd"}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	want := []string{"model,rd", "model1,0.2", "model2,0.1", "model10,0.3"}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWriteAsCSVStripsFilename(t *testing.T) {
	dir := t.TempDir()
	data := CSV{{"model1", "0.1"}}
	if err := WriteAsCSV(data, dir, "", "configs/report.csv", []string{"model", "rd"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "report.txt")); err != nil {
		t.Fatalf("stripped output file missing: %v", err)
	}
}
