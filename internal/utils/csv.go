package utils

import (
	"encoding/csv"
	"sort"

	"github.com/facette/natsort"
)

type CSV [][]string

func (data CSV) Less(i, j int) bool {
	return natsort.Compare(data[i][0], data[j][0])
}

func (data CSV) Len() int {
	return len(data)
}
func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

// WriteAsCSV writes the header followed by the rows natsorted on their first
// column, so model names like "2-Layer (1-3)" keep a human ordering. filename
// may carry a directory or extension; both are stripped.
func WriteAsCSV(data CSV, path, subpath, filename string, columns []string) error {
	file, err := OpenFile(false, path, subpath, GetFilename(filename))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return err
	}
	sort.Sort(data)
	if err := w.WriteAll(data); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
