package profile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ReflectanceFile is the fixed artifact name; each run overwrites the
// previous one in place. Concurrent runs against the same directory race and
// the last writer wins.
const ReflectanceFile = "P_reflectance.txt"

// WriteReflectance persists the sampled reflectance values ascending-sorted,
// one fixed 12-decimal value per line under a single P_reflectance column,
// so consecutive runs diff cleanly.
func WriteReflectance(dir string, values []float64) error {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	file, err := os.Create(filepath.Join(dir, ReflectanceFile))
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if _, err := fmt.Fprintln(w, "P_reflectance"); err != nil {
		return err
	}
	for _, v := range sorted {
		if _, err := fmt.Fprintf(w, "%.12f\n", v); err != nil {
			return err
		}
	}
	return w.Flush()
}
