package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Yashgit1728/AstroForge-sub000/optimize"
)

// writeFront writes one row per solution: its genes followed by its measurements.
func writeFront(dir, name string, front []optimize.Solution) (string, error) {
	if len(front) == 0 {
		return "", nil
	}
	genes := sortedKeys(front[0].Genes)
	metrics := sortedKeys(front[0].Metrics)
	path := filepath.Join(dir, fmt.Sprintf("%s-front.csv", name))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	w := csv.NewWriter(f)
	header := append(append([]string{"fitness", "feasible"}, genes...), metrics...)
	if err := w.Write(header); err != nil {
		f.Close()
		return "", err
	}
	for _, sol := range front {
		row := []string{strconv.FormatFloat(sol.Fitness, 'f', -1, 64), strconv.FormatBool(sol.Feasible)}
		for _, g := range genes {
			row = append(row, strconv.FormatFloat(sol.Genes[g], 'f', -1, 64))
		}
		for _, m := range metrics {
			row = append(row, strconv.FormatFloat(sol.Metrics[m], 'f', -1, 64))
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
