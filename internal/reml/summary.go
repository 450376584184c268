package reml

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/specialistvlad/grmflow/internal/artifact"
)

// WriteSummary renders the aggregate TSV table from the complete estimate
// set: one row per (phenotype, source, component). Rows are sorted by
// phenotype then source so the table is byte-identical across runs.
func WriteSummary(estimates []artifact.Estimate, outPath string) error {
	sorted := make([]artifact.Estimate, len(estimates))
	copy(sorted, estimates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Phenotype != sorted[j].Phenotype {
			return sorted[i].Phenotype < sorted[j].Phenotype
		}
		return sorted[i].Source < sorted[j].Source
	})

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating summary table: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "Phenotype\tSource\tComponent\tHeritability\tSE\tConverged")

	for _, est := range sorted {
		res, err := ParseFile(est.Path)
		if err != nil {
			return fmt.Errorf("summarizing %s/%s: %w", est.Phenotype, est.Source, err)
		}
		for _, c := range res.Components {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				est.Phenotype, est.Source, c.Name,
				c.Heritability(), c.SE(), res.Converged)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing summary table: %w", err)
	}
	return nil
}
