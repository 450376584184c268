package config

import (
	"fmt"
	"os"
)

// Validate checks that every input the pipeline references exists and is
// readable. It runs before any task starts, so a bad path aborts the run
// without touching the output directory.
func (p *Pipeline) Validate() error {
	inputs := []struct {
		label string
		path  string
	}{
		{"SNP call set", p.Variants.SNP},
		{"INDEL call set", p.Variants.Indel},
		{"SV call set", p.Variants.SV},
	}
	for _, in := range inputs {
		if in.path == "" {
			return fmt.Errorf("%s path is empty", in.label)
		}
		if err := checkReadable(in.path); err != nil {
			return fmt.Errorf("%s: %w", in.label, err)
		}
	}

	if p.Phenotypes.Dir == "" {
		return fmt.Errorf("phenotype directory is empty")
	}
	info, err := os.Stat(p.Phenotypes.Dir)
	if err != nil {
		return fmt.Errorf("phenotype directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("phenotype directory %s is not a directory", p.Phenotypes.Dir)
	}

	if p.Covariates != "" {
		if err := checkReadable(p.Covariates); err != nil {
			return fmt.Errorf("covariate file: %w", err)
		}
	}

	if p.Tools.Normalizer == "" {
		return fmt.Errorf("tools.normalizer is required")
	}
	if p.Tools.LDAK == "" {
		return fmt.Errorf("tools.ldak is required")
	}
	if p.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if p.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", p.Threads)
	}

	return nil
}

// EnsureLayout creates the output directory tree.
func (p *Pipeline) EnsureLayout() error {
	l := p.Layout()
	for _, dir := range []string{l.Root, l.Normalized, l.GRM, l.REML, l.Summary} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	return nil
}

// checkReadable verifies a file exists and can actually be opened, not
// just stat'd; permission problems should surface now, not mid-run.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
