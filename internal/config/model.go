package config

import "path/filepath"

// Default GRM parameters, applied when the grm block omits a value.
const (
	DefaultMinMAF       = 0.01
	DefaultKinshipPower = -0.25
	DefaultPruneR2      = 0.98
	DefaultThreads      = 4
)

// Pipeline is the root of the decoded configuration file.
type Pipeline struct {
	Variants   Variants   `hcl:"variants,block"`
	Phenotypes Phenotypes `hcl:"phenotypes,block"`
	GRM        *GRM       `hcl:"grm,block"`
	Tools      Tools      `hcl:"tools,block"`
	Covariates string     `hcl:"covariates,optional"`
	OutputDir  string     `hcl:"output_dir"`
	Threads    int        `hcl:"threads,optional"`
}

// Variants names the three variant-type call-set files.
type Variants struct {
	SNP   string `hcl:"snp"`
	Indel string `hcl:"indel"`
	SV    string `hcl:"sv"`
}

// Phenotypes points at the directory of tab-separated phenotype files.
type Phenotypes struct {
	Dir string `hcl:"dir"`
}

// GRM holds the numeric parameters forwarded to the kinship computation.
// Pointers distinguish "omitted" from an explicit zero.
type GRM struct {
	MinMAF       *float64 `hcl:"min_maf,optional"`
	KinshipPower *float64 `hcl:"kinship_power,optional"`
	PruneR2      *float64 `hcl:"prune_r2,optional"`
}

// Tools locates the external collaborators. Summarizer is optional; when
// empty only the built-in TSV summary is produced.
type Tools struct {
	Normalizer string `hcl:"normalizer"`
	LDAK       string `hcl:"ldak"`
	Summarizer string `hcl:"summarizer,optional"`
}

// applyDefaults fills omitted optional values in place. Called once by the
// loader before the Pipeline is handed out.
func (p *Pipeline) applyDefaults() {
	if p.GRM == nil {
		p.GRM = &GRM{}
	}
	if p.GRM.MinMAF == nil {
		v := DefaultMinMAF
		p.GRM.MinMAF = &v
	}
	if p.GRM.KinshipPower == nil {
		v := DefaultKinshipPower
		p.GRM.KinshipPower = &v
	}
	if p.GRM.PruneR2 == nil {
		v := DefaultPruneR2
		p.GRM.PruneR2 = &v
	}
	if p.Threads == 0 {
		p.Threads = DefaultThreads
	}
}

// Layout is the fixed set of output subdirectories published under the
// output root.
type Layout struct {
	Root       string
	Normalized string
	GRM        string
	REML       string
	Summary    string
}

// Layout derives the output directory layout from the configured root.
func (p *Pipeline) Layout() Layout {
	return Layout{
		Root:       p.OutputDir,
		Normalized: filepath.Join(p.OutputDir, "normalized"),
		GRM:        filepath.Join(p.OutputDir, "grm"),
		REML:       filepath.Join(p.OutputDir, "reml"),
		Summary:    filepath.Join(p.OutputDir, "summary"),
	}
}
