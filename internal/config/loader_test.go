package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
variants {
  snp   = "calls/snp.vcf.gz"
  indel = "calls/indel.vcf.gz"
  sv    = "calls/sv.vcf.gz"
}

phenotypes {
  dir = "pheno"
}

tools {
  normalizer = "scripts/normalize_vcf.sh"
  ldak       = "ldak"
}

output_dir = "results"
`

func TestLoad_MinimalConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	p, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "calls/snp.vcf.gz", p.Variants.SNP)
	assert.Equal(t, "calls/indel.vcf.gz", p.Variants.Indel)
	assert.Equal(t, "calls/sv.vcf.gz", p.Variants.SV)
	assert.Equal(t, "pheno", p.Phenotypes.Dir)
	assert.Empty(t, p.Covariates)
	assert.Empty(t, p.Tools.Summarizer)

	require.NotNil(t, p.GRM)
	assert.Equal(t, DefaultMinMAF, *p.GRM.MinMAF)
	assert.Equal(t, DefaultKinshipPower, *p.GRM.KinshipPower)
	assert.Equal(t, DefaultPruneR2, *p.GRM.PruneR2)
	assert.Equal(t, DefaultThreads, p.Threads)
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
variants {
  snp   = "s.vcf"
  indel = "i.vcf"
  sv    = "v.vcf"
}

phenotypes {
  dir = "pheno"
}

grm {
  min_maf       = 0.05
  kinship_power = -1
  prune_r2      = 0.9
}

tools {
  normalizer = "norm.sh"
  ldak       = "/opt/ldak"
  summarizer = "table_all_reml.py"
}

covariates = "covar.tsv"
output_dir = "out"
threads    = 16
`)

	p, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 0.05, *p.GRM.MinMAF)
	assert.Equal(t, -1.0, *p.GRM.KinshipPower)
	assert.Equal(t, 0.9, *p.GRM.PruneR2)
	assert.Equal(t, "covar.tsv", p.Covariates)
	assert.Equal(t, "table_all_reml.py", p.Tools.Summarizer)
	assert.Equal(t, 16, p.Threads)
}

func TestLoad_EnvInterpolation(t *testing.T) {
	t.Setenv("GRMFLOW_TEST_ROOT", "/scratch/run42")
	path := writeConfig(t, `
variants {
  snp   = "s.vcf"
  indel = "i.vcf"
  sv    = "v.vcf"
}

phenotypes {
  dir = "pheno"
}

tools {
  normalizer = "norm.sh"
  ldak       = "ldak"
}

output_dir = "${env.GRMFLOW_TEST_ROOT}/results"
`)

	p, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "/scratch/run42/results", p.OutputDir)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		path := writeConfig(t, "variants {\n  snp = \n")
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("missing required block", func(t *testing.T) {
		path := writeConfig(t, `output_dir = "results"`)
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, "failed to decode")
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
		assert.Error(t, err)
	})
}

func TestLayout(t *testing.T) {
	p := &Pipeline{OutputDir: "results"}
	l := p.Layout()
	assert.Equal(t, "results", l.Root)
	assert.Equal(t, filepath.Join("results", "normalized"), l.Normalized)
	assert.Equal(t, filepath.Join("results", "grm"), l.GRM)
	assert.Equal(t, filepath.Join("results", "reml"), l.REML)
	assert.Equal(t, filepath.Join("results", "summary"), l.Summary)
}
