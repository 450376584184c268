package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validFixture builds a Pipeline whose inputs all exist on disk.
func validFixture(t *testing.T) *Pipeline {
	t.Helper()
	dir := t.TempDir()

	touch := func(name string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		return path
	}
	phenoDir := filepath.Join(dir, "pheno")
	require.NoError(t, os.Mkdir(phenoDir, 0o755))

	p := &Pipeline{
		Variants: Variants{
			SNP:   touch("snp.vcf"),
			Indel: touch("indel.vcf"),
			SV:    touch("sv.vcf"),
		},
		Phenotypes: Phenotypes{Dir: phenoDir},
		Tools:      Tools{Normalizer: "norm.sh", LDAK: "ldak"},
		OutputDir:  filepath.Join(dir, "out"),
	}
	p.applyDefaults()
	return p
}

func TestValidate(t *testing.T) {
	t.Run("valid pipeline passes", func(t *testing.T) {
		assert.NoError(t, validFixture(t).Validate())
	})

	t.Run("missing call set is fatal before any task starts", func(t *testing.T) {
		p := validFixture(t)
		p.Variants.Indel = filepath.Join(t.TempDir(), "nope.vcf")
		err := p.Validate()
		assert.ErrorContains(t, err, "INDEL call set")
	})

	t.Run("phenotype dir must be a directory", func(t *testing.T) {
		p := validFixture(t)
		p.Phenotypes.Dir = p.Variants.SNP
		err := p.Validate()
		assert.ErrorContains(t, err, "is not a directory")
	})

	t.Run("covariate file must exist when configured", func(t *testing.T) {
		p := validFixture(t)
		p.Covariates = filepath.Join(t.TempDir(), "covar.tsv")
		err := p.Validate()
		assert.ErrorContains(t, err, "covariate file")
	})

	t.Run("tool locations are required", func(t *testing.T) {
		p := validFixture(t)
		p.Tools.LDAK = ""
		assert.ErrorContains(t, p.Validate(), "tools.ldak is required")
	})

	t.Run("threads must be positive", func(t *testing.T) {
		p := validFixture(t)
		p.Threads = 0
		assert.ErrorContains(t, p.Validate(), "threads must be at least 1")
	})
}

func TestEnsureLayout(t *testing.T) {
	p := validFixture(t)
	require.NoError(t, p.EnsureLayout())

	l := p.Layout()
	for _, dir := range []string{l.Normalized, l.GRM, l.REML, l.Summary} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
