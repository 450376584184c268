package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/grmflow/internal/artifact"
	"github.com/specialistvlad/grmflow/internal/pheno"
	"github.com/specialistvlad/grmflow/internal/testutil"
	"github.com/specialistvlad/grmflow/internal/variant"
)

func fixedTuple() []artifact.GRMGroup {
	return []artifact.GRMGroup{
		{Type: variant.SNP, Prefix: "grm/snp"},
		{Type: variant.INDEL, Prefix: "grm/indel"},
		{Type: variant.SV, Prefix: "grm/sv"},
	}
}

func TestNormalizer(t *testing.T) {
	runner := &testutil.FakeRunner{}
	n := &Normalizer{Script: "normalize_vcf.sh", Runner: runner}

	out, err := n.Normalize(context.Background(), variant.Input{Type: variant.SNP, Path: "raw/snp.vcf.gz"}, "out/normalized")
	require.NoError(t, err)

	assert.Equal(t, variant.SNP, out.Type)
	assert.Equal(t, filepath.Join("out", "normalized", "snp.vcf.gz"), out.Path)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "normalize_vcf.sh", calls[0].Name)
	assert.Equal(t, []string{"raw/snp.vcf.gz", out.Path}, calls[0].Args)
}

func TestGRMBuilder(t *testing.T) {
	runner := &testutil.FakeRunner{}
	b := &GRMBuilder{
		LDAK:         "ldak",
		MinMAF:       0.05,
		KinshipPower: -0.25,
		PruneR2:      0.98,
		Threads:      8,
		Runner:       runner,
	}

	in := artifact.Normalized{Type: variant.INDEL, Path: "normalized/indel.vcf.gz"}
	group, err := b.Build(context.Background(), in, "out/grm")
	require.NoError(t, err)

	prefix := filepath.Join("out", "grm", "indel")
	assert.Equal(t, variant.INDEL, group.Type)
	assert.Equal(t, prefix, group.Prefix)
	assert.Equal(t, []string{prefix + ".grm.bin", prefix + ".grm.id", prefix + ".grm.details"}, group.Files)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	call := calls[0]
	assert.Equal(t, "ldak", call.Name)
	assert.Equal(t, prefix, call.ArgAfter("--calc-kins-direct"))
	assert.Equal(t, "normalized/indel.vcf.gz", call.ArgAfter("--vcf"))
	assert.Equal(t, "0.05", call.ArgAfter("--minmaf"))
	assert.Equal(t, "-0.25", call.ArgAfter("--power"))
	assert.Equal(t, "0.98", call.ArgAfter("--window-prune"))
	assert.Equal(t, "8", call.ArgAfter("--max-threads"))
}

func TestREMLRunner_RunSingle(t *testing.T) {
	t.Run("without covariates", func(t *testing.T) {
		runner := &testutil.FakeRunner{}
		r := &REMLRunner{LDAK: "ldak", Threads: 4, Runner: runner}
		ph := pheno.File{Name: "Height", Path: "pheno/Height.tsv"}

		est, err := r.RunSingle(context.Background(), fixedTuple()[0], ph, "out/reml")
		require.NoError(t, err)

		assert.Equal(t, "SNP", est.Source)
		assert.Equal(t, "Height", est.Phenotype)
		assert.Equal(t, filepath.Join("out", "reml", "Height.SNP")+".reml", est.Path)

		call := runner.Calls()[0]
		assert.Equal(t, filepath.Join("out", "reml", "Height.SNP"), call.ArgAfter("--reml"))
		assert.Equal(t, "grm/snp", call.ArgAfter("--grm"))
		assert.Equal(t, "pheno/Height.tsv", call.ArgAfter("--pheno"))
		assert.False(t, call.HasArg("--covar"))
	})

	t.Run("with covariates", func(t *testing.T) {
		runner := &testutil.FakeRunner{}
		r := &REMLRunner{LDAK: "ldak", Covariates: "covar.tsv", Threads: 4, Runner: runner}
		ph := pheno.File{Name: "Height", Path: "pheno/Height.tsv"}

		_, err := r.RunSingle(context.Background(), fixedTuple()[0], ph, "out/reml")
		require.NoError(t, err)

		call := runner.Calls()[0]
		assert.Equal(t, "covar.tsv", call.ArgAfter("--covar"))
	})
}

func TestREMLRunner_RunMulti(t *testing.T) {
	remlDir := t.TempDir()
	runner := &testutil.FakeRunner{}
	r := &REMLRunner{LDAK: "ldak", Threads: 4, Runner: runner}
	ph := pheno.File{Name: "Weight", Path: "pheno/Weight.tsv"}

	t.Run("pairwise grouping", func(t *testing.T) {
		est, err := r.RunMulti(context.Background(), fixedTuple(), artifact.SNPIndel, ph, remlDir)
		require.NoError(t, err)

		assert.Equal(t, "SNP_INDEL", est.Source)
		assert.Equal(t, filepath.Join(remlDir, "Weight.SNP_INDEL")+".reml", est.Path)

		// The list file must reference the prefixes in canonical order;
		// the tool keys its reported components by list position.
		listContent, err := os.ReadFile(filepath.Join(remlDir, "Weight.SNP_INDEL.list"))
		require.NoError(t, err)
		assert.Equal(t, "grm/snp\ngrm/indel\n", string(listContent))

		call := runner.Calls()[0]
		assert.Equal(t, filepath.Join(remlDir, "Weight.SNP_INDEL"), call.ArgAfter("--reml"))
		assert.Equal(t, filepath.Join(remlDir, "Weight.SNP_INDEL.list"), call.ArgAfter("--mgrm"))
		assert.False(t, call.HasArg("--grm"))
	})

	t.Run("full grouping", func(t *testing.T) {
		est, err := r.RunMulti(context.Background(), fixedTuple(), artifact.SNPIndelSV, ph, remlDir)
		require.NoError(t, err)

		assert.Equal(t, "SNP_INDEL_SV", est.Source)

		listContent, err := os.ReadFile(filepath.Join(remlDir, "Weight.SNP_INDEL_SV.list"))
		require.NoError(t, err)
		assert.Equal(t, "grm/snp\ngrm/indel\ngrm/sv\n", string(listContent))
	})

	t.Run("incomplete tuple is an integrity error", func(t *testing.T) {
		_, err := r.RunMulti(context.Background(), fixedTuple()[:1], artifact.SNPIndel, ph, remlDir)
		require.Error(t, err)
		assert.ErrorContains(t, err, "artifact integrity violation for INDEL")
	})
}

func TestSummarizer(t *testing.T) {
	t.Run("no script configured is a no-op", func(t *testing.T) {
		runner := &testutil.FakeRunner{}
		s := &Summarizer{Runner: runner}
		require.NoError(t, s.Summarize(context.Background(), "out/reml", "out/summary/heritability.xlsx"))
		assert.Empty(t, runner.Calls())
	})

	t.Run("invokes the script over all result files", func(t *testing.T) {
		runner := &testutil.FakeRunner{}
		s := &Summarizer{Script: "table_all_reml.py", Runner: runner}
		require.NoError(t, s.Summarize(context.Background(), "out/reml", "out/summary/heritability.xlsx"))

		calls := runner.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "table_all_reml.py", calls[0].Name)
		assert.Equal(t, filepath.Join("out", "reml", "*.reml"), calls[0].ArgAfter("--pattern"))
		assert.Equal(t, "out/summary/heritability.xlsx", calls[0].ArgAfter("-o"))
	})
}

func TestExecRunner_UnknownBinary(t *testing.T) {
	err := ExecRunner{}.Run(context.Background(), "grmflow-test-binary-that-does-not-exist")
	require.Error(t, err)
	assert.ErrorContains(t, err, "grmflow-test-binary-that-does-not-exist failed")
}
