package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specialistvlad/grmflow/internal/artifact"
	"github.com/specialistvlad/grmflow/internal/ctxlog"
	"github.com/specialistvlad/grmflow/internal/pheno"
)

// REMLRunner drives the variance-component estimation tool, once per
// (GRM, phenotype) pair for single-GRM analyses and once per fusion
// grouping for multi-GRM analyses.
//
// Result naming is `<phenotype>.<tag-or-label>.reml`; phenotype base name
// crossed with the source tag is a unique key, so no two tasks ever write
// the same file.
type REMLRunner struct {
	LDAK       string
	Covariates string
	Threads    int
	Runner     Runner
}

// RunSingle estimates heritability for one phenotype from one GRM.
func (r *REMLRunner) RunSingle(ctx context.Context, grm artifact.GRMGroup, ph pheno.File, remlDir string) (artifact.Estimate, error) {
	logger := ctxlog.FromContext(ctx).With("variant", grm.Type, "phenotype", ph.Name)
	logger.Info("▶️ Estimating single-GRM heritability")

	outPrefix := filepath.Join(remlDir, ph.Name+"."+string(grm.Type))
	args := []string{
		"--reml", outPrefix,
		"--grm", grm.Prefix,
		"--pheno", ph.Path,
	}
	args = r.appendCommon(args)

	if err := r.Runner.Run(ctx, r.LDAK, args...); err != nil {
		return artifact.Estimate{}, fmt.Errorf("single-GRM REML for phenotype %s on %s: %w", ph.Name, grm.Type, err)
	}

	logger.Info("✅ Single-GRM heritability estimated")
	return artifact.Estimate{
		Source:    string(grm.Type),
		Phenotype: ph.Name,
		Path:      outPrefix + ".reml",
	}, nil
}

// RunMulti estimates heritability for one phenotype from a fusion grouping
// of GRMs. The tuple must be in canonical order; the list file written for
// the tool preserves that order because the tool keys its reported
// components by list position.
func (r *REMLRunner) RunMulti(ctx context.Context, tuple []artifact.GRMGroup, group artifact.FusionGroup, ph pheno.File, remlDir string) (artifact.Estimate, error) {
	label := group.Label()
	logger := ctxlog.FromContext(ctx).With("group", label, "phenotype", ph.Name)
	logger.Info("▶️ Estimating multi-GRM heritability")

	prefixes, err := prefixesFor(tuple, group)
	if err != nil {
		return artifact.Estimate{}, err
	}

	listPath := filepath.Join(remlDir, ph.Name+"."+label+".list")
	if err := os.WriteFile(listPath, []byte(strings.Join(prefixes, "\n")+"\n"), 0o644); err != nil {
		return artifact.Estimate{}, fmt.Errorf("writing GRM list file %s: %w", listPath, err)
	}

	outPrefix := filepath.Join(remlDir, ph.Name+"."+label)
	args := []string{
		"--reml", outPrefix,
		"--mgrm", listPath,
		"--pheno", ph.Path,
	}
	args = r.appendCommon(args)

	if err := r.Runner.Run(ctx, r.LDAK, args...); err != nil {
		return artifact.Estimate{}, fmt.Errorf("multi-GRM REML for phenotype %s on %s: %w", ph.Name, label, err)
	}

	logger.Info("✅ Multi-GRM heritability estimated")
	return artifact.Estimate{
		Source:    label,
		Phenotype: ph.Name,
		Path:      outPrefix + ".reml",
	}, nil
}

// appendCommon adds the optional covariate file and the thread hint.
func (r *REMLRunner) appendCommon(args []string) []string {
	if r.Covariates != "" {
		args = append(args, "--covar", r.Covariates)
	}
	return append(args, "--max-threads", strconv.Itoa(r.Threads))
}

// prefixesFor selects, in group order, the GRM prefixes from the
// fixed-order tuple produced by the collection barrier.
func prefixesFor(tuple []artifact.GRMGroup, group artifact.FusionGroup) ([]string, error) {
	prefixes := make([]string, 0, len(group))
	for _, t := range group {
		found := false
		for _, g := range tuple {
			if g.Type == t {
				prefixes = append(prefixes, g.Prefix)
				found = true
				break
			}
		}
		if !found {
			return nil, &artifact.IntegrityError{Type: t, Reason: "GRM missing from collected tuple"}
		}
	}
	return prefixes, nil
}
