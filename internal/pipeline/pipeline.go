// Package pipeline assembles the heritability analysis into a task graph:
// per-variant-type fan-out, cross-joins against the phenotype set, the GRM
// collection barrier, and the final aggregation fan-in.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/specialistvlad/grmflow/internal/artifact"
	"github.com/specialistvlad/grmflow/internal/config"
	"github.com/specialistvlad/grmflow/internal/ctxlog"
	"github.com/specialistvlad/grmflow/internal/pheno"
	"github.com/specialistvlad/grmflow/internal/reml"
	"github.com/specialistvlad/grmflow/internal/tools"
	"github.com/specialistvlad/grmflow/internal/variant"
)

// SummaryTableName is the file the built-in aggregator writes under the
// summary directory.
const SummaryTableName = "heritability_summary.tsv"

// SpreadsheetName is the file the optional external summarizer writes.
const SpreadsheetName = "heritability.xlsx"

// Pipeline owns the immutable run configuration, the discovered source
// registries, and the artifact store shared by the tasks it plans.
type Pipeline struct {
	cfg      *config.Pipeline
	layout   config.Layout
	variants *variant.Registry
	phenos   []pheno.File
	store    *artifact.Store

	normalizer *tools.Normalizer
	grmBuilder *tools.GRMBuilder
	remlRunner *tools.REMLRunner
	summarizer *tools.Summarizer

	// fused is written once by the collection barrier and read by the
	// multi-GRM tasks; the graph edge orders the accesses.
	fused []artifact.GRMGroup

	covarOnce sync.Once
	covarIDs  map[pheno.SampleID]struct{}
	covarErr  error
}

// New wires a pipeline from its configuration, the discovered phenotype
// set, and a process runner. Tests pass a fake runner; production passes
// tools.ExecRunner.
func New(cfg *config.Pipeline, phenos []pheno.File, runner tools.Runner) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		layout:   cfg.Layout(),
		variants: variant.NewRegistry(cfg.Variants.SNP, cfg.Variants.Indel, cfg.Variants.SV),
		phenos:   phenos,
		store:    artifact.NewStore(),
		normalizer: &tools.Normalizer{
			Script: cfg.Tools.Normalizer,
			Runner: runner,
		},
		grmBuilder: &tools.GRMBuilder{
			LDAK:         cfg.Tools.LDAK,
			MinMAF:       *cfg.GRM.MinMAF,
			KinshipPower: *cfg.GRM.KinshipPower,
			PruneR2:      *cfg.GRM.PruneR2,
			Threads:      cfg.Threads,
			Runner:       runner,
		},
		remlRunner: &tools.REMLRunner{
			LDAK:       cfg.Tools.LDAK,
			Covariates: cfg.Covariates,
			Threads:    cfg.Threads,
			Runner:     runner,
		},
		summarizer: &tools.Summarizer{
			Script: cfg.Tools.Summarizer,
			Runner: runner,
		},
	}
}

// Store exposes the artifact store, primarily for tests and reporting.
func (p *Pipeline) Store() *artifact.Store {
	return p.store
}

// SummaryPath returns where the built-in aggregate table is written.
func (p *Pipeline) SummaryPath() string {
	return filepath.Join(p.layout.Summary, SummaryTableName)
}

// validatePhenotype enforces the phenotype file contract at its point of
// first use by a runner: structure, missing-value sentinel, at least one
// usable value, and covariate coverage of every non-missing sample.
func (p *Pipeline) validatePhenotype(ph pheno.File) error {
	v, err := pheno.Validate(ph.Path)
	if err != nil {
		return err
	}

	if p.cfg.Covariates == "" {
		return nil
	}
	p.covarOnce.Do(func() {
		p.covarIDs, p.covarErr = pheno.SampleIDs(p.cfg.Covariates)
	})
	if p.covarErr != nil {
		return fmt.Errorf("reading covariate file: %w", p.covarErr)
	}
	for _, s := range v.Samples {
		if _, ok := p.covarIDs[s]; !ok {
			return fmt.Errorf("covariate file %s is missing sample %s required by phenotype %s", p.cfg.Covariates, s, ph.Name)
		}
	}
	return nil
}

// aggregate is the terminal fan-in: it refuses to run on a partial
// estimate set, writes the built-in summary table, and then invokes the
// external spreadsheet renderer if one is configured.
func (p *Pipeline) aggregate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	want := len(p.phenos) * (len(variant.AllTypes()) + len(artifact.FusionGroups()))
	estimates := p.store.Estimates()
	if len(estimates) != want {
		return fmt.Errorf("aggregation barrier violated: have %d heritability estimates, want %d", len(estimates), want)
	}

	logger.Info("▶️ Aggregating heritability estimates", "count", len(estimates))
	if err := reml.WriteSummary(estimates, p.SummaryPath()); err != nil {
		return err
	}

	spreadsheet := filepath.Join(p.layout.Summary, SpreadsheetName)
	if err := p.summarizer.Summarize(ctx, p.layout.REML, spreadsheet); err != nil {
		return err
	}

	logger.Info("✅ Aggregation complete", "summary", p.SummaryPath())
	return nil
}
