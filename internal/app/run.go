package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/grmflow/internal/ctxlog"
	"github.com/specialistvlad/grmflow/internal/dag"
	"github.com/specialistvlad/grmflow/internal/pheno"
	"github.com/specialistvlad/grmflow/internal/pipeline"
	"github.com/specialistvlad/grmflow/internal/tools"
)

// Run executes the full pipeline: validate inputs, discover phenotypes,
// plan the task graph, and drive it to completion.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	// Input problems abort here, before any task starts or any output
	// directory is touched.
	if err := a.pipeline.Validate(); err != nil {
		return fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	if err := a.pipeline.EnsureLayout(); err != nil {
		return err
	}

	phenos, err := pheno.Discover(a.pipeline.Phenotypes.Dir)
	if err != nil {
		return err
	}
	a.logger.Debug("Phenotype files discovered.", "count", len(phenos))

	p := pipeline.New(a.pipeline, phenos, tools.ExecRunner{})
	graph, err := p.Graph()
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", graph.Len())

	a.logger.Info("🚀 Starting pipeline execution...",
		"tasks", graph.Len(),
		"phenotypes", len(phenos),
		"workers", a.appCfg.Workers,
	)
	exec := dag.NewExecutor(graph, a.appCfg.Workers)
	if err := exec.Run(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Pipeline finished.", "summary", p.SummaryPath())

	a.logger.Debug("App.Run method finished.")
	return nil
}
