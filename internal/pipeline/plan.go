package pipeline

import (
	"context"
	"fmt"

	"github.com/specialistvlad/grmflow/internal/artifact"
	"github.com/specialistvlad/grmflow/internal/dag"
	"github.com/specialistvlad/grmflow/internal/pheno"
	"github.com/specialistvlad/grmflow/internal/variant"
)

// Task ID constructors. IDs are derived from (stage, type, phenotype) keys
// so every task in the plan is uniquely addressable in logs and errors.
func normalizeID(t variant.Type) string { return fmt.Sprintf("normalize.%s", t) }
func grmID(t variant.Type) string       { return fmt.Sprintf("grm.%s", t) }
func singleREMLID(t variant.Type, ph pheno.File) string {
	return fmt.Sprintf("reml.%s.%s", t, ph.Name)
}
func multiREMLID(ph pheno.File) string { return fmt.Sprintf("mgrm.%s", ph.Name) }

// CollectID is the GRM collection barrier task.
const CollectID = "grm.collect"

// SummaryID is the terminal aggregation task.
const SummaryID = "summary"

// Graph plans the complete task graph:
//
//	normalize.<T>  -> grm.<T>                      (3 parallel branches)
//	grm.<T>        -> reml.<T>.<pheno>             (cross-join, 3xN)
//	grm.*          -> grm.collect                  (barrier + re-keying)
//	grm.collect    -> mgrm.<pheno>                 (cross-join, N)
//	reml.*, mgrm.* -> summary                      (full-set fan-in)
func (p *Pipeline) Graph() (*dag.Graph, error) {
	g := dag.New()

	// Per-type fan-out: normalize then build the GRM. The normalized
	// artifact is handed to the GRM task through a branch-local variable;
	// the edge orders the write before the read.
	for _, in := range p.variants.Inputs() {
		in := in
		var normalized artifact.Normalized

		err := g.AddTask(normalizeID(in.Type), func(ctx context.Context) error {
			a, err := p.normalizer.Normalize(ctx, in, p.layout.Normalized)
			if err != nil {
				return err
			}
			normalized = a
			return nil
		})
		if err != nil {
			return nil, err
		}

		err = g.AddTask(grmID(in.Type), func(ctx context.Context) error {
			group, err := p.grmBuilder.Build(ctx, normalized, p.layout.GRM)
			if err != nil {
				return err
			}
			return p.store.PutGRM(group)
		})
		if err != nil {
			return nil, err
		}

		if err := g.AddEdge(normalizeID(in.Type), grmID(in.Type)); err != nil {
			return nil, err
		}
	}

	// Barrier + re-keying: waits for all three GRM branches, then
	// re-assembles the fixed-order tuple by explicit type key. Duplicate
	// or missing types surface here as integrity errors.
	err := g.AddTask(CollectID, func(ctx context.Context) error {
		tuple, err := p.store.GRMTuple()
		if err != nil {
			return err
		}
		p.fused = tuple
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, t := range variant.AllTypes() {
		if err := g.AddEdge(grmID(t), CollectID); err != nil {
			return nil, err
		}
	}

	// Single-GRM cross-join: every GRM against every phenotype. Both
	// sides are finite and fully materialized, so the product is plain
	// nested iteration.
	for _, ph := range p.phenos {
		ph := ph
		for _, t := range variant.AllTypes() {
			t := t
			err := g.AddTask(singleREMLID(t, ph), func(ctx context.Context) error {
				if err := p.validatePhenotype(ph); err != nil {
					return err
				}
				group, ok := p.store.GRM(t)
				if !ok {
					return &artifact.IntegrityError{Type: t, Reason: "no GRM artifact collected"}
				}
				est, err := p.remlRunner.RunSingle(ctx, group, ph, p.layout.REML)
				if err != nil {
					return err
				}
				p.store.AddEstimate(est)
				return nil
			})
			if err != nil {
				return nil, err
			}
			if err := g.AddEdge(grmID(t), singleREMLID(t, ph)); err != nil {
				return nil, err
			}
		}
	}

	// Multi-GRM cross-join: the re-keyed tuple against every phenotype.
	// Each task performs both fusion analyses sequentially; they share no
	// state beyond the read-only tuple.
	for _, ph := range p.phenos {
		ph := ph
		err := g.AddTask(multiREMLID(ph), func(ctx context.Context) error {
			if err := p.validatePhenotype(ph); err != nil {
				return err
			}
			for _, group := range artifact.FusionGroups() {
				est, err := p.remlRunner.RunMulti(ctx, p.fused, group, ph, p.layout.REML)
				if err != nil {
					return err
				}
				p.store.AddEstimate(est)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if err := g.AddEdge(CollectID, multiREMLID(ph)); err != nil {
			return nil, err
		}
	}

	// Aggregation fan-in over every terminal estimate.
	if err := g.AddTask(SummaryID, p.aggregate); err != nil {
		return nil, err
	}
	for _, ph := range p.phenos {
		if err := g.AddEdge(multiREMLID(ph), SummaryID); err != nil {
			return nil, err
		}
		for _, t := range variant.AllTypes() {
			if err := g.AddEdge(singleREMLID(t, ph), SummaryID); err != nil {
				return nil, err
			}
		}
	}

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}

	return g, nil
}
