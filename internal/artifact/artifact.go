// Package artifact defines the typed records handed between pipeline
// stages, the thread-safe store they are collected in, and the fusion
// groupings used for multi-GRM analysis.
//
// All cross-task communication goes through these records; stages never
// share other mutable state.
package artifact

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/grmflow/internal/variant"
)

// Normalized is a variant call set rewritten by the external normalizer,
// 1:1 with its variant input.
type Normalized struct {
	Type variant.Type
	Path string
}

// GRMGroup is the kinship-matrix bundle produced for one variant type.
// Prefix is the symbolic handle downstream tools address the bundle by;
// Files lists the concrete paths sharing that prefix.
type GRMGroup struct {
	Type   variant.Type
	Prefix string
	Files  []string
}

// Estimate is one terminal heritability result. Source is either a single
// variant type ("SNP") or a fusion label ("SNP_INDEL_SV").
type Estimate struct {
	Source    string
	Phenotype string
	Path      string
}

// FusionGroup is an ordered list of variant types analysed jointly.
// Ordering is fixed so the tool's list files and component labels are
// reproducible across runs.
type FusionGroup []variant.Type

// The two fusion groupings the pipeline computes per phenotype.
var (
	SNPIndel   = FusionGroup{variant.SNP, variant.INDEL}
	SNPIndelSV = FusionGroup{variant.SNP, variant.INDEL, variant.SV}
)

// FusionGroups returns all fusion groupings in a fixed order.
func FusionGroups() []FusionGroup {
	return []FusionGroup{SNPIndel, SNPIndelSV}
}

// Label renders the grouping's name, e.g. "SNP_INDEL".
func (g FusionGroup) Label() string {
	parts := make([]string, len(g))
	for i, t := range g {
		parts[i] = string(t)
	}
	return strings.Join(parts, "_")
}

// IntegrityError reports a violated collection invariant: a GRM artifact
// registered twice for the same type, or a type absent when the barrier
// re-keys the collected set. It is a distinct type so callers can tell a
// wiring problem apart from a tool failure.
type IntegrityError struct {
	Type   variant.Type
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("artifact integrity violation for %s: %s", e.Type, e.Reason)
}
