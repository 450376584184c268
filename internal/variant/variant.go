// Package variant defines the fixed set of variant-call types the pipeline
// fans out over, and the registry pairing each type with its call-set file.
package variant

import "fmt"

// Type identifies one of the three variant-call classes handled by the
// pipeline. The set is closed; every downstream artifact is keyed by it.
type Type string

const (
	SNP   Type = "SNP"
	INDEL Type = "INDEL"
	SV    Type = "SV"
)

// AllTypes returns the canonical ordering of variant types. Every place
// that needs a deterministic ordering (fusion list files, the re-keyed GRM
// tuple, summary rows) derives it from this slice.
func AllTypes() []Type {
	return []Type{SNP, INDEL, SV}
}

// ParseType converts a string label into a Type. Unknown labels are an
// error rather than a silently passed-through value.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case SNP, INDEL, SV:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown variant type %q (expected SNP, INDEL or SV)", s)
}

// Input pairs a variant type with the call-set file it is read from.
// Inputs are created once at startup and never mutated.
type Input struct {
	Type Type
	Path string
}

// Registry holds the fixed set of variant inputs, one per type, in
// canonical order.
type Registry struct {
	inputs []Input
}

// NewRegistry builds the registry from the three configured call-set paths.
func NewRegistry(snpPath, indelPath, svPath string) *Registry {
	return &Registry{inputs: []Input{
		{Type: SNP, Path: snpPath},
		{Type: INDEL, Path: indelPath},
		{Type: SV, Path: svPath},
	}}
}

// Inputs returns the registered inputs in canonical order.
func (r *Registry) Inputs() []Input {
	out := make([]Input, len(r.inputs))
	copy(out, r.inputs)
	return out
}

// Lookup returns the input registered for the given type.
func (r *Registry) Lookup(t Type) (Input, bool) {
	for _, in := range r.inputs {
		if in.Type == t {
			return in, true
		}
	}
	return Input{}, false
}
