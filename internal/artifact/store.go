package artifact

import (
	"sync"

	"github.com/specialistvlad/grmflow/internal/variant"
)

// Store collects artifacts produced by concurrently executing tasks. It is
// ephemeral, created fresh for each pipeline run, and is the only shared
// state between branches.
//
// GRM groups are keyed explicitly by variant type rather than collected
// into a positional sequence, so the barrier stage can re-assemble the
// fixed-order tuple without scanning for matching labels.
type Store struct {
	mu        sync.Mutex
	grms      map[variant.Type]GRMGroup
	estimates []Estimate
}

// NewStore creates an empty artifact store.
func NewStore() *Store {
	return &Store{grms: make(map[variant.Type]GRMGroup)}
}

// PutGRM registers the GRM bundle for one variant type. Registering the
// same type twice means two branches claimed the same identity, which is
// an integrity violation, never a value to silently overwrite.
func (s *Store) PutGRM(g GRMGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.grms[g.Type]; exists {
		return &IntegrityError{Type: g.Type, Reason: "GRM artifact registered twice"}
	}
	s.grms[g.Type] = g
	return nil
}

// GRM returns the registered bundle for one variant type.
func (s *Store) GRM(t variant.Type) (GRMGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.grms[t]
	return g, ok
}

// GRMTuple re-keys the collected set into the canonical fixed order
// (SNP, INDEL, SV), regardless of the order branches completed in. A
// missing type is an integrity violation: a branch failed silently or was
// never wired, and proceeding would misalign the fusion inputs.
func (s *Store) GRMTuple() ([]GRMGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tuple := make([]GRMGroup, 0, len(variant.AllTypes()))
	for _, t := range variant.AllTypes() {
		g, ok := s.grms[t]
		if !ok {
			return nil, &IntegrityError{Type: t, Reason: "no GRM artifact collected"}
		}
		tuple = append(tuple, g)
	}
	return tuple, nil
}

// AddEstimate records one terminal heritability estimate.
func (s *Store) AddEstimate(e Estimate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estimates = append(s.estimates, e)
}

// Estimates returns a copy of all estimates recorded so far.
func (s *Store) Estimates() []Estimate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Estimate, len(s.estimates))
	copy(out, s.estimates)
	return out
}
