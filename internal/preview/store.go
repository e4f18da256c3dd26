package preview

import (
	"sync"

	"fightsim/internal/encounter"
	"fightsim/internal/generate"
	"fightsim/internal/lint"
)

// Store holds the collections the server answers from. The watch loop swaps
// in a fresh build with Replace while requests are in flight.
type Store struct {
	mu       sync.RWMutex
	cols     []generate.Collection
	findings []lint.Finding
	opts     encounter.EncodeOptions
}

func NewStore(opts encounter.EncodeOptions) *Store {
	return &Store{opts: opts, findings: []lint.Finding{}}
}

// Replace installs a new build and re-runs lint over it.
func (s *Store) Replace(cols []generate.Collection) {
	findings := lint.Check(cols)
	lint.Sort(findings)
	if findings == nil {
		findings = []lint.Finding{}
	}
	s.mu.Lock()
	s.cols = cols
	s.findings = findings
	s.mu.Unlock()
}

func (s *Store) Snapshot() ([]generate.Collection, []lint.Finding) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols, s.findings
}

func (s *Store) collection(name string) (generate.Collection, bool) {
	cols, _ := s.Snapshot()
	for _, c := range cols {
		if c.Name == name {
			return c, true
		}
	}
	return generate.Collection{}, false
}

func (s *Store) record(name, id string) (generate.Record, bool) {
	col, ok := s.collection(name)
	if !ok {
		return generate.Record{}, false
	}
	for _, r := range col.Records {
		if r.ID == id {
			return r, true
		}
	}
	return generate.Record{}, false
}
