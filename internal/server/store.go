package server

import (
	"sync"

	"github.com/google/uuid"

	"invoice-recon/internal/entity"
)

// RunStore keeps completed run reports in process memory, bounded to the most
// recent maxRuns. Reports vanish with the process; this is a serving cache,
// not storage.
type RunStore struct {
	mu    sync.Mutex
	max   int
	runs  map[uuid.UUID]*entity.RunReport
	order []uuid.UUID
}

func NewRunStore(maxRuns int) *RunStore {
	if maxRuns <= 0 {
		maxRuns = 32
	}
	return &RunStore{
		max:  maxRuns,
		runs: make(map[uuid.UUID]*entity.RunReport),
	}
}

// Put stores a report, evicting the oldest one when the bound is reached.
func (s *RunStore) Put(report *entity.RunReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[report.ID]; !ok {
		s.order = append(s.order, report.ID)
		if len(s.order) > s.max {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.runs, oldest)
		}
	}
	s.runs[report.ID] = report
}

// Get returns a stored report by run ID.
func (s *RunStore) Get(id uuid.UUID) (*entity.RunReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.runs[id]
	return report, ok
}

// Len reports how many runs are currently stored.
func (s *RunStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}
