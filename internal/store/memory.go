package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	apperrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/types"
)

// memoryStore is the default backend: an RWMutex-guarded map plus an
// insertion-order slice so List is stable. Records are cloned on the way in
// and out, so nothing a caller does after Put/Get can mutate stored state.
type memoryStore struct {
	mu    sync.RWMutex
	plans map[string]*types.PlanRecord
	order []string
}

func NewMemoryStore() PlanStore {
	return &memoryStore{plans: map[string]*types.PlanRecord{}}
}

func (s *memoryStore) Put(ctx context.Context, record *types.PlanRecord) error {
	if record == nil || strings.TrimSpace(record.PlanID) == "" {
		return fmt.Errorf("plan record requires an id: %w", apperrors.ErrInvalidArgument)
	}
	cp, err := clonePlan(record)
	if err != nil {
		return fmt.Errorf("encode plan %s: %w", record.PlanID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.plans[record.PlanID]; exists {
		return fmt.Errorf("plan %s already stored: %w", record.PlanID, apperrors.ErrInvalidArgument)
	}
	s.plans[record.PlanID] = cp
	s.order = append(s.order, record.PlanID)
	return nil
}

func (s *memoryStore) Get(ctx context.Context, planID string) (*types.PlanRecord, error) {
	s.mu.RLock()
	rec, ok := s.plans[planID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", planID, apperrors.ErrNotFound)
	}
	return clonePlan(rec)
}

func (s *memoryStore) List(ctx context.Context) ([]types.PlanSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.PlanSummary, 0, len(s.order))
	for _, id := range s.order {
		if rec, ok := s.plans[id]; ok {
			out = append(out, rec.Summary())
		}
	}
	return out, nil
}

func clonePlan(in *types.PlanRecord) (*types.PlanRecord, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var out types.PlanRecord
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
