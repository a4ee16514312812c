package store

import (
	"context"

	"github.com/studyforge/studyforge-backend/internal/types"
)

// PlanStore is the persistence surface for assembled plans. Insertion is
// append-only: a plan id is written once and never updated. Implementations
// must be safe under concurrent Put/Get/List.
type PlanStore interface {
	Put(ctx context.Context, record *types.PlanRecord) error
	Get(ctx context.Context, planID string) (*types.PlanRecord, error)
	List(ctx context.Context) ([]types.PlanSummary, error)
}
