package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge-backend/internal/logger"
	apperrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/types"
)

// gormStore persists plans to the study_plans table (Postgres or SQLite).
// The primary key makes duplicate Puts fail; rows are never updated.
type gormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGormStore(db *gorm.DB, log *logger.Logger) (PlanStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &gormStore{db: db, log: log.With("service", "GormPlanStore")}, nil
}

func (s *gormStore) Put(ctx context.Context, record *types.PlanRecord) error {
	if record == nil || strings.TrimSpace(record.PlanID) == "" {
		return fmt.Errorf("plan record requires an id: %w", apperrors.ErrInvalidArgument)
	}
	row, err := types.NewPlanRow(record)
	if err != nil {
		return fmt.Errorf("map plan %s: %w", record.PlanID, err)
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("plan %s already stored: %w", record.PlanID, apperrors.ErrInvalidArgument)
		}
		return fmt.Errorf("insert plan %s: %w", record.PlanID, err)
	}
	return nil
}

func (s *gormStore) Get(ctx context.Context, planID string) (*types.PlanRecord, error) {
	id, err := uuid.Parse(strings.TrimSpace(planID))
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", planID, apperrors.ErrNotFound)
	}
	var row types.PlanRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("plan %s: %w", planID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("load plan %s: %w", planID, err)
	}
	return row.Record()
}

func (s *gormStore) List(ctx context.Context) ([]types.PlanSummary, error) {
	var rows []types.PlanRow
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	out := make([]types.PlanSummary, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].Record()
		if err != nil {
			s.log.Warn("stored plan row failed to decode", "plan_id", rows[i].ID.String(), "error", err)
			continue
		}
		out = append(out, rec.Summary())
	}
	return out, nil
}
