package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge-backend/internal/extract"
	"github.com/studyforge/studyforge-backend/internal/logger"
	"github.com/studyforge/studyforge-backend/internal/modules/plan"
	apperrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/render"
	"github.com/studyforge/studyforge-backend/internal/store"
	"github.com/studyforge/studyforge-backend/internal/types"
)

// MaxDurationDays bounds requested plan length; anything longer produces
// collaborator output no one reads.
const MaxDurationDays = 365

// Upload carries the raw syllabus file as received from the caller.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

// PDFInfo echoes the parsed upload back to the caller: the original file
// name and how many pages of it were read.
type PDFInfo struct {
	Filename string `json:"filename"`
	Pages    int    `json:"pages"`
}

type PlanService interface {
	// GeneratePlan runs extraction and the full stage pipeline, assembles an
	// immutable PlanRecord and stores it. Extraction failure is terminal;
	// stage failures degrade into error markers inside the stored record.
	GeneratePlan(ctx context.Context, upload Upload, preferences string, durationDays int) (*types.PlanRecord, PDFInfo, error)
	GetPlan(ctx context.Context, planID string) (*types.PlanRecord, error)
	ListPlans(ctx context.Context) ([]types.PlanSummary, error)
	PlanPDF(ctx context.Context, planID string) ([]byte, error)
	PlanCover(ctx context.Context, planID string) ([]byte, error)
}

type planService struct {
	log      *logger.Logger
	store    store.PlanStore
	pipeline *plan.Pipeline
}

func NewPlanService(log *logger.Logger, planStore store.PlanStore, pipeline *plan.Pipeline) PlanService {
	return &planService{
		log:      log.With("service", "PlanService"),
		store:    planStore,
		pipeline: pipeline,
	}
}

func (ps *planService) GeneratePlan(ctx context.Context, upload Upload, preferences string, durationDays int) (*types.PlanRecord, PDFInfo, error) {
	preferences = strings.TrimSpace(preferences)
	if preferences == "" {
		return nil, PDFInfo{}, fmt.Errorf("learning preferences required: %w", apperrors.ErrInvalidArgument)
	}
	if durationDays <= 0 {
		return nil, PDFInfo{}, fmt.Errorf("duration must be a positive number of days: %w", apperrors.ErrInvalidArgument)
	}
	if durationDays > MaxDurationDays {
		return nil, PDFInfo{}, fmt.Errorf("duration exceeds %d days: %w", MaxDurationDays, apperrors.ErrInvalidArgument)
	}

	extracted, err := extract.Extract(upload.Filename, upload.MimeType, upload.Data)
	if err != nil {
		// Terminal: no text means no plan, nothing is stored.
		return nil, PDFInfo{}, fmt.Errorf("extract syllabus: %w", err)
	}

	results := ps.pipeline.Run(ctx, plan.Request{
		SyllabusText:        extracted.Text,
		LearningPreferences: preferences,
		DurationDays:        durationDays,
	})

	record := &types.PlanRecord{
		PlanID:              uuid.NewString(),
		CreatedAt:           time.Now().UTC(),
		DurationDays:        durationDays,
		LearningPreferences: preferences,
		SourceFile:          upload.Filename,
		SourcePages:         extracted.Pages,
		SyllabusAnalysis:    results.Analysis,
		LearningAnalysis:    results.Profile,
		Schedule:            results.Schedule,
		Resources:           results.Resources,
		ProgressTracking:    results.Progress,
	}

	if err := ps.store.Put(ctx, record); err != nil {
		return nil, PDFInfo{}, fmt.Errorf("store plan: %w", err)
	}

	info := PDFInfo{Filename: upload.Filename, Pages: extracted.Pages}

	ps.log.Info("study plan generated",
		"plan_id", record.PlanID,
		"duration_days", durationDays,
		"source_file", upload.Filename,
		"source_pages", extracted.Pages,
	)
	return record, info, nil
}

func (ps *planService) GetPlan(ctx context.Context, planID string) (*types.PlanRecord, error) {
	return ps.store.Get(ctx, planID)
}

func (ps *planService) ListPlans(ctx context.Context) ([]types.PlanSummary, error) {
	return ps.store.List(ctx)
}

func (ps *planService) PlanPDF(ctx context.Context, planID string) ([]byte, error) {
	rec, err := ps.store.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	return render.PDF(rec)
}

func (ps *planService) PlanCover(ctx context.Context, planID string) ([]byte, error) {
	rec, err := ps.store.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	return render.Cover(rec)
}
