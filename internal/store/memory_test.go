package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/types"
)

func testPlan(id string) *types.PlanRecord {
	return &types.PlanRecord{
		PlanID:              id,
		CreatedAt:           time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		DurationDays:        10,
		LearningPreferences: "visual, 2h/day",
		SyllabusAnalysis: types.OKResult(types.SyllabusAnalysis{
			Subjects:            []types.Subject{{Name: "Algorithms", Chapters: []string{"Intro"}}},
			TotalEstimatedHours: 40,
		}),
		LearningAnalysis: types.OKResult(types.LearningProfile{
			PrimaryLearningStyle:    "visual",
			RecommendedStudyMethods: []string{"diagrams"},
		}),
		Schedule:         types.ErrResult(errors.New("schedule failed")),
		Resources:        types.OKResult(types.ResourceSet{ResourceRecommendations: []types.TopicResources{}}),
		ProgressTracking: types.OKResult(types.ProgressPlan{CheckpointSchedule: []types.Checkpoint{}}),
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := testPlan(uuid.NewString())
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, rec.PlanID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DurationDays != 10 || got.LearningPreferences != rec.LearningPreferences {
		t.Fatalf("got=%+v", got)
	}
	if !got.Schedule.Failed() {
		t.Fatal("error marker lost on round trip")
	}
}

func TestMemoryStoreGetIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := testPlan(uuid.NewString())
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	first, err := s.Get(ctx, rec.PlanID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// Mutating the first read must not affect the second.
	first.DurationDays = 999
	first.LearningPreferences = "tampered"

	second, err := s.Get(ctx, rec.PlanID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	a, _ := json.Marshal(testPlan(rec.PlanID))
	b, _ := json.Marshal(second)
	// Same id, same content: reads see exactly what was put.
	if string(a) != string(b) {
		t.Fatalf("second read diverged:\n%s\n%s", a, b)
	}
}

func TestMemoryStoreAppendOnly(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := testPlan(uuid.NewString())
	if err := s.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, rec); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("duplicate Put err=%v", err)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestMemoryStoreListOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	for _, id := range ids {
		if err := s.Put(ctx, testPlan(id)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	summaries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != len(ids) {
		t.Fatalf("summaries=%d", len(summaries))
	}
	for i, sum := range summaries {
		if sum.PlanID != ids[i] {
			t.Fatalf("order mismatch at %d: %s != %s", i, sum.PlanID, ids[i])
		}
		if sum.TotalEstimatedHours != 40 {
			t.Fatalf("summary hours=%v", sum.TotalEstimatedHours)
		}
		if sum.PrimaryLearningStyle == nil || *sum.PrimaryLearningStyle != "visual" {
			t.Fatalf("summary style=%v", sum.PrimaryLearningStyle)
		}
	}
}

func TestMemoryStoreConcurrentPuts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := testPlan(fmt.Sprintf("%s-%d", uuid.NewString(), i))
			errs <- s.Put(ctx, rec)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Put: %v", err)
		}
	}

	summaries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != n {
		t.Fatalf("stored=%d want %d", len(summaries), n)
	}
	seen := map[string]bool{}
	for _, sum := range summaries {
		if seen[sum.PlanID] {
			t.Fatalf("duplicate plan id %s", sum.PlanID)
		}
		seen[sum.PlanID] = true
	}
}
