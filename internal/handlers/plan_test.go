package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge-backend/internal/logger"
	apperrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/services"
	"github.com/studyforge/studyforge-backend/internal/types"
)

type fakePlanService struct {
	record    *types.PlanRecord
	info      services.PDFInfo
	summaries []types.PlanSummary
	err       error

	lastPreferences string
	lastDuration    int
}

func (f *fakePlanService) GeneratePlan(ctx context.Context, upload services.Upload, preferences string, durationDays int) (*types.PlanRecord, services.PDFInfo, error) {
	f.lastPreferences = preferences
	f.lastDuration = durationDays
	if f.err != nil {
		return nil, services.PDFInfo{}, f.err
	}
	return f.record, f.info, nil
}

func (f *fakePlanService) GetPlan(ctx context.Context, planID string) (*types.PlanRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakePlanService) ListPlans(ctx context.Context) ([]types.PlanSummary, error) {
	return f.summaries, f.err
}

func (f *fakePlanService) PlanPDF(ctx context.Context, planID string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakePlanService) PlanCover(ctx context.Context, planID string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func testRecord() *types.PlanRecord {
	return &types.PlanRecord{
		PlanID:              "11111111-2222-3333-4444-555555555555",
		CreatedAt:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		DurationDays:        14,
		LearningPreferences: "visual",
		SourceFile:          "syllabus.pdf",
		SourcePages:         3,
		SyllabusAnalysis:    types.OKResult(types.SyllabusAnalysis{TotalEstimatedHours: 42}),
		LearningAnalysis:    types.OKResult(types.LearningProfile{PrimaryLearningStyle: "visual", RecommendedStudyMethods: []string{"diagrams"}}),
		Schedule:            types.OKResult(types.StudySchedule{Schedule: []types.ScheduleDay{}}),
		Resources:           types.OKResult(types.ResourceSet{ResourceRecommendations: []types.TopicResources{}}),
		ProgressTracking:    types.OKResult(types.ProgressPlan{CheckpointSchedule: []types.Checkpoint{}}),
	}
}

func testHandler(t *testing.T, svc services.PlanService) *PlanHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewPlanHandler(log, svc)
}

func testRouter(h *PlanHandler) *gin.Engine {
	r := gin.New()
	r.POST("/api/generate-plan", h.GeneratePlan)
	r.GET("/api/plan/:id", h.GetPlan)
	r.GET("/api/plan/:id/pdf", h.GetPlanPDF)
	r.GET("/api/plan/:id/cover", h.GetPlanCover)
	r.GET("/api/plans", h.ListPlans)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(fileData); err != nil {
			t.Fatalf("write file data: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestGeneratePlanSuccess(t *testing.T) {
	svc := &fakePlanService{
		record: testRecord(),
		info:   services.PDFInfo{Filename: "syllabus.pdf", Pages: 3},
	}
	router := testRouter(testHandler(t, svc))

	body, contentType := multipartBody(t, map[string]string{
		"learning_preferences": "visual, 2 hours per day",
		"study_duration_days":  "14",
	}, "file", "syllabus.pdf", []byte("%PDF-1.4 syllabus"))

	req := httptest.NewRequest(http.MethodPost, "/api/generate-plan", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	if resp["success"] != true {
		t.Fatalf("success=%v", resp["success"])
	}
	if resp["plan_id"] != svc.record.PlanID {
		t.Fatalf("plan_id=%v", resp["plan_id"])
	}
	info, ok := resp["pdf_info"].(map[string]any)
	if !ok || info["filename"] != "syllabus.pdf" || info["pages"] != float64(3) {
		t.Fatalf("pdf_info=%v", resp["pdf_info"])
	}
	summary, ok := resp["summary"].(map[string]any)
	if !ok || summary["duration_days"] != float64(14) {
		t.Fatalf("summary=%v", resp["summary"])
	}
	if svc.lastDuration != 14 {
		t.Fatalf("service duration=%d", svc.lastDuration)
	}
}

func TestGeneratePlanDefaultsDuration(t *testing.T) {
	svc := &fakePlanService{record: testRecord()}
	router := testRouter(testHandler(t, svc))

	body, contentType := multipartBody(t, map[string]string{
		"learning_preferences": "visual",
	}, "file", "syllabus.txt", []byte("Chapter 1"))

	req := httptest.NewRequest(http.MethodPost, "/api/generate-plan", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.lastDuration != 30 {
		t.Fatalf("default duration=%d", svc.lastDuration)
	}
}

func TestGeneratePlanMissingFile(t *testing.T) {
	router := testRouter(testHandler(t, &fakePlanService{}))

	body, contentType := multipartBody(t, map[string]string{
		"learning_preferences": "visual",
	}, "", "", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-plan", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if resp := decodeJSON(t, w); resp["error"] == nil {
		t.Fatalf("missing error body: %v", resp)
	}
}

func TestGeneratePlanMissingPreferences(t *testing.T) {
	router := testRouter(testHandler(t, &fakePlanService{record: testRecord()}))

	body, contentType := multipartBody(t, nil, "file", "syllabus.txt", []byte("Chapter 1"))
	req := httptest.NewRequest(http.MethodPost, "/api/generate-plan", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGeneratePlanBadDuration(t *testing.T) {
	router := testRouter(testHandler(t, &fakePlanService{record: testRecord()}))

	body, contentType := multipartBody(t, map[string]string{
		"learning_preferences": "visual",
		"study_duration_days":  "soon",
	}, "file", "syllabus.txt", []byte("Chapter 1"))

	req := httptest.NewRequest(http.MethodPost, "/api/generate-plan", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGeneratePlanServiceErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", fmt.Errorf("duration: %w", apperrors.ErrInvalidArgument), http.StatusBadRequest},
		{"unsupported media", fmt.Errorf("extract: %w", apperrors.ErrUnsupportedMedia), http.StatusBadRequest},
		{"no text", fmt.Errorf("extract: %w", apperrors.ErrNoTextContent), http.StatusBadRequest},
		{"internal", fmt.Errorf("stored blew up"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(testHandler(t, &fakePlanService{err: tc.err}))

			body, contentType := multipartBody(t, map[string]string{
				"learning_preferences": "visual",
			}, "file", "syllabus.txt", []byte("Chapter 1"))

			req := httptest.NewRequest(http.MethodPost, "/api/generate-plan", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("status=%d want=%d body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestGeneratePlanUploadTooLarge(t *testing.T) {
	t.Setenv("PLAN_MAX_UPLOAD_MB", "1")
	router := testRouter(testHandler(t, &fakePlanService{record: testRecord()}))

	big := bytes.Repeat([]byte("a"), 2<<20)
	body, contentType := multipartBody(t, map[string]string{
		"learning_preferences": "visual",
	}, "file", "big.txt", big)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-plan", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGetPlan(t *testing.T) {
	rec := testRecord()
	router := testRouter(testHandler(t, &fakePlanService{record: rec}))

	req := httptest.NewRequest(http.MethodGet, "/api/plan/"+rec.PlanID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	resp := decodeJSON(t, w)
	plan, ok := resp["plan"].(map[string]any)
	if !ok || plan["plan_id"] != rec.PlanID {
		t.Fatalf("plan=%v", resp["plan"])
	}
}

func TestGetPlanNotFound(t *testing.T) {
	router := testRouter(testHandler(t, &fakePlanService{err: apperrors.ErrNotFound}))

	req := httptest.NewRequest(http.MethodGet, "/api/plan/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	if resp := decodeJSON(t, w); resp["error"] != "Plan not found" {
		t.Fatalf("error=%v", resp["error"])
	}
}

func TestGetPlanPDF(t *testing.T) {
	rec := testRecord()
	router := testRouter(testHandler(t, &fakePlanService{record: rec}))

	req := httptest.NewRequest(http.MethodGet, "/api/plan/"+rec.PlanID+"/pdf", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type=%s", ct)
	}
	wantDisposition := "attachment; filename=study_plan_" + rec.PlanID + ".pdf"
	if cd := w.Header().Get("Content-Disposition"); cd != wantDisposition {
		t.Fatalf("content-disposition=%s", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF-") {
		t.Fatal("missing pdf header")
	}
}

func TestGetPlanCover(t *testing.T) {
	rec := testRecord()
	router := testRouter(testHandler(t, &fakePlanService{record: rec}))

	req := httptest.NewRequest(http.MethodGet, "/api/plan/"+rec.PlanID+"/cover", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content-type=%s", ct)
	}
}

func TestListPlans(t *testing.T) {
	style := "visual"
	router := testRouter(testHandler(t, &fakePlanService{summaries: []types.PlanSummary{
		{PlanID: "a", DurationDays: 7, TotalEstimatedHours: 20, PrimaryLearningStyle: &style},
		{PlanID: "b", DurationDays: 14},
	}}))

	req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	resp := decodeJSON(t, w)
	if resp["total_plans"] != float64(2) {
		t.Fatalf("total_plans=%v", resp["total_plans"])
	}
	plans, ok := resp["plans"].([]any)
	if !ok || len(plans) != 2 {
		t.Fatalf("plans=%v", resp["plans"])
	}
	second := plans[1].(map[string]any)
	if second["primary_learning_style"] != nil {
		t.Fatalf("degraded style=%v", second["primary_learning_style"])
	}
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	r := gin.New()
	r.GET("/api/health", NewHealthHandler("memory").Health)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	resp := decodeJSON(t, w)
	if resp["status"] != "healthy" {
		t.Fatalf("status=%v", resp["status"])
	}
	if resp["model_configured"] != true {
		t.Fatalf("model_configured=%v", resp["model_configured"])
	}
	if resp["store_backend"] != "memory" {
		t.Fatalf("store_backend=%v", resp["store_backend"])
	}
	if _, err := time.Parse(time.RFC3339, resp["timestamp"].(string)); err != nil {
		t.Fatalf("timestamp: %v", err)
	}
}
