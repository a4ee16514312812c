package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge-backend/internal/logger"
	apperrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/services"
	"github.com/studyforge/studyforge-backend/internal/utils"
)

const defaultDurationDays = 30

type PlanHandler struct {
	log            *logger.Logger
	planService    services.PlanService
	maxUploadBytes int64
}

func NewPlanHandler(log *logger.Logger, planService services.PlanService) *PlanHandler {
	maxMB := utils.GetEnvAsInt("PLAN_MAX_UPLOAD_MB", 50, log)
	if maxMB <= 0 {
		maxMB = 50
	}
	return &PlanHandler{
		log:            log.With("handler", "PlanHandler"),
		planService:    planService,
		maxUploadBytes: int64(maxMB) << 20,
	}
}

// POST /api/generate-plan
// Multipart: file (required), learning_preferences (required),
// study_duration_days (optional, default 30).
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Uploaded file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No syllabus file provided. Please upload a syllabus document."})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected. Please choose a syllabus document."})
		return
	}

	preferences := strings.TrimSpace(c.PostForm("learning_preferences"))
	if preferences == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Learning preferences are required"})
		return
	}

	durationDays := defaultDurationDays
	if raw := strings.TrimSpace(c.PostForm("study_duration_days")); raw != "" {
		durationDays, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "study_duration_days must be an integer"})
			return
		}
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.log.Error("open upload failed", "error", err, "file", fileHeader.Filename)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.log.Error("read upload failed", "error", err, "file", fileHeader.Filename)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	upload := services.Upload{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}
	record, info, err := h.planService.GeneratePlan(c.Request.Context(), upload, preferences, durationDays)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidArgument),
			errors.Is(err, apperrors.ErrUnsupportedMedia),
			errors.Is(err, apperrors.ErrNoTextContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error("GeneratePlan failed", "error", err, "file", fileHeader.Filename)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate study plan"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"plan_id":  record.PlanID,
		"message":  "Study plan generated successfully",
		"pdf_info": info,
		"summary":  record.Summary(),
	})
}

// GET /api/plan/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	record, err := h.planService.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plan": record})
}

// GET /api/plan/:id/pdf
func (h *PlanHandler) GetPlanPDF(c *gin.Context) {
	planID := c.Param("id")
	data, err := h.planService.PlanPDF(c.Request.Context(), planID)
	if err != nil {
		h.respondPlanError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=study_plan_%s.pdf", planID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// GET /api/plan/:id/cover
func (h *PlanHandler) GetPlanCover(c *gin.Context) {
	data, err := h.planService.PlanCover(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondPlanError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// GET /api/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	summaries, err := h.planService.ListPlans(c.Request.Context())
	if err != nil {
		h.log.Error("ListPlans failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list study plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"plans":       summaries,
		"total_plans": len(summaries),
	})
}

func (h *PlanHandler) respondPlanError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	h.log.Error("plan request failed", "error", err, "plan_id", c.Param("id"))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
