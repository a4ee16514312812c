package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	storeBackend string
}

func NewHealthHandler(storeBackend string) *HealthHandler {
	return &HealthHandler{storeBackend: storeBackend}
}

// GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service":          "studyforge-backend",
		"model_configured": strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "",
		"store_backend":    h.storeBackend,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}
