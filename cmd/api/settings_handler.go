package api

import (
	"context"
	"net/http"
	"time"

	"github.com/BhavyPan/Advance-Web/pkg/ai"

	"github.com/gin-gonic/gin"
)

const ollamaTestTimeout = 5 * time.Second

// UpdateOllamaSettingsRequest represents the request body for updating Ollama settings
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

type SettingsHandler struct {
	ollama *ai.OllamaSettings
}

func NewSettingsHandler(ollama *ai.OllamaSettings) *SettingsHandler {
	return &SettingsHandler{ollama: ollama}
}

// GetOllamaSettings returns current Ollama configuration
// GET /api/settings/ollama
func (h *SettingsHandler) GetOllamaSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"ollama_base_url": h.ollama.BaseURL(),
		"ollama_model":    h.ollama.Model(),
	})
}

// UpdateOllamaSettings updates Ollama configuration at runtime
// PUT /api/settings/ollama
func (h *SettingsHandler) UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.ollama.Update(req.OllamaBaseURL, req.OllamaModel)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": h.ollama.BaseURL(),
		"ollama_model":    h.ollama.Model(),
	})
}

// TestOllamaConnection tests if the Ollama server is reachable
// POST /api/settings/ollama/test
func (h *SettingsHandler) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	// An empty body tests the current settings
	_ = c.ShouldBindJSON(&req)
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = h.ollama.BaseURL()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ollamaTestTimeout)
	defer cancel()

	models, err := ai.NewOllamaService(req.OllamaBaseURL, h.ollama.Model()).Ping(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":   false,
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"connected":       true,
		"ollama_base_url": req.OllamaBaseURL,
		"models":          models,
	})
}
