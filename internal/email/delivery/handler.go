package delivery

import (
	"errors"
	"net/http"

	authdelivery "github.com/BhavyPan/Advance-Web/internal/auth/delivery"
	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
	emaildto "github.com/BhavyPan/Advance-Web/internal/email/dto"
	"github.com/BhavyPan/Advance-Web/internal/email/usecase"
	"github.com/BhavyPan/Advance-Web/pkg/ai"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
)

type EmailHandler struct {
	emailUsecase  usecase.EmailUsecase
	triageUsecase usecase.TriageUsecase
	log           zerolog.Logger
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase, triageUsecase usecase.TriageUsecase, log zerolog.Logger) *EmailHandler {
	return &EmailHandler{
		emailUsecase:  emailUsecase,
		triageUsecase: triageUsecase,
		log:           log.With().Str("component", "email_handler").Logger(),
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondError maps the error taxonomy to an HTTP status
func (h *EmailHandler) respondError(c *gin.Context, err error) {
	var backendErr *ai.BackendError
	switch {
	case emaildomain.IsValidationError(err):
		fail(c, http.StatusBadRequest, err.Error())
	case authdomain.IsAuthError(err):
		fail(c, http.StatusUnauthorized, err.Error())
	case emaildomain.IsFetchError(err), errors.Is(err, emaildomain.ErrMessageNotFound):
		h.log.Warn().Err(err).Str("path", c.FullPath()).Msg("message fetch failed")
		fail(c, http.StatusBadGateway, "Could not fetch email")
	case errors.Is(err, ai.ErrNoModel):
		fail(c, http.StatusServiceUnavailable, "AI service unavailable")
	case errors.As(err, &backendErr):
		h.log.Warn().Err(err).Str("path", c.FullPath()).Msg("ai backend failed")
		fail(c, http.StatusServiceUnavailable, "AI service unavailable")
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func (h *EmailHandler) credentials(c *gin.Context) (authdomain.CredentialBundle, bool) {
	bundle, ok := authdelivery.Credentials(c)
	if !ok {
		fail(c, http.StatusBadRequest, "No tokens provided")
	}
	return bundle, ok
}

func (h *EmailHandler) triage(c *gin.Context, mode emaildomain.TriageMode) {
	bundle, ok := h.credentials(c)
	if !ok {
		return
	}

	result, err := h.triageUsecase.Triage(c.Request.Context(), bundle, mode)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emaildto.TriageResponse{Success: true, TriageResult: result})
}

// POST /api/emails
func (h *EmailHandler) ListEmails(c *gin.Context) {
	h.triage(c, emaildomain.ModeInbox)
}

// POST /api/analyze-all-emails
func (h *EmailHandler) AnalyzeAllEmails(c *gin.Context) {
	h.triage(c, emaildomain.ModeAnalyzeAll)
}

// POST /api/analyze-labels
func (h *EmailHandler) AnalyzeLabels(c *gin.Context) {
	bundle, ok := h.credentials(c)
	if !ok {
		return
	}

	result, err := h.triageUsecase.AnalyzeLabels(c.Request.Context(), bundle)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emaildto.LabelAnalysisResponse{Success: true, LabelAnalysisResult: result})
}

// POST /api/email/:id
func (h *EmailHandler) GetEmail(c *gin.Context) {
	bundle, ok := h.credentials(c)
	if !ok {
		return
	}

	resp, err := h.emailUsecase.GetEmail(c.Request.Context(), bundle, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/email/:id/analyze
func (h *EmailHandler) AnalyzeEmail(c *gin.Context) {
	bundle, ok := h.credentials(c)
	if !ok {
		return
	}

	resp, err := h.emailUsecase.AnalyzeEmail(c.Request.Context(), bundle, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/email/:id/smart-reply
func (h *EmailHandler) SmartReply(c *gin.Context) {
	bundle, ok := h.credentials(c)
	if !ok {
		return
	}

	resp, err := h.emailUsecase.SmartReply(c.Request.Context(), bundle, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/send-email
func (h *EmailHandler) SendEmail(c *gin.Context) {
	bundle, ok := h.credentials(c)
	if !ok {
		return
	}

	var req emaildto.SendEmailRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.emailUsecase.SendEmail(c.Request.Context(), bundle, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/ai-compose-email
func (h *EmailHandler) ComposeEmail(c *gin.Context) {
	var req emaildto.ComposeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	content, err := h.emailUsecase.ComposeEmail(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emaildto.ComposeEmailResponse{Success: true, EmailContent: content})
}

// POST /api/ai-enhance-email
func (h *EmailHandler) EnhanceEmail(c *gin.Context) {
	var req emaildto.EnhanceEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	body, err := h.emailUsecase.EnhanceEmail(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, emaildto.EnhanceEmailResponse{Success: true, EnhancedBody: body})
}

// POST /api/reports
func (h *EmailHandler) Reports(c *gin.Context) {
	bundle, ok := h.credentials(c)
	if !ok {
		return
	}

	resp, err := h.emailUsecase.Reports(c.Request.Context(), bundle)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
