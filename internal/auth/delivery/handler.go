package delivery

import (
	"net/http"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	"github.com/BhavyPan/Advance-Web/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

const callbackPath = "/api/auth/google/callback"

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	redirectURI string
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, redirectURI string) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		redirectURI: redirectURI,
	}
}

// GET /api/auth/google
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	url, err := h.authUsecase.AuthURL(h.callbackURL(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "OAuth setup failed: " + err.Error()})
		return
	}
	c.Redirect(http.StatusFound, url)
}

// GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Sign in failed: " + errParam})
		return
	}

	resp, err := h.authUsecase.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("state"), h.callbackURL(c))
	if err != nil {
		status := http.StatusInternalServerError
		if authdomain.IsAuthError(err) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// callbackURL prefers the configured redirect URI and otherwise derives it from the request host
func (h *AuthHandler) callbackURL(c *gin.Context) string {
	if h.redirectURI != "" {
		return h.redirectURI
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + callbackPath
}

// POST /api/auth/user
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	bundle, ok := Credentials(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No tokens provided"})
		return
	}

	resp, err := h.authUsecase.CurrentUser(c.Request.Context(), bundle)
	if err != nil {
		status := http.StatusInternalServerError
		if authdomain.IsAuthError(err) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
