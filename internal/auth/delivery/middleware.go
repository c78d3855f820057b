package delivery

import (
	"net/http"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	authdto "github.com/BhavyPan/Advance-Web/internal/auth/dto"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const credentialsKey = "credentials"

// RequireCredentials rejects requests whose JSON body has no "tokens" bundle.
// The body is cached so handlers can bind it again with ShouldBindBodyWith.
func RequireCredentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authdto.CredentialsRequest
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil || req.Tokens == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No tokens provided"})
			c.Abort()
			return
		}

		c.Set(credentialsKey, *req.Tokens)
		c.Next()
	}
}

// Credentials returns the bundle stored by RequireCredentials
func Credentials(c *gin.Context) (authdomain.CredentialBundle, bool) {
	v, ok := c.Get(credentialsKey)
	if !ok {
		return authdomain.CredentialBundle{}, false
	}
	bundle, ok := v.(authdomain.CredentialBundle)
	return bundle, ok
}
