package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authDelivery "github.com/BhavyPan/Advance-Web/internal/auth/delivery"
	"github.com/BhavyPan/Advance-Web/internal/app"
	emailDelivery "github.com/BhavyPan/Advance-Web/internal/email/delivery"
	"github.com/BhavyPan/Advance-Web/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

type Handler struct {
	authHandler     *authDelivery.AuthHandler
	emailHandler    *emailDelivery.EmailHandler
	settingsHandler *SettingsHandler
	log             zerolog.Logger
}

func NewHandler(a *app.App) *Handler {
	return &Handler{
		authHandler:     authDelivery.NewAuthHandler(a.Auth, a.Config.GoogleRedirectURI),
		emailHandler:    emailDelivery.NewEmailHandler(a.Email, a.Triage, a.Log),
		settingsHandler: NewSettingsHandler(a.Ollama),
		log:             a.Log,
	}
}

// cors allows the browser client on any origin
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Engine builds the gin engine with middleware and routes
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(h.log), cors())
	SetupRoutes(r, h.authHandler, h.emailHandler, h.settingsHandler)
	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (h *Handler) Start(ctx context.Context, addr string) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info().Str("addr", addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	h.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
