package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	authusecase "github.com/BhavyPan/Advance-Web/internal/auth/usecase"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
	"github.com/BhavyPan/Advance-Web/internal/email/repository"
	emailusecase "github.com/BhavyPan/Advance-Web/internal/email/usecase"
	"github.com/BhavyPan/Advance-Web/pkg/ai"
	"github.com/BhavyPan/Advance-Web/pkg/config"
	"github.com/BhavyPan/Advance-Web/pkg/database"
	"github.com/BhavyPan/Advance-Web/pkg/gmail"
	"github.com/BhavyPan/Advance-Web/pkg/imapstore"

	"github.com/rs/zerolog"
)

// App holds the wired use cases shared by the HTTP server and the CLI
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Ollama  *ai.OllamaSettings
	Adapter authusecase.CredentialAdapter
	Auth    authusecase.AuthUsecase
	Email   emailusecase.EmailUsecase
	Triage  emailusecase.TriageUsecase

	closers []io.Closer
}

// New wires the application from cfg. The database is optional; without
// DATABASE_URL triage runs are not recorded.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Log:    log,
		Ollama: ai.NewOllamaSettings(cfg.OllamaBaseURL, cfg.OllamaModel),
	}

	a.Adapter = authusecase.NewCredentialAdapter(log)
	a.Auth = authusecase.NewAuthUsecase(cfg, a.Adapter, log)

	assistant := ai.NewAssistant(a.completer(ctx), log)

	opener, err := a.storeOpener()
	if err != nil {
		a.Close()
		return nil, err
	}

	var reports emailusecase.ReportRecorder
	if cfg.DatabaseURL != "" {
		repo, err := a.reportRepository()
		if err != nil {
			a.Close()
			return nil, err
		}
		reports = repo
	} else {
		log.Info().Msg("DATABASE_URL not set, triage history disabled")
	}

	a.Triage = emailusecase.NewTriageUsecase(a.Adapter, opener, assistant, reports, emailusecase.TriageConfig{
		Workers:     cfg.TriageWorkers,
		WindowHours: cfg.TriageWindowHours,
	}, log)
	a.Email = emailusecase.NewEmailUsecase(a.Adapter, opener, assistant, reports, log)

	return a, nil
}

// completer builds the AI backend behind a circuit breaker. A provider that
// cannot be initialized leaves the assistant without a model.
func (a *App) completer(ctx context.Context) ai.Completer {
	cfg := a.Config
	aiCfg := a.Ollama.Dynamic(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
	})

	backend, err := ai.NewCompleterWithDynamicConfig(ctx, aiCfg)
	if err != nil {
		a.Log.Warn().Err(err).Str("provider", cfg.AIProvider).Msg("AI service unavailable")
		return nil
	}
	if fb, ok := backend.(*ai.FallbackService); ok {
		fb.WithLogger(a.Log.With().Str("component", "ai_fallback").Logger())
	}
	if c, ok := backend.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	a.Log.Info().Str("provider", cfg.AIProvider).Msg("AI service initialized")
	return ai.NewBreakerCompleter(cfg.AIProvider, backend, a.Log)
}

func (a *App) storeOpener() (emailusecase.StoreOpener, error) {
	cfg := a.Config
	switch cfg.MailStore {
	case config.MailStoreGmail, "":
		o := gmail.NewOpener(cfg.MailRateLimit, a.Log)
		return emailusecase.OpenerFunc(func(ctx context.Context, sess *authdomain.Session) (emailusecase.MailStore, error) {
			store, err := o.Open(ctx, sess)
			if err != nil {
				return nil, err
			}
			return store, nil
		}), nil

	case config.MailStoreIMAP:
		o := imapstore.NewOpener(imapstore.Config{
			IMAPAddr: cfg.IMAPAddr,
			SMTPAddr: cfg.SMTPAddr,
			RPS:      cfg.MailRateLimit,
		}, a.resolveAccount, a.Log)
		return emailusecase.OpenerFunc(func(ctx context.Context, sess *authdomain.Session) (emailusecase.MailStore, error) {
			store, err := o.Open(ctx, sess)
			if err != nil {
				return nil, err
			}
			return store, nil
		}), nil

	default:
		return nil, fmt.Errorf("unknown mail store %q", cfg.MailStore)
	}
}

// resolveAccount asks the userinfo endpoint which address the token belongs to
func (a *App) resolveAccount(ctx context.Context, sess *authdomain.Session) (string, error) {
	info, err := a.Auth.UserInfo(ctx, sess)
	if err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", errors.New("userinfo returned no email address")
	}
	return info.Email, nil
}

func (a *App) reportRepository() (repository.TriageReportRepository, error) {
	db, err := database.NewPostgresConnection(a.Config)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&emaildomain.TriageReport{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	a.closers = append(a.closers, sqlDB)
	a.Log.Info().Msg("triage history enabled")
	return repository.NewTriageReportRepository(db), nil
}

// Close releases the AI client and the database pool
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
