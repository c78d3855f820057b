package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string
	JWTSecret          string
	StateExpiry        time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// AI provider
	AIProvider    string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OllamaBaseURL string
	OllamaModel   string

	// Mail store
	MailStore     string
	IMAPAddr      string
	SMTPAddr      string
	MailRateLimit float64

	// Triage
	TriageWorkers     int
	TriageWindowHours int

	DatabaseURL string

	LogLevel  string
	LogPretty bool
}

const (
	MailStoreGmail = "gmail"
	MailStoreIMAP  = "imap"
)

// Load reads .env (if present), then environment variables and an optional
// YAML file named by CONFIG_FILE. It fails when required settings are missing.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("STATE_EXPIRY", "10m")
	v.SetDefault("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/auth/google/callback")
	v.SetDefault("AI_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llama3")
	v.SetDefault("MAIL_STORE", MailStoreGmail)
	v.SetDefault("IMAP_ADDR", "imap.gmail.com:993")
	v.SetDefault("SMTP_ADDR", "smtp.gmail.com:465")
	v.SetDefault("MAIL_RATE_LIMIT", 10)
	v.SetDefault("TRIAGE_WORKERS", 4)
	v.SetDefault("TRIAGE_WINDOW_HOURS", 24)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
}

func fromViper(v *viper.Viper) *Config {
	stateExpiry := 10 * time.Minute
	if parsed, err := time.ParseDuration(v.GetString("STATE_EXPIRY")); err == nil && parsed > 0 {
		stateExpiry = parsed
	}

	return &Config{
		Port:               v.GetString("PORT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		StateExpiry:        stateExpiry,
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
		AIProvider:         strings.ToLower(v.GetString("AI_PROVIDER")),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiModel:        v.GetString("GEMINI_MODEL"),
		OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
		OpenAIModel:        v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL:      v.GetString("OPENAI_BASE_URL"),
		OllamaBaseURL:      v.GetString("OLLAMA_BASE_URL"),
		OllamaModel:        v.GetString("OLLAMA_MODEL"),
		MailStore:          strings.ToLower(v.GetString("MAIL_STORE")),
		IMAPAddr:           v.GetString("IMAP_ADDR"),
		SMTPAddr:           v.GetString("SMTP_ADDR"),
		MailRateLimit:      v.GetFloat64("MAIL_RATE_LIMIT"),
		TriageWorkers:      v.GetInt("TRIAGE_WORKERS"),
		TriageWindowHours:  v.GetInt("TRIAGE_WINDOW_HOURS"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogPretty:          v.GetBool("LOG_PRETTY"),
	}
}

// Validate checks that every secret the selected providers need is present
func (c *Config) Validate() error {
	var errs []error
	if c.GoogleClientID == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID is required"))
	}
	if c.GoogleClientSecret == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_SECRET is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	switch c.AIProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	case "ollama":
		if c.OllamaBaseURL == "" {
			errs = append(errs, errors.New("OLLAMA_BASE_URL is required for the ollama provider"))
		}
	case "auto":
		if c.GeminiAPIKey == "" && c.OpenAIAPIKey == "" && c.OllamaBaseURL == "" {
			errs = append(errs, errors.New("auto provider needs GEMINI_API_KEY, OPENAI_API_KEY or OLLAMA_BASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider))
	}

	switch c.MailStore {
	case MailStoreGmail, MailStoreIMAP:
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_STORE %q", c.MailStore))
	}

	if c.TriageWorkers < 1 {
		c.TriageWorkers = 1
	}
	if c.TriageWindowHours < 1 {
		c.TriageWindowHours = 24
	}

	return errors.Join(errs...)
}
