package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3"
)

// OllamaService talks to a local Ollama server. Base URL and model are read
// on every call so settings changed at runtime apply to the next request.
type OllamaService struct {
	getBaseURL func() string
	getModel   func() string
	client     *http.Client
}

func NewOllamaService(baseURL, model string) *OllamaService {
	baseURL = firstNonEmpty(baseURL, defaultOllamaURL)
	model = firstNonEmpty(model, defaultOllamaModel)
	return NewOllamaServiceWithGetters(
		func() string { return baseURL },
		func() string { return model },
	)
}

// NewOllamaServiceWithGetters is used when the settings endpoint can change
// the target server while the process runs.
func NewOllamaServiceWithGetters(getBaseURL, getModel func() string) *OllamaService {
	return &OllamaService{
		getBaseURL: getBaseURL,
		getModel:   getModel,
		client:     &http.Client{Timeout: 2 * time.Minute},
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateReply struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsReply struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Complete sends a single non-streaming /api/generate call.
func (o *OllamaService) Complete(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Model:   o.getModel(),
		Prompt:  prompt,
		Options: map[string]any{"temperature": 0.3, "num_predict": 512},
	}

	var reply generateReply
	if err := o.call(ctx, http.MethodPost, "/api/generate", payload, &reply); err != nil {
		return "", err
	}
	return reply.Response, nil
}

// Ping lists the models the server has pulled.
func (o *OllamaService) Ping(ctx context.Context) ([]string, error) {
	var tags tagsReply
	if err := o.call(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, err
	}

	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

func (o *OllamaService) Model() string {
	return o.getModel()
}

func (o *OllamaService) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("ollama: encode %s: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}

	endpoint := strings.TrimSuffix(o.getBaseURL(), "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("ollama: %s returned %d: %s", path, resp.StatusCode, bytes.TrimSpace(detail))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ollama: decode %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
