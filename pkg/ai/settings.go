package ai

import "sync"

// OllamaSettings holds the Ollama location that can be changed at runtime.
// Its getters plug into DynamicConfig.
type OllamaSettings struct {
	mu      sync.RWMutex
	baseURL string
	model   string
}

func NewOllamaSettings(baseURL, model string) *OllamaSettings {
	return &OllamaSettings{baseURL: baseURL, model: model}
}

func (s *OllamaSettings) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

func (s *OllamaSettings) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Update replaces the base URL and, when model is non-empty, the model
func (s *OllamaSettings) Update(baseURL, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = baseURL
	if model != "" {
		s.model = model
	}
}

// Dynamic returns cfg with its Ollama getters bound to s
func (s *OllamaSettings) Dynamic(cfg Config) DynamicConfig {
	return DynamicConfig{
		Config:           cfg,
		GetOllamaBaseURL: s.BaseURL,
		GetOllamaModel:   s.Model,
	}
}
