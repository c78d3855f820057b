package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Degraded outputs returned when a capability cannot reach a model
const (
	summaryUnavailable = "AI summarization unavailable"
	summaryFailed      = "Unable to generate summary"

	replyUnavailable = "AI reply generation unavailable"
	replyFailed      = "Unable to generate smart replies"

	composeUnavailable = "AI composition unavailable"
	composeFailed      = "Unable to generate email content"

	analysisUnavailable = "AI analysis completed. Review your emails for patterns."

	recommendationsUnavailable = "Consider creating filters for frequently occurring labels."
	recommendationsFailed      = "Consider creating filters for your most common email types to automate organization."

	// DefaultLabel is used when labels cannot be produced
	DefaultLabel = "general"

	maxLabels = 3
)

// BatchStats is the priority breakdown an overall analysis is written for
type BatchStats struct {
	Total      int
	Work       int
	Medium     int
	Low        int
	Promotions int
}

// ComposeRequest describes an email to draft from scratch
type ComposeRequest struct {
	Context   string
	Recipient string
	Purpose   string
	Tone      string
}

// Assistant exposes the email capabilities built on a Completer.
// A nil completer means no model is configured.
type Assistant struct {
	completer Completer
	log       zerolog.Logger
}

func NewAssistant(completer Completer, log zerolog.Logger) *Assistant {
	return &Assistant{
		completer: completer,
		log:       log.With().Str("component", "ai").Logger(),
	}
}

func (a *Assistant) complete(ctx context.Context, op, prompt string) (string, error) {
	if a.completer == nil {
		return "", ErrNoModel
	}
	out, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return "", &BackendError{Op: op, Err: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &BackendError{Op: op, Err: errors.New("empty response")}
	}
	return out, nil
}

// degrade logs err and picks the matching fallback text
func (a *Assistant) degrade(err error, unavailable, failed string) string {
	if errors.Is(err, ErrNoModel) {
		return unavailable
	}
	a.log.Error().Err(err).Msg("ai request failed")
	return failed
}

// Labels returns up to three lowercase labels for a message
func (a *Assistant) Labels(ctx context.Context, subject, content, sender string) []string {
	out, err := a.complete(ctx, "labels", labelsPrompt(subject, content, sender))
	if err != nil {
		if !errors.Is(err, ErrNoModel) {
			a.log.Error().Err(err).Msg("ai request failed")
		}
		return []string{DefaultLabel}
	}

	labels := parseLabels(out)
	if len(labels) == 0 {
		return []string{DefaultLabel}
	}
	return labels
}

func parseLabels(out string) []string {
	labels := make([]string, 0, maxLabels)
	for _, raw := range strings.Split(out, ",") {
		l := strings.ToLower(strings.Trim(strings.TrimSpace(raw), "\"'`*.-"))
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		labels = append(labels, l)
		if len(labels) == maxLabels {
			break
		}
	}
	return labels
}

// Summarize writes a short bullet summary, using the snippet when body is empty
func (a *Assistant) Summarize(ctx context.Context, subject, body, snippet string) string {
	out, err := a.complete(ctx, "summarize", summaryPrompt(subject, body, snippet))
	if err != nil {
		return a.degrade(err, summaryUnavailable, summaryFailed)
	}
	return out
}

// SmartReplies drafts formal, casual and quick-acknowledgment replies
func (a *Assistant) SmartReplies(ctx context.Context, subject, body, sender string) string {
	out, err := a.complete(ctx, "smart_reply", smartReplyPrompt(subject, body, sender))
	if err != nil {
		return a.degrade(err, replyUnavailable, replyFailed)
	}
	return out
}

// Compose drafts a complete email. Tone defaults to professional.
func (a *Assistant) Compose(ctx context.Context, req ComposeRequest) string {
	if strings.TrimSpace(req.Tone) == "" {
		req.Tone = "professional"
	}
	out, err := a.complete(ctx, "compose", composePrompt(req))
	if err != nil {
		return a.degrade(err, composeUnavailable, composeFailed)
	}
	return out
}

// OverallAnalysis comments on a triaged batch
func (a *Assistant) OverallAnalysis(ctx context.Context, stats BatchStats) string {
	out, err := a.complete(ctx, "overall_analysis", overallAnalysisPrompt(stats))
	if err != nil {
		return a.degrade(err, analysisUnavailable,
			fmt.Sprintf("Analyzed %d emails. %d require immediate attention.", stats.Total, stats.Work))
	}
	return out
}

// LabelRecommendations suggests how to organize an inbox with this label mix
func (a *Assistant) LabelRecommendations(ctx context.Context, distribution map[string]int) string {
	out, err := a.complete(ctx, "label_recommendations", labelRecommendationsPrompt(distribution))
	if err != nil {
		return a.degrade(err, recommendationsUnavailable, recommendationsFailed)
	}
	return out
}

// Enhance rewrites an email body. Unlike the other capabilities it reports
// failures to the caller.
func (a *Assistant) Enhance(ctx context.Context, subject, body string) (string, error) {
	out, err := a.complete(ctx, "enhance", enhancePrompt(subject, body))
	if err != nil {
		if !errors.Is(err, ErrNoModel) {
			a.log.Error().Err(err).Msg("ai request failed")
		}
		return "", err
	}
	return out, nil
}
