package usecase

import (
	"context"
	"fmt"
	"time"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	authusecase "github.com/BhavyPan/Advance-Web/internal/auth/usecase"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
	"github.com/BhavyPan/Advance-Web/pkg/ai"
	"github.com/BhavyPan/Advance-Web/pkg/priority"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	labelAnalysisMax = 10
	noPreview        = "No preview available"
	// reportsKept bounds the stored history per account
	reportsKept = 100
)

// TriageConfig holds the process-wide triage settings
type TriageConfig struct {
	Workers     int
	WindowHours int
}

// triageUsecase implements TriageUsecase
type triageUsecase struct {
	adapter   authusecase.CredentialAdapter
	opener    StoreOpener
	reader    *Reader
	assistant Assistant
	reports   ReportRecorder
	cfg       TriageConfig
	log       zerolog.Logger
}

// NewTriageUsecase creates a new instance of triageUsecase. reports may be nil
// when no database is configured.
func NewTriageUsecase(
	adapter authusecase.CredentialAdapter,
	opener StoreOpener,
	assistant Assistant,
	reports ReportRecorder,
	cfg TriageConfig,
	log zerolog.Logger,
) TriageUsecase {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.WindowHours <= 0 {
		cfg.WindowHours = 24
	}
	return &triageUsecase{
		adapter:   adapter,
		opener:    opener,
		reader:    NewReader(log),
		assistant: assistant,
		reports:   reports,
		cfg:       cfg,
		log:       log.With().Str("component", "triage").Logger(),
	}
}

func (u *triageUsecase) Triage(ctx context.Context, bundle authdomain.CredentialBundle, mode emaildomain.TriageMode) (*emaildomain.TriageResult, error) {
	profile, ok := mode.Profile()
	if !ok {
		return nil, &emaildomain.ValidationError{Message: fmt.Sprintf("unknown triage mode %q", mode)}
	}

	sess, err := u.adapter.Authenticate(ctx, bundle, profile.Scopes)
	if err != nil {
		return nil, err
	}

	store, err := u.opener.Open(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to open mail store: %w", err)
	}
	defer store.Close()

	refs, err := u.reader.ListRecent(ctx, store, u.cfg.WindowHours, profile.ListMax)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := u.log.With().Str("run_id", runID).Str("mode", string(mode)).Logger()
	started := time.Now()

	process := refs
	if len(process) > profile.ProcessMax {
		process = process[:profile.ProcessMax]
	}

	// rows are written by index so the output keeps list order
	rows := make([]*emaildomain.MessageSummary, len(process))
	newWorkerPool(u.cfg.Workers).run(ctx, len(process), func(ctx context.Context, i int) {
		rows[i] = u.triageMessage(ctx, store, process[i], profile, log)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := emaildomain.PriorityStats{Total: len(refs)}
	emails := make([]*emaildomain.MessageSummary, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		stats.Add(row.Priority)
		emails = append(emails, row)
	}

	var analysis string
	if profile.Analysis {
		analysis = u.assistant.OverallAnalysis(ctx, ai.BatchStats{
			Total:      stats.Total,
			Work:       stats.Work,
			Medium:     stats.Medium,
			Low:        stats.Low,
			Promotions: stats.Promotions,
		})
	}

	log.Info().
		Int("listed", len(refs)).
		Int("triaged", len(emails)).
		Int("work", stats.Work).
		Bool("token_refreshed", sess.Refreshed()).
		Dur("took", time.Since(started)).
		Msg("triage finished")

	u.record(ctx, store, runID, mode, stats, len(emails), analysis)

	return &emaildomain.TriageResult{
		RunID:       runID,
		Emails:      emails,
		Stats:       stats,
		Analysis:    analysis,
		Credentials: sess.Bundle(),
	}, nil
}

// triageMessage fetches, classifies and enriches one message. A fetch failure
// drops the message; AI failures only degrade its fields.
func (u *triageUsecase) triageMessage(ctx context.Context, store MailStore, ref emaildomain.MessageRef, profile emaildomain.TriageProfile, log zerolog.Logger) *emaildomain.MessageSummary {
	meta, err := u.reader.FetchMetadata(ctx, store, ref)
	if err != nil {
		log.Warn().Err(err).Str("message_id", ref.ID).Msg("skipping message")
		return nil
	}

	cat := priority.Classify(meta.Subject, meta.Snippet, meta.Sender)
	row := &emaildomain.MessageSummary{
		ID:       ref.ID,
		Subject:  meta.Subject,
		Sender:   meta.Sender,
		Snippet:  meta.Snippet,
		Date:     FormatSummaryDate(meta.RawDate),
		Priority: cat,
	}
	if row.Snippet == "" {
		row.Snippet = noPreview
	}

	row.AILabels = u.assistant.Labels(ctx, meta.Subject, meta.Snippet, meta.Sender)
	if profile.Summaries {
		row.AISummary = u.assistant.Summarize(ctx, meta.Subject, meta.Snippet, meta.Snippet)
	}

	log.Debug().Str("message_id", ref.ID).Str("priority", string(cat)).Msg("message triaged")
	return row
}

// record stores the run counters. Failures are logged and never fail the run.
func (u *triageUsecase) record(ctx context.Context, store MailStore, runID string, mode emaildomain.TriageMode, stats emaildomain.PriorityStats, processed int, analysis string) {
	if u.reports == nil {
		return
	}

	account, err := store.Account(ctx)
	if err != nil {
		u.log.Warn().Err(err).Str("run_id", runID).Msg("could not resolve account, report not saved")
		return
	}

	report := &emaildomain.TriageReport{
		RunID:      runID,
		Account:    account,
		Mode:       string(mode),
		Total:      stats.Total,
		Processed:  processed,
		Work:       stats.Work,
		Medium:     stats.Medium,
		Low:        stats.Low,
		Promotions: stats.Promotions,
		Spam:       stats.Spam,
		Analysis:   analysis,
	}
	if err := u.reports.Save(report); err != nil {
		u.log.Warn().Err(err).Str("run_id", runID).Msg("failed to save triage report")
		return
	}
	if err := u.reports.DeleteOlderThan(account, reportsKept); err != nil {
		u.log.Warn().Err(err).Str("account", account).Msg("failed to prune triage reports")
	}
}

func (u *triageUsecase) AnalyzeLabels(ctx context.Context, bundle authdomain.CredentialBundle) (*emaildomain.LabelAnalysisResult, error) {
	sess, err := u.adapter.Authenticate(ctx, bundle, authdomain.ScopesReadOnly)
	if err != nil {
		return nil, err
	}

	store, err := u.opener.Open(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to open mail store: %w", err)
	}
	defer store.Close()

	refs, err := u.reader.ListRecent(ctx, store, u.cfg.WindowHours, labelAnalysisMax)
	if err != nil {
		return nil, err
	}

	perMessage := make([][]string, len(refs))
	newWorkerPool(u.cfg.Workers).run(ctx, len(refs), func(ctx context.Context, i int) {
		msg, err := store.GetMessage(ctx, refs[i].ID, emaildomain.GetOptions{MetadataOnly: true, Headers: []string{"Subject", "From"}})
		if err != nil {
			u.log.Debug().Err(err).Str("message_id", refs[i].ID).Msg("skipping message")
			return
		}
		meta := metadataOf(msg, "", "")
		perMessage[i] = u.assistant.Labels(ctx, meta.Subject, meta.Snippet, meta.Sender)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	distribution := make(map[string]int)
	for _, labels := range perMessage {
		for _, l := range labels {
			distribution[l]++
		}
	}

	return &emaildomain.LabelAnalysisResult{
		Analysis: emaildomain.LabelAnalysis{
			LabelDistribution: distribution,
			Recommendations:   u.assistant.LabelRecommendations(ctx, distribution),
		},
		Credentials: sess.Bundle(),
	}, nil
}
