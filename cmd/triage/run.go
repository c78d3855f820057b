package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	authdomain "github.com/BhavyPan/Advance-Web/internal/auth/domain"
	"github.com/BhavyPan/Advance-Web/internal/app"
	emaildomain "github.com/BhavyPan/Advance-Web/internal/email/domain"
	"github.com/BhavyPan/Advance-Web/pkg/config"
	"github.com/BhavyPan/Advance-Web/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const modeLabels = "labels"

type runOptions struct {
	tokensPath string
	mode       string
	writeBack  bool
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Triage recent inbox messages and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.tokensPath == "" {
				return errors.New("--tokens is required")
			}
			if err := validateMode(opts.mode); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.NewWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			return run(ctx, a, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.tokensPath, "tokens", "", "path to a JSON credential bundle")
	cmd.Flags().StringVar(&opts.mode, "mode", string(emaildomain.ModeInbox), "inbox, analyze-all or labels")
	cmd.Flags().BoolVar(&opts.writeBack, "write-back", false, "store refreshed credentials back into the tokens file")
	return cmd
}

func validateMode(mode string) error {
	if mode == modeLabels {
		return nil
	}
	if _, ok := emaildomain.TriageMode(mode).Profile(); !ok {
		return fmt.Errorf("unknown mode %q", mode)
	}
	return nil
}

func run(ctx context.Context, a *app.App, opts runOptions, out io.Writer) error {
	bundle, err := readBundle(opts.tokensPath)
	if err != nil {
		return err
	}

	var (
		result  any
		updated authdomain.CredentialBundle
	)
	if opts.mode == modeLabels {
		res, err := a.Triage.AnalyzeLabels(ctx, bundle)
		if err != nil {
			return err
		}
		result, updated = res, res.Credentials
	} else {
		res, err := a.Triage.Triage(ctx, bundle, emaildomain.TriageMode(opts.mode))
		if err != nil {
			return err
		}
		result, updated = res, res.Credentials
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if opts.writeBack && updated.AccessToken != bundle.AccessToken {
		if err := writeBundle(opts.tokensPath, updated); err != nil {
			return err
		}
		a.Log.Info().Str("path", opts.tokensPath).Msg("refreshed credentials written back")
	}
	return nil
}

// readBundle accepts either a bare bundle or {"tokens": bundle}
func readBundle(path string) (authdomain.CredentialBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return authdomain.CredentialBundle{}, fmt.Errorf("read tokens: %w", err)
	}

	var wrapped struct {
		Tokens *authdomain.CredentialBundle `json:"tokens"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Tokens != nil {
		return *wrapped.Tokens, nil
	}

	var bundle authdomain.CredentialBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return authdomain.CredentialBundle{}, fmt.Errorf("parse tokens: %w", err)
	}
	return bundle, nil
}

func writeBundle(path string, bundle authdomain.CredentialBundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace tokens: %w", err)
	}
	return nil
}
