package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	backend := &fakeCompleter{err: errors.New("backend down")}
	b := NewBreakerCompleter("test", backend, zerolog.Nop())

	for i := 0; i < 5; i++ {
		if _, err := b.Complete(context.Background(), "p"); err == nil {
			t.Fatalf("call %d: error = nil", i)
		}
	}

	_, err := b.Complete(context.Background(), "p")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("error = %v, want ErrOpenState", err)
	}
	if !errors.Is(err, ErrNoModel) {
		t.Errorf("error = %v, want ErrNoModel", err)
	}
	if n := len(backend.prompts); n != 5 {
		t.Errorf("backend called %d times, want 5", n)
	}
}

func TestBreakerPassesThrough(t *testing.T) {
	b := NewBreakerCompleter("test", &fakeCompleter{out: "ok"}, zerolog.Nop())
	out, err := b.Complete(context.Background(), "p")
	if err != nil || out != "ok" {
		t.Fatalf("Complete() = %q, %v", out, err)
	}
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b := NewBreakerCompleter("test", &fakeCompleter{err: context.Canceled}, zerolog.Nop())
	for i := 0; i < 10; i++ {
		if _, err := b.Complete(context.Background(), "p"); errors.Is(err, gobreaker.ErrOpenState) {
			t.Fatalf("call %d rejected, breaker opened on cancelled requests", i)
		}
	}
}

func TestOpenBreakerDegradesAsUnavailable(t *testing.T) {
	backend := &fakeCompleter{err: errors.New("backend down")}
	assistant := NewAssistant(NewBreakerCompleter("test", backend, zerolog.Nop()), zerolog.Nop())

	for i := 0; i < 5; i++ {
		if got := assistant.Summarize(context.Background(), "s", "b", ""); got != summaryFailed {
			t.Fatalf("call %d: Summarize() = %q, want %q", i, got, summaryFailed)
		}
	}
	if got := assistant.Summarize(context.Background(), "s", "b", ""); got != summaryUnavailable {
		t.Errorf("Summarize() with open breaker = %q, want %q", got, summaryUnavailable)
	}
}
