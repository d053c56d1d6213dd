// Package resilience guards the recognition engine call with a circuit
// breaker. Content-level extraction failures are expected terminal outcomes
// for the document that carried the content and do not count against the
// breaker; engine-level faults do.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
	"github.com/kirillkom/document-pipeline/internal/core/ports"
)

type Config struct {
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenMaxCalls uint32
}

func DefaultConfig() Config {
	return Config{
		MinRequests:      10,
		FailureRatio:     0.5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxCalls: 2,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.MinRequests == 0 {
		out.MinRequests = def.MinRequests
	}
	if out.FailureRatio <= 0 || out.FailureRatio > 1 {
		out.FailureRatio = def.FailureRatio
	}
	if out.OpenTimeout <= 0 {
		out.OpenTimeout = def.OpenTimeout
	}
	if out.HalfOpenMaxCalls == 0 {
		out.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
	return out
}

// Recognizer decorates a ports.TextRecognizer with a circuit breaker.
type Recognizer struct {
	inner   ports.TextRecognizer
	breaker *gobreaker.CircuitBreaker[domain.ExtractionResult]
}

func WrapRecognizer(inner ports.TextRecognizer, cfg Config) *Recognizer {
	cfg = cfg.normalize()

	settings := gobreaker.Settings{
		Name:        "recognize",
		MaxRequests: cfg.HalfOpenMaxCalls,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Bad content fails the document, not the engine.
			return domain.IsKind(err, domain.ErrExtractionFailed)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}

	return &Recognizer{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[domain.ExtractionResult](settings),
	}
}

func (r *Recognizer) Recognize(ctx context.Context, content []byte) (domain.ExtractionResult, error) {
	return r.breaker.Execute(func() (domain.ExtractionResult, error) {
		return r.inner.Recognize(ctx, content)
	})
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
