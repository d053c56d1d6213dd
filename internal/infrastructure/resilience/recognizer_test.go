package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

type scriptedRecognizer struct {
	err error
}

func (r *scriptedRecognizer) Recognize(context.Context, []byte) (domain.ExtractionResult, error) {
	if r.err != nil {
		return domain.ExtractionResult{}, r.err
	}
	return domain.ExtractionResult{Text: "ok", Confidence: 1, Language: "en"}, nil
}

func tightConfig() Config {
	return Config{
		MinRequests:      3,
		FailureRatio:     0.5,
		OpenTimeout:      time.Minute,
		HalfOpenMaxCalls: 1,
	}
}

func TestEngineFaultsTripBreaker(t *testing.T) {
	inner := &scriptedRecognizer{err: errors.New("engine down")}
	guarded := WrapRecognizer(inner, tightConfig())

	for i := 0; i < 3; i++ {
		if _, err := guarded.Recognize(context.Background(), []byte("x")); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	_, err := guarded.Recognize(context.Background(), []byte("x"))
	if !IsCircuitOpen(err) {
		t.Fatalf("error = %v, want open circuit", err)
	}
}

func TestContentFailuresDoNotTripBreaker(t *testing.T) {
	contentErr := domain.WrapError(domain.ErrExtractionFailed, "parse pdf", errors.New("no text layer"))
	inner := &scriptedRecognizer{err: contentErr}
	guarded := WrapRecognizer(inner, tightConfig())

	for i := 0; i < 10; i++ {
		_, err := guarded.Recognize(context.Background(), []byte("x"))
		if IsCircuitOpen(err) {
			t.Fatalf("call %d: breaker opened on content failures", i)
		}
		if !domain.IsKind(err, domain.ErrExtractionFailed) {
			t.Fatalf("call %d: error = %v, want the inner extraction failure", i, err)
		}
	}
}

func TestSuccessPassesThrough(t *testing.T) {
	guarded := WrapRecognizer(&scriptedRecognizer{}, Config{})

	result, err := guarded.Recognize(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if result.Text != "ok" {
		t.Fatalf("Text = %q, want ok", result.Text)
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	cfg := Config{}.normalize()
	def := DefaultConfig()

	if cfg != def {
		t.Fatalf("normalize() = %+v, want defaults %+v", cfg, def)
	}
}
