// Package simulated is the reference TextRecognizer: it returns fixed
// recognition output after a configurable latency. It never fails on content,
// but still honors the caller's deadline so the orchestrator's timeout
// contract stays exercised.
package simulated

import (
	"context"
	"time"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

type Recognizer struct {
	latency time.Duration
}

func New(latency time.Duration) *Recognizer {
	return &Recognizer{latency: latency}
}

func (r *Recognizer) Recognize(ctx context.Context, _ []byte) (domain.ExtractionResult, error) {
	if r.latency > 0 {
		timer := time.NewTimer(r.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return domain.ExtractionResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	return domain.ExtractionResult{
		Text:       "This is a simulated OCR result.",
		Confidence: 0.98,
		Language:   "en",
	}, nil
}
