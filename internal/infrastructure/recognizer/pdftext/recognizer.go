// Package pdftext recognizes text embedded in PDF content. It is the proof
// that the recognition engine is pluggable: corrupt or non-PDF bytes yield a
// typed extraction failure instead of fabricated confident output.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

type Recognizer struct{}

func New() *Recognizer {
	return &Recognizer{}
}

func (r *Recognizer) Recognize(ctx context.Context, content []byte) (result domain.ExtractionResult, err error) {
	if err := ctx.Err(); err != nil {
		return domain.ExtractionResult{}, err
	}

	// The pdf parser panics on some malformed inputs; map those to the same
	// typed failure as a parse error.
	defer func() {
		if recovered := recover(); recovered != nil {
			result = domain.ExtractionResult{}
			err = domain.WrapError(domain.ErrExtractionFailed, "parse pdf", fmt.Errorf("parser panic: %v", recovered))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return domain.ExtractionResult{}, domain.WrapError(domain.ErrExtractionFailed, "parse pdf", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return domain.ExtractionResult{}, domain.WrapError(domain.ErrExtractionFailed, "read pdf text", err)
	}
	raw, err := io.ReadAll(textReader)
	if err != nil {
		return domain.ExtractionResult{}, domain.WrapError(domain.ErrExtractionFailed, "read pdf text", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return domain.ExtractionResult{}, domain.WrapError(
			domain.ErrExtractionFailed,
			"read pdf text",
			fmt.Errorf("no embedded text layer"),
		)
	}

	return domain.ExtractionResult{
		Text:       text,
		Confidence: 1.0,
		Language:   "en",
	}, nil
}
