package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/document-pipeline/internal/core/classify"
	"github.com/kirillkom/document-pipeline/internal/core/domain"
	"github.com/kirillkom/document-pipeline/internal/core/ports"
	"github.com/kirillkom/document-pipeline/internal/core/validate"
)

// ProcessDocumentUseCase drives one document through
// uploaded -> processing -> {validated|failed}. Every transition is written
// through the store before the next stage runs, so a concurrent reader never
// observes a record ahead of its last durable state.
type ProcessDocumentUseCase struct {
	store            ports.DocumentStore
	recognizer       ports.TextRecognizer
	extractor        ports.MetadataExtractor
	recognizeTimeout time.Duration
}

func NewProcessDocumentUseCase(
	store ports.DocumentStore,
	recognizer ports.TextRecognizer,
	extractor ports.MetadataExtractor,
	recognizeTimeout time.Duration,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		store:            store,
		recognizer:       recognizer,
		extractor:        extractor,
		recognizeTimeout: recognizeTimeout,
	}
}

// ProcessDocument always returns a result; internal failures are captured
// into the FAILED path and never surface as errors to the transport layer.
func (uc *ProcessDocumentUseCase) ProcessDocument(
	ctx context.Context,
	content []byte,
	originalName string,
	size int64,
) domain.ProcessingResult {
	id := uuid.NewString()
	docType := classify.Detect(originalName)
	now := time.Now().UTC()

	record := domain.DocumentRecord{
		ID:     id,
		Status: domain.StatusUploaded,
		Metadata: domain.DocumentMetadata{
			DocumentID:    id,
			OriginalName:  originalName,
			FileSize:      size,
			UploadDate:    now,
			DocumentType:  docType,
			ExtractedData: map[string]any{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.store.Save(ctx, record); err != nil {
		// Nothing durable exists yet, so there is no record to mark failed.
		return failedResult(id, fmt.Errorf("persist initial record: %w", err))
	}

	if err := uc.transition(ctx, &record, domain.StatusProcessing, ""); err != nil {
		return uc.markFailed(ctx, record, fmt.Errorf("set status=processing: %w", err))
	}

	recognized, err := uc.recognize(ctx, content)
	if err != nil {
		return uc.markFailed(ctx, record, err)
	}

	record.Metadata.ExtractionResult = &recognized
	record.Metadata.ExtractedData = uc.extractor.ExtractFields(recognized, docType, id, record.Metadata.UploadDate)
	record.UpdatedAt = time.Now().UTC()
	if err := uc.store.Save(ctx, record); err != nil {
		return uc.markFailed(ctx, record, fmt.Errorf("persist extracted metadata: %w", err))
	}

	validation := validate.Document(record.Metadata.ExtractedData, docType)
	if !validation.IsValid {
		return uc.markFailed(ctx, record, fmt.Errorf("Validation failed: %s", strings.Join(validation.Errors, ", ")))
	}

	if err := uc.transition(ctx, &record, domain.StatusValidated, ""); err != nil {
		return uc.markFailed(ctx, record, fmt.Errorf("set status=validated: %w", err))
	}

	metadata := record.Metadata
	return domain.ProcessingResult{
		Success:     true,
		DocumentID:  id,
		FinalStatus: domain.StatusValidated,
		Metadata:    &metadata,
	}
}

func (uc *ProcessDocumentUseCase) recognize(ctx context.Context, content []byte) (domain.ExtractionResult, error) {
	if uc.recognizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.recognizeTimeout)
		defer cancel()
	}

	result, err := uc.recognizer.Recognize(ctx, content)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.ExtractionResult{}, domain.WrapError(
				domain.ErrExtractionFailed,
				"recognize document",
				fmt.Errorf("timed out after %s", uc.recognizeTimeout),
			)
		}
		return domain.ExtractionResult{}, fmt.Errorf("recognize document: %w", err)
	}
	return result, nil
}

func (uc *ProcessDocumentUseCase) transition(
	ctx context.Context,
	record *domain.DocumentRecord,
	status domain.DocumentStatus,
	errMessage string,
) error {
	record.Status = status
	record.ErrorMessage = errMessage
	record.UpdatedAt = time.Now().UTC()
	return uc.store.Save(ctx, *record)
}

// markFailed records the terminal FAILED state best-effort. The record was
// already durably created, so even when this write fails the caller still
// receives a failed result carrying the original cause.
func (uc *ProcessDocumentUseCase) markFailed(
	ctx context.Context,
	record domain.DocumentRecord,
	cause error,
) domain.ProcessingResult {
	if err := uc.transition(ctx, &record, domain.StatusFailed, cause.Error()); err != nil {
		return failedResult(record.ID, fmt.Errorf("%w; mark failed status: %v", cause, err))
	}
	return failedResult(record.ID, cause)
}

func failedResult(id string, cause error) domain.ProcessingResult {
	return domain.ProcessingResult{
		Success:     false,
		DocumentID:  id,
		FinalStatus: domain.StatusFailed,
		Error:       cause.Error(),
	}
}
