package ports

import (
	"context"
	"time"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

// DocumentStore persists document records keyed by id. Save is an upsert over
// the whole record; callers read-modify-write. Implementations must serialize
// concurrent mutations and be durable before returning.
type DocumentStore interface {
	Save(ctx context.Context, record domain.DocumentRecord) error
	GetByID(ctx context.Context, id string) (domain.DocumentRecord, error)
	ListAll(ctx context.Context) ([]domain.DocumentRecord, error)
	ListByStatus(ctx context.Context, status domain.DocumentStatus) ([]domain.DocumentRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MetadataExtractor maps recognition output onto the category-shaped field
// set. It never fails; fields it cannot populate are omitted and caught by
// validation.
type MetadataExtractor interface {
	ExtractFields(res domain.ExtractionResult, docType domain.DocumentType, documentID string, uploadDate time.Time) map[string]any
}

// TextRecognizer produces raw recognized text from binary document content.
// Corrupt or unsupported input yields a domain.ErrExtractionFailed kind, never
// fabricated output. Implementations honor the context deadline.
type TextRecognizer interface {
	Recognize(ctx context.Context, content []byte) (domain.ExtractionResult, error)
}
