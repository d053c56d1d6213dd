package ports

import (
	"context"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

// DocumentPipeline is the inbound contract for one synchronous processing
// pass. It never returns an error: every internal failure is captured into
// the result's FAILED path.
type DocumentPipeline interface {
	ProcessDocument(ctx context.Context, content []byte, originalName string, size int64) domain.ProcessingResult
}

// DocumentReader is the inbound read model over stored records.
type DocumentReader interface {
	GetStatus(ctx context.Context, id string) (domain.DocumentRecord, error)
	ListAll(ctx context.Context) ([]domain.DocumentRecord, error)
	ListByStatus(ctx context.Context, status domain.DocumentStatus) ([]domain.DocumentRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
}
