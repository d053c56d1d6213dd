package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
	"github.com/kirillkom/document-pipeline/internal/core/ports"
)

// DocumentQueryUseCase is the read side over stored records plus the
// housekeeping delete the pipeline itself never calls.
type DocumentQueryUseCase struct {
	store ports.DocumentStore
}

func NewDocumentQueryUseCase(store ports.DocumentStore) *DocumentQueryUseCase {
	return &DocumentQueryUseCase{store: store}
}

func (uc *DocumentQueryUseCase) GetStatus(ctx context.Context, id string) (domain.DocumentRecord, error) {
	record, err := uc.store.GetByID(ctx, id)
	if err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("fetch document by id: %w", err)
	}
	return record, nil
}

func (uc *DocumentQueryUseCase) ListAll(ctx context.Context) ([]domain.DocumentRecord, error) {
	records, err := uc.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return records, nil
}

func (uc *DocumentQueryUseCase) ListByStatus(ctx context.Context, status domain.DocumentStatus) ([]domain.DocumentRecord, error) {
	records, err := uc.store.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list documents by status: %w", err)
	}
	return records, nil
}

func (uc *DocumentQueryUseCase) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := uc.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	return removed, nil
}
