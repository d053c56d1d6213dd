package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

func sampleRecord(id string, status domain.DocumentStatus) domain.DocumentRecord {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return domain.DocumentRecord{
		ID:     id,
		Status: status,
		Metadata: domain.DocumentMetadata{
			DocumentID:    id,
			OriginalName:  "invoice.pdf",
			FileSize:      128,
			UploadDate:    now,
			DocumentType:  domain.TypeInvoice,
			ExtractedData: map[string]any{"invoiceNumber": "INV-0001"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveAndGetByID(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Save(ctx, sampleRecord("doc-1", domain.StatusUploaded)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.GetByID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != domain.StatusUploaded {
		t.Fatalf("Status = %s, want uploaded", got.Status)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := New()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("error = %v, want ErrDocumentNotFound", err)
	}
}

func TestSaveUpsertsByID(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.Save(ctx, sampleRecord("doc-1", domain.StatusUploaded))
	_ = store.Save(ctx, sampleRecord("doc-1", domain.StatusValidated))

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("ListAll() = %d records, want 1 after upsert", len(all))
	}
	if all[0].Status != domain.StatusValidated {
		t.Fatalf("Status = %s, want validated", all[0].Status)
	}
}

func TestListAllPreservesInsertionOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = store.Save(ctx, sampleRecord(fmt.Sprintf("doc-%d", i), domain.StatusUploaded))
	}
	// Re-saving the first must not move it to the back.
	_ = store.Save(ctx, sampleRecord("doc-0", domain.StatusValidated))

	all, _ := store.ListAll(ctx)
	for i, record := range all {
		if want := fmt.Sprintf("doc-%d", i); record.ID != want {
			t.Fatalf("position %d holds %s, want %s", i, record.ID, want)
		}
	}
}

func TestListByStatus(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.Save(ctx, sampleRecord("doc-1", domain.StatusValidated))
	_ = store.Save(ctx, sampleRecord("doc-2", domain.StatusFailed))
	_ = store.Save(ctx, sampleRecord("doc-3", domain.StatusValidated))

	validated, err := store.ListByStatus(ctx, domain.StatusValidated)
	if err != nil {
		t.Fatalf("ListByStatus() error = %v", err)
	}
	if len(validated) != 2 {
		t.Fatalf("ListByStatus(validated) = %d records, want 2", len(validated))
	}

	processing, _ := store.ListByStatus(ctx, domain.StatusProcessing)
	if len(processing) != 0 {
		t.Fatalf("ListByStatus(processing) = %d records, want 0", len(processing))
	}
}

func TestDelete(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.Save(ctx, sampleRecord("doc-1", domain.StatusValidated))

	removed, err := store.Delete(ctx, "doc-1")
	if err != nil || !removed {
		t.Fatalf("Delete() = (%v, %v), want (true, nil)", removed, err)
	}
	if removed, _ = store.Delete(ctx, "doc-1"); removed {
		t.Fatalf("second Delete() reported true")
	}
	if _, err := store.GetByID(ctx, "doc-1"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("deleted record still readable: %v", err)
	}
}

func TestCallersCannotMutateStoredState(t *testing.T) {
	store := New()
	ctx := context.Background()

	record := sampleRecord("doc-1", domain.StatusUploaded)
	_ = store.Save(ctx, record)
	record.Metadata.ExtractedData["invoiceNumber"] = "tampered-in"

	got, _ := store.GetByID(ctx, "doc-1")
	if got.Metadata.ExtractedData["invoiceNumber"] != "INV-0001" {
		t.Fatalf("store shares the caller's map on Save")
	}

	got.Metadata.ExtractedData["invoiceNumber"] = "tampered-out"
	again, _ := store.GetByID(ctx, "doc-1")
	if again.Metadata.ExtractedData["invoiceNumber"] != "INV-0001" {
		t.Fatalf("store shares its map with readers")
	}
}

func TestConcurrentSaves(t *testing.T) {
	store := New()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", i)
			_ = store.Save(ctx, sampleRecord(id, domain.StatusUploaded))
			_ = store.Save(ctx, sampleRecord(id, domain.StatusValidated))
		}(i)
	}
	wg.Wait()

	all, _ := store.ListAll(ctx)
	if len(all) != n {
		t.Fatalf("ListAll() = %d records, want %d", len(all), n)
	}
	for _, record := range all {
		if record.Status != domain.StatusValidated {
			t.Fatalf("record %s at %s, want validated (lost update)", record.ID, record.Status)
		}
	}
}
