// Package extract maps raw recognition output onto the category-shaped field
// set the validator expects. The reference engine recognizes no real fields,
// so values are synthesized deterministically from the document id; a field
// that cannot be populated is omitted, never an error.
package extract

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

type seed struct {
	seq        int
	uploadDate time.Time
	recognized domain.ExtractionResult
}

type builder func(s seed) map[string]any

var builders = map[domain.DocumentType]builder{
	domain.TypeInvoice:  invoiceFields,
	domain.TypeReceipt:  receiptFields,
	domain.TypeContract: contractFields,
}

// Extractor is the reference ports.MetadataExtractor.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) ExtractFields(res domain.ExtractionResult, docType domain.DocumentType, documentID string, uploadDate time.Time) map[string]any {
	return FromRecognition(res, docType, documentID, uploadDate)
}

// FromRecognition produces the extracted-data mapping for one document. The
// keys per category exactly match the validator's required set for that
// category. Unknown categories yield an empty mapping, which the validator
// rejects downstream.
func FromRecognition(res domain.ExtractionResult, docType domain.DocumentType, documentID string, uploadDate time.Time) map[string]any {
	build, ok := builders[docType]
	if !ok {
		return map[string]any{}
	}
	return build(seed{
		seq:        sequenceFrom(documentID),
		uploadDate: uploadDate.UTC(),
		recognized: res,
	})
}

// sequenceFrom folds the document id into a stable four-digit sequence so a
// document keeps the same synthesized identifiers across reads.
func sequenceFrom(documentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(documentID))
	return int(h.Sum32() % 10000)
}

func invoiceFields(s seed) map[string]any {
	return map[string]any{
		"invoiceNumber": fmt.Sprintf("INV-%04d", s.seq),
		"customerName":  "Sample Customer Inc.",
		"customerEmail": "customer@example.com",
		"totalAmount":   amount(s.seq, 10000),
		"currency":      "USD",
		"issueDate":     s.uploadDate.Format("2006-01-02"),
		"dueDate":       s.uploadDate.AddDate(0, 0, 30).Format("2006-01-02"),
		"items": []map[string]any{
			{"description": "Consulting Services", "quantity": 1, "unitPrice": 150.00, "total": 150.00},
			{"description": "Software License", "quantity": 1, "unitPrice": 299.99, "total": 299.99},
		},
	}
}

func receiptFields(s seed) map[string]any {
	return map[string]any{
		"receiptNumber":   fmt.Sprintf("REC-%04d", s.seq),
		"merchantName":    "Sample Store",
		"merchantAddress": "123 Main St, City, State 12345",
		"totalAmount":     amount(s.seq, 1000),
		"currency":        "USD",
		"transactionDate": s.uploadDate.Format(time.RFC3339),
		"paymentMethod":   "Credit Card",
		"items": []map[string]any{
			{"description": "Product A", "quantity": 2, "unitPrice": 25.00, "total": 50.00},
			{"description": "Product B", "quantity": 1, "unitPrice": 15.99, "total": 15.99},
		},
	}
}

func contractFields(s seed) map[string]any {
	return map[string]any{
		"contractNumber": fmt.Sprintf("CON-%04d", s.seq),
		"partyA":         "Company A",
		"partyB":         "Company B",
		"contractType":   "Service Agreement",
		"effectiveDate":  s.uploadDate.Format("2006-01-02"),
		"expirationDate": s.uploadDate.AddDate(1, 0, 0).Format("2006-01-02"),
		"totalValue":     amount(s.seq, 100000),
		"currency":       "USD",
	}
}

// amount derives a strictly positive value in (0, limit/100].
func amount(seq, limit int) float64 {
	return float64(seq%limit+1) / 100
}
