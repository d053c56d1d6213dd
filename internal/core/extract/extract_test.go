package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/document-pipeline/internal/core/category"
	"github.com/kirillkom/document-pipeline/internal/core/domain"
	"github.com/kirillkom/document-pipeline/internal/core/validate"
)

var recognized = domain.ExtractionResult{
	Text:       "This is a simulated OCR result.",
	Confidence: 0.98,
	Language:   "en",
}

func TestShapeSatisfiesValidatorPerCategory(t *testing.T) {
	uploadDate := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	for _, def := range category.All() {
		data := FromRecognition(recognized, def.Type, "doc-1", uploadDate)

		for _, field := range def.Required {
			if _, ok := data[field]; !ok {
				t.Errorf("%s: required field %q not populated", def.Type, field)
			}
		}
		if result := validate.Document(data, def.Type); !result.IsValid {
			t.Errorf("%s: synthesized data fails validation: %v", def.Type, result.Errors)
		}
	}
}

func TestIdentifierPrefixes(t *testing.T) {
	uploadDate := time.Now().UTC()

	invoice := FromRecognition(recognized, domain.TypeInvoice, "doc-1", uploadDate)
	if id, _ := invoice["invoiceNumber"].(string); !strings.HasPrefix(id, "INV-") {
		t.Fatalf("invoiceNumber = %q, want INV- prefix", id)
	}
	receipt := FromRecognition(recognized, domain.TypeReceipt, "doc-1", uploadDate)
	if id, _ := receipt["receiptNumber"].(string); !strings.HasPrefix(id, "REC-") {
		t.Fatalf("receiptNumber = %q, want REC- prefix", id)
	}
	contract := FromRecognition(recognized, domain.TypeContract, "doc-1", uploadDate)
	if id, _ := contract["contractNumber"].(string); !strings.HasPrefix(id, "CON-") {
		t.Fatalf("contractNumber = %q, want CON- prefix", id)
	}
}

func TestDeterministicPerDocumentID(t *testing.T) {
	uploadDate := time.Now().UTC()

	first := FromRecognition(recognized, domain.TypeInvoice, "doc-1", uploadDate)
	second := FromRecognition(recognized, domain.TypeInvoice, "doc-1", uploadDate)
	if first["invoiceNumber"] != second["invoiceNumber"] {
		t.Fatalf("same id produced %v and %v", first["invoiceNumber"], second["invoiceNumber"])
	}
}

func TestUnknownCategoryYieldsEmptyMapping(t *testing.T) {
	data := FromRecognition(recognized, domain.DocumentType("memo"), "doc-1", time.Now().UTC())
	if len(data) != 0 {
		t.Fatalf("expected empty mapping, got %v", data)
	}
}

func TestAmountsStrictlyPositive(t *testing.T) {
	uploadDate := time.Now().UTC()
	// A sweep over ids covers the modulo edge where the raw hash is zero.
	ids := []string{"", "a", "b", "doc-42", "00000000-0000-0000-0000-000000000000"}

	for _, id := range ids {
		data := FromRecognition(recognized, domain.TypeInvoice, id, uploadDate)
		amount, ok := data["totalAmount"].(float64)
		if !ok || amount <= 0 {
			t.Errorf("id %q: totalAmount = %v, want > 0", id, data["totalAmount"])
		}
	}
}
