package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusValidated  DocumentStatus = "validated"
	StatusFailed     DocumentStatus = "failed"
)

// ParseStatus maps a wire value onto the closed status set.
func ParseStatus(raw string) (DocumentStatus, bool) {
	switch DocumentStatus(raw) {
	case StatusUploaded, StatusProcessing, StatusValidated, StatusFailed:
		return DocumentStatus(raw), true
	default:
		return "", false
	}
}

// Terminal reports whether no further transition may occur.
func (s DocumentStatus) Terminal() bool {
	return s == StatusValidated || s == StatusFailed
}

type DocumentType string

const (
	TypeInvoice  DocumentType = "invoice"
	TypeReceipt  DocumentType = "receipt"
	TypeContract DocumentType = "contract"
)

// ExtractionResult is the raw recognition engine output.
type ExtractionResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
}

// DocumentMetadata is owned exclusively by its DocumentRecord. The intake
// fields are set once; ExtractedData and ExtractionResult advance with the
// pipeline.
type DocumentMetadata struct {
	DocumentID       string            `json:"documentId"`
	OriginalName     string            `json:"originalName"`
	FileSize         int64             `json:"fileSize"`
	UploadDate       time.Time         `json:"uploadDate"`
	DocumentType     DocumentType      `json:"documentType"`
	ExtractedData    map[string]any    `json:"extractedData"`
	ExtractionResult *ExtractionResult `json:"extractionResult,omitempty"`
}

// DocumentRecord is the unit of persistence, keyed by ID.
type DocumentRecord struct {
	ID           string           `json:"id"`
	Status       DocumentStatus   `json:"status"`
	Metadata     DocumentMetadata `json:"metadata"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}

// Clone returns a deep copy so store implementations never hand out aliased
// ExtractedData maps.
func (r DocumentRecord) Clone() DocumentRecord {
	out := r
	if r.Metadata.ExtractedData != nil {
		data := make(map[string]any, len(r.Metadata.ExtractedData))
		for k, v := range r.Metadata.ExtractedData {
			data[k] = v
		}
		out.Metadata.ExtractedData = data
	}
	if r.Metadata.ExtractionResult != nil {
		res := *r.Metadata.ExtractionResult
		out.Metadata.ExtractionResult = &res
	}
	return out
}

type ValidationResult struct {
	IsValid       bool     `json:"isValid"`
	Errors        []string `json:"errors"`
	MissingFields []string `json:"missingFields"`
}

// ProcessingResult is the caller-facing outcome of one pipeline pass. It is
// always returned; internal failures land on the FAILED path instead of
// propagating as errors.
type ProcessingResult struct {
	Success     bool              `json:"success"`
	DocumentID  string            `json:"documentId"`
	FinalStatus DocumentStatus    `json:"status"`
	Metadata    *DocumentMetadata `json:"metadata,omitempty"`
	Error       string            `json:"error,omitempty"`
}
