// Package validate checks an extracted-data mapping against the category
// registry's rules. Validation is pure and deterministic: no I/O, no clock,
// no randomness.
package validate

import (
	"fmt"
	"strings"

	"github.com/kirillkom/document-pipeline/internal/core/category"
	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

// Document returns every violated rule for the given category. A required
// field that is absent or equal to the empty string counts once as missing.
// The amount rule is unconditional: a present amount that is not a number
// strictly greater than zero is an error, zero included.
func Document(data map[string]any, docType domain.DocumentType) domain.ValidationResult {
	errs := []string{}
	missing := []string{}

	def, ok := category.Lookup(docType)
	if !ok {
		return domain.ValidationResult{
			IsValid:       false,
			Errors:        []string{fmt.Sprintf("no validation rules for category: %s", docType)},
			MissingFields: missing,
		}
	}

	for _, field := range def.Required {
		if isMissing(data, field) {
			missing = append(missing, field)
			errs = append(errs, fmt.Sprintf("Missing required field: %s", field))
		}
	}

	if value, present := data[def.AmountField]; present {
		if n, isNumber := asNumber(value); !isNumber || n <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be greater than 0", def.AmountLabel))
		}
	}

	if id, isString := data[def.IDField].(string); isString && id != "" {
		if !strings.HasPrefix(id, def.IDPrefix) {
			errs = append(errs, fmt.Sprintf("%s must start with %s", def.IDLabel, def.IDPrefix))
		}
	}

	return domain.ValidationResult{
		IsValid:       len(errs) == 0,
		Errors:        errs,
		MissingFields: missing,
	}
}

func isMissing(data map[string]any, field string) bool {
	value, present := data[field]
	if !present || value == nil {
		return true
	}
	s, isString := value.(string)
	return isString && s == ""
}

func asNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
