// Package classify infers a document category from its filename.
package classify

import (
	"strings"

	"github.com/kirillkom/document-pipeline/internal/core/category"
	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

// Detect matches category keywords against the filename, case-insensitively,
// in registry priority order. Unmatched filenames fall back to the default
// category; classification never fails.
func Detect(filename string) domain.DocumentType {
	lower := strings.ToLower(filename)
	for _, def := range category.All() {
		for _, keyword := range def.Keywords {
			if strings.Contains(lower, keyword) {
				return def.Type
			}
		}
	}
	return category.Default
}
