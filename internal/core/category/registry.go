// Package category is the single source of truth for the closed document
// category set: classifier keywords, required fields and value rules per
// category. Adding a category is a data change here, not a code change in the
// extractor or validator.
package category

import "github.com/kirillkom/document-pipeline/internal/core/domain"

type Definition struct {
	Type domain.DocumentType

	// Keywords are matched case-insensitively against the filename, in the
	// order All() returns definitions.
	Keywords []string

	// Required lists the extracted-data keys the validator demands. A field
	// equal to the empty string counts as missing.
	Required []string

	IDField  string
	IDLabel  string
	IDPrefix string

	AmountField string
	AmountLabel string
}

// Default is returned by the classifier when no keyword matches.
const Default = domain.TypeInvoice

var definitions = []Definition{
	{
		Type:        domain.TypeInvoice,
		Keywords:    []string{"invoice", "inv"},
		Required:    []string{"invoiceNumber", "customerName", "totalAmount", "currency", "issueDate"},
		IDField:     "invoiceNumber",
		IDLabel:     "Invoice number",
		IDPrefix:    "INV-",
		AmountField: "totalAmount",
		AmountLabel: "Invoice total amount",
	},
	{
		Type:        domain.TypeReceipt,
		Keywords:    []string{"receipt", "rec"},
		Required:    []string{"receiptNumber", "merchantName", "totalAmount", "currency", "transactionDate"},
		IDField:     "receiptNumber",
		IDLabel:     "Receipt number",
		IDPrefix:    "REC-",
		AmountField: "totalAmount",
		AmountLabel: "Receipt total amount",
	},
	{
		Type:        domain.TypeContract,
		Keywords:    []string{"contract", "con"},
		Required:    []string{"contractNumber", "partyA", "partyB", "contractType", "effectiveDate", "totalValue"},
		IDField:     "contractNumber",
		IDLabel:     "Contract number",
		IDPrefix:    "CON-",
		AmountField: "totalValue",
		AmountLabel: "Contract total value",
	},
}

// All returns the definitions in classifier priority order.
func All() []Definition {
	return definitions
}

func Lookup(t domain.DocumentType) (Definition, bool) {
	for _, def := range definitions {
		if def.Type == t {
			return def, true
		}
	}
	return Definition{}, false
}
