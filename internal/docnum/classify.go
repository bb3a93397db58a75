package docnum

import (
	"regexp"
	"strings"

	"invoice-recon/internal/entity"
)

var (
	reInvoiceHint = regexp.MustCompile(`inv(?:[_.\-\s]|\d|$)`)
	rePOHint      = regexp.MustCompile(`po(?:[_.\-\s]|\d|$)`)
)

// ClassifyFilename tags a filename as invoice or purchase order based on
// naming conventions. Invoice indicators take precedence when both apply.
func ClassifyFilename(name string) entity.DocumentType {
	s := stripExt(strings.ToLower(name))
	switch {
	case reInvoiceHint.MatchString(s),
		strings.Contains(s, "invoice"),
		strings.Contains(s, "bill"),
		strings.Contains(s, "receipt"):
		return entity.DocTypeInvoice
	case rePOHint.MatchString(s),
		strings.Contains(s, "p.o"),
		strings.Contains(s, "p-o"),
		strings.Contains(s, "purchase"),
		strings.Contains(s, "order"):
		return entity.DocTypePurchaseOrder
	default:
		return entity.DocTypeUnknown
	}
}
