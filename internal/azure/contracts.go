package azure

import "context"

// InvoiceFields is the normalized shape we want from the analysis service.
// Amounts are nil when the model did not return the field.
type InvoiceFields struct {
	InvoiceNumber string   `json:"invoice_number,omitempty"`
	VendorName    string   `json:"vendor_name,omitempty"`
	CurrencyCode  string   `json:"currency_code,omitempty"`
	Subtotal      *float64 `json:"subtotal,omitempty"`
	Tax           *float64 `json:"tax,omitempty"`
	Total         *float64 `json:"total,omitempty"`
}

// FieldExtractor is the interface the batch runner depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, content []byte, mimeType string) (InvoiceFields, error)
}
