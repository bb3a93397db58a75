package docnum

import (
	"testing"

	"invoice-recon/internal/entity"
)

func TestClassifyFilename(t *testing.T) {
	tests := []struct {
		name string
		want entity.DocumentType
	}{
		{name: "INV-1.pdf", want: entity.DocTypeInvoice},
		{name: "inv_march.pdf", want: entity.DocTypeInvoice},
		{name: "Invoice_001.pdf", want: entity.DocTypeInvoice},
		{name: "bill-15.pdf", want: entity.DocTypeInvoice},
		{name: "receipt-9.png", want: entity.DocTypeInvoice},
		{name: "PO-1.pdf", want: entity.DocTypePurchaseOrder},
		{name: "PO001.pdf", want: entity.DocTypePurchaseOrder},
		{name: "P.O.-7.pdf", want: entity.DocTypePurchaseOrder},
		{name: "purchase_order_2.pdf", want: entity.DocTypePurchaseOrder},
		{name: "order 7.pdf", want: entity.DocTypePurchaseOrder},
		{name: "scan001.pdf", want: entity.DocTypeUnknown},
		{name: "document.pdf", want: entity.DocTypeUnknown},
		{name: "", want: entity.DocTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFilename(tt.name); got != tt.want {
				t.Errorf("ClassifyFilename(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyFilenameInvoicePrecedence(t *testing.T) {
	// A name carrying both conventions classifies as invoice.
	got := ClassifyFilename("invoice_for_po_12.pdf")
	if got != entity.DocTypeInvoice {
		t.Errorf("ClassifyFilename() = %s, want %s", got, entity.DocTypeInvoice)
	}
}
