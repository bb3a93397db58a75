package entity

// DocumentType classifies an upload as an invoice or a purchase order.
type DocumentType string

const (
	DocTypeInvoice       DocumentType = "invoice"
	DocTypePurchaseOrder DocumentType = "purchase_order"
	DocTypeUnknown       DocumentType = "unknown"
)

// NumberSource says where a document's canonical number came from.
type NumberSource string

const (
	SourceExtractedField NumberSource = "extracted_field"
	SourceFilename       NumberSource = "filename"
)

// RawUpload is a document as received: original filename plus payload.
// The payload is released once extraction for its chunk completes.
type RawUpload struct {
	Filename string
	Content  []byte
}

// ExtractedDocument is the fixed-shape record produced at the extraction
// boundary for data transfer between layers.
type ExtractedDocument struct {
	Filename       string       `json:"filename"`
	Type           DocumentType `json:"type"`
	DocumentNumber string       `json:"document_number,omitempty"`
	VendorName     string       `json:"vendor_name,omitempty"`
	CurrencyCode   string       `json:"currency_code,omitempty"`
	Subtotal       *float64     `json:"subtotal,omitempty"`
	Tax            *float64     `json:"tax,omitempty"`
	Total          *float64     `json:"total,omitempty"`

	// UploadIndex is the document's position in the original batch,
	// used for deterministic report ordering.
	UploadIndex int `json:"-"`
}
