package entity

// MatchedPair associates one invoice with one purchase order that share a
// canonical document number.
type MatchedPair struct {
	Key           int64             `json:"key"`
	Invoice       ExtractedDocument `json:"invoice"`
	PurchaseOrder ExtractedDocument `json:"purchase_order"`

	// Number sources per side; shown to the user as the matching strategy.
	InvoiceSource NumberSource `json:"invoice_source"`
	POSource      NumberSource `json:"po_source"`

	// NumberConflict is set when a side carried both an extracted-field number
	// and a filename number and they disagreed. The extracted-field number is
	// authoritative; the disagreement is surfaced for audit.
	NumberConflict bool `json:"number_conflict,omitempty"`
}

// Strategy renders the pair's matching strategy label.
func (p MatchedPair) Strategy() string {
	if p.InvoiceSource == p.POSource {
		return string(p.InvoiceSource)
	}
	return string(p.InvoiceSource) + "+" + string(p.POSource)
}

// UnmatchReason explains why a document has no counterpart in the report.
type UnmatchReason string

const (
	ReasonNoPurchaseOrder UnmatchReason = "no matching purchase order"
	ReasonNoInvoice       UnmatchReason = "no matching invoice"
	ReasonAmbiguous       UnmatchReason = "ambiguous match"
	ReasonNoNumber        UnmatchReason = "document number not found"
	ReasonUnclassified    UnmatchReason = "document type unknown"
)

// UnmatchedDocument is a document left over after all matching strategies
// are exhausted.
type UnmatchedDocument struct {
	Document ExtractedDocument `json:"document"`
	Reason   UnmatchReason     `json:"reason"`
}
