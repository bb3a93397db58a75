package entity

// FieldStatus is the outcome of comparing one financial field across a pair.
type FieldStatus string

const (
	FieldMatch    FieldStatus = "match"
	FieldMismatch FieldStatus = "mismatch"
	FieldMissing  FieldStatus = "missing"
)

// Verdict is the overall outcome for a matched pair.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictFail Verdict = "fail"
)

// FieldComparison compares a single field between invoice and purchase order.
// Delta is absent when either side is missing.
type FieldComparison struct {
	Field        string      `json:"field"`
	InvoiceValue *float64    `json:"invoice_value,omitempty"`
	POValue      *float64    `json:"po_value,omitempty"`
	Delta        *float64    `json:"delta,omitempty"`
	Status       FieldStatus `json:"status"`
}

// ComparisonResult is the per-pair discrepancy report.
type ComparisonResult struct {
	Key            int64             `json:"key"`
	InvoiceFile    string            `json:"invoice_file"`
	POFile         string            `json:"po_file"`
	Strategy       string            `json:"strategy"`
	NumberConflict bool              `json:"number_conflict,omitempty"`
	Fields         []FieldComparison `json:"fields"`
	Verdict        Verdict           `json:"verdict"`
}
