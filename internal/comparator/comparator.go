// Package comparator diffs the financial fields of matched invoice /
// purchase-order pairs.
package comparator

import (
	"math"

	"invoice-recon/constants"
	"invoice-recon/internal/entity"
)

// DefaultTolerance absorbs rounding noise between the two documents. It is an
// absolute amount, not a percentage, so small invoices are not over-flagged.
const DefaultTolerance = 0.01

// Compare diffs subtotal, tax and total across a matched pair. A field absent
// on either side is reported missing; the verdict passes only when all three
// fields match within tolerance.
func Compare(pair entity.MatchedPair, tolerance float64) entity.ComparisonResult {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}

	fields := []entity.FieldComparison{
		compareField(constants.FieldSubTotal, pair.Invoice.Subtotal, pair.PurchaseOrder.Subtotal, tolerance),
		compareField(constants.FieldTotalTax, pair.Invoice.Tax, pair.PurchaseOrder.Tax, tolerance),
		compareField(constants.FieldInvoiceTotal, pair.Invoice.Total, pair.PurchaseOrder.Total, tolerance),
	}

	verdict := entity.VerdictPass
	for _, f := range fields {
		if f.Status != entity.FieldMatch {
			verdict = entity.VerdictFail
			break
		}
	}

	return entity.ComparisonResult{
		Key:            pair.Key,
		InvoiceFile:    pair.Invoice.Filename,
		POFile:         pair.PurchaseOrder.Filename,
		Strategy:       pair.Strategy(),
		NumberConflict: pair.NumberConflict,
		Fields:         fields,
		Verdict:        verdict,
	}
}

func compareField(name string, inv, po *float64, tolerance float64) entity.FieldComparison {
	fc := entity.FieldComparison{Field: name, InvoiceValue: inv, POValue: po}
	if inv == nil || po == nil {
		fc.Status = entity.FieldMissing
		return fc
	}
	delta := math.Abs(*inv - *po)
	fc.Delta = &delta
	if delta <= tolerance {
		fc.Status = entity.FieldMatch
	} else {
		fc.Status = entity.FieldMismatch
	}
	return fc
}
