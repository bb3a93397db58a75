package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-recon/constants"
	"invoice-recon/internal/entity"
)

func f64(v float64) *float64 { return &v }

func pair(invSub, invTax, invTotal, poSub, poTax, poTotal *float64) entity.MatchedPair {
	return entity.MatchedPair{
		Key: 1,
		Invoice: entity.ExtractedDocument{
			Filename: "INV-1.pdf", Type: entity.DocTypeInvoice,
			Subtotal: invSub, Tax: invTax, Total: invTotal,
		},
		PurchaseOrder: entity.ExtractedDocument{
			Filename: "PO-1.pdf", Type: entity.DocTypePurchaseOrder,
			Subtotal: poSub, Tax: poTax, Total: poTotal,
		},
		InvoiceSource: entity.SourceFilename,
		POSource:      entity.SourceFilename,
	}
}

func TestCompareAllFieldsWithinTolerance(t *testing.T) {
	p := pair(f64(100.00), f64(8.25), f64(108.25), f64(100.005), f64(8.25), f64(108.255))

	res := Compare(p, 0.01)

	require.Len(t, res.Fields, 3)
	assert.Equal(t, constants.FieldSubTotal, res.Fields[0].Field)
	assert.Equal(t, constants.FieldTotalTax, res.Fields[1].Field)
	assert.Equal(t, constants.FieldInvoiceTotal, res.Fields[2].Field)
	for _, f := range res.Fields {
		assert.Equal(t, entity.FieldMatch, f.Status, "field %s", f.Field)
		require.NotNil(t, f.Delta, "field %s", f.Field)
	}
	assert.Equal(t, entity.VerdictPass, res.Verdict)
}

func TestCompareTighterToleranceFlagsSameDelta(t *testing.T) {
	p := pair(f64(100.00), f64(8.25), f64(108.25), f64(100.005), f64(8.25), f64(108.25))

	res := Compare(p, 0.001)

	assert.Equal(t, entity.FieldMismatch, res.Fields[0].Status)
	require.NotNil(t, res.Fields[0].Delta)
	assert.InDelta(t, 0.005, *res.Fields[0].Delta, 1e-9)
	assert.Equal(t, entity.VerdictFail, res.Verdict)
}

func TestCompareMissingFieldFailsVerdict(t *testing.T) {
	p := pair(nil, f64(8.25), f64(108.25), f64(100.00), f64(8.25), f64(108.25))

	res := Compare(p, 0.01)

	assert.Equal(t, entity.FieldMissing, res.Fields[0].Status)
	assert.Nil(t, res.Fields[0].Delta)
	assert.Equal(t, entity.FieldMatch, res.Fields[1].Status)
	assert.Equal(t, entity.FieldMatch, res.Fields[2].Status)
	assert.Equal(t, entity.VerdictFail, res.Verdict)
}

func TestCompareExactBoundaryMatches(t *testing.T) {
	// Delta exactly equal to the tolerance still matches.
	p := pair(f64(100.00), f64(0), f64(100.00), f64(100.25), f64(0), f64(100.00))

	res := Compare(p, 0.25)

	assert.Equal(t, entity.FieldMatch, res.Fields[0].Status)
	assert.Equal(t, entity.VerdictPass, res.Verdict)
}

func TestCompareNegativeToleranceUsesDefault(t *testing.T) {
	p := pair(f64(100.00), f64(0), f64(100.00), f64(100.005), f64(0), f64(100.00))

	res := Compare(p, -1)

	assert.Equal(t, entity.FieldMatch, res.Fields[0].Status)
	assert.Equal(t, entity.VerdictPass, res.Verdict)
}

func TestCompareCarriesPairMetadata(t *testing.T) {
	p := pair(f64(1), f64(1), f64(2), f64(1), f64(1), f64(2))
	p.Key = 42
	p.NumberConflict = true

	res := Compare(p, 0.01)

	assert.Equal(t, int64(42), res.Key)
	assert.Equal(t, "INV-1.pdf", res.InvoiceFile)
	assert.Equal(t, "PO-1.pdf", res.POFile)
	assert.Equal(t, string(entity.SourceFilename), res.Strategy)
	assert.True(t, res.NumberConflict)
}
