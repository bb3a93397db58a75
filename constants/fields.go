package constants

// Field names from the prebuilt-invoice model that participate in comparison.
const (
	FieldSubTotal     = "SubTotal"
	FieldTotalTax     = "TotalTax"
	FieldInvoiceTotal = "InvoiceTotal"
)

// ComparedFields is the ordered set of financial fields compared per pair.
var ComparedFields = []string{FieldSubTotal, FieldTotalTax, FieldInvoiceTotal}
