package azure

// BuildInvoiceFieldsSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map, used to validate the shape of the analyze result's fields
// payload before it is mapped into InvoiceFields. Fields outside the target
// set are allowed; target fields with unexpected shapes are rejected.
func BuildInvoiceFieldsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"InvoiceId":    stringFieldProp(),
			"VendorName":   stringFieldProp(),
			"SubTotal":     currencyFieldProp(),
			"TotalTax":     currencyFieldProp(),
			"InvoiceTotal": currencyFieldProp(),
		},
		"additionalProperties": true,
	}
}

func stringFieldProp() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type":        map[string]any{"type": "string"},
			"valueString": map[string]any{"type": "string"},
			"content":     map[string]any{"type": "string"},
		},
	}
}

func currencyFieldProp() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{"type": "string"},
			"valueCurrency": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"amount":       map[string]any{"type": "number"},
					"currencyCode": map[string]any{"type": "string"},
				},
				"required": []string{"amount"},
			},
		},
	}
}
