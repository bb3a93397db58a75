package pipeline

import (
	"context"
	"path/filepath"

	"invoice-recon/constants"
	"invoice-recon/internal/azure"
	"invoice-recon/internal/entity"
)

// azureExtractor adapts the Document Intelligence client to the batch runner.
// Classification happens later in the pipeline, so Type is left unknown here.
type azureExtractor struct {
	client azure.FieldExtractor
}

func (a azureExtractor) Extract(ctx context.Context, up entity.RawUpload) (entity.ExtractedDocument, error) {
	mimeType := constants.MapExtToMIME(filepath.Ext(up.Filename))
	fields, err := a.client.ExtractFields(ctx, up.Content, mimeType)
	if err != nil {
		return entity.ExtractedDocument{}, err
	}
	return entity.ExtractedDocument{
		Filename:       up.Filename,
		Type:           entity.DocTypeUnknown,
		DocumentNumber: fields.InvoiceNumber,
		VendorName:     fields.VendorName,
		CurrencyCode:   fields.CurrencyCode,
		Subtotal:       fields.Subtotal,
		Tax:            fields.Tax,
		Total:          fields.Total,
	}, nil
}
