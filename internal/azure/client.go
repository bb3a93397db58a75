// Package azure calls Azure Document Intelligence's prebuilt-invoice model
// and maps its dynamic field dictionaries into a fixed-shape record at the
// boundary.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"invoice-recon/constants"
	"invoice-recon/internal/common"
)

// Config holds Document Intelligence client settings.
type Config struct {
	Endpoint     string
	APIKey       string
	APIVersion   string // default 2024-11-30
	ModelID      string // default prebuilt-invoice
	Timeout      time.Duration
	PollInterval time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-11-30"
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "prebuilt-invoice"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        logger,
	}
}

type analyzeResponse struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Documents []struct {
			Fields json.RawMessage `json:"fields"`
		} `json:"documents"`
	} `json:"analyzeResult"`
	Error *serviceError `json:"error"`
}

type serviceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExtractFields submits document bytes for analysis and polls the resulting
// operation until it completes. Every failure carries an ErrorKind so callers
// can skip the document without aborting the batch.
func (c *Client) ExtractFields(ctx context.Context, content []byte, mimeType string) (InvoiceFields, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("azure.analyze.start",
		"req_id", rid,
		"run_id", common.RunIDFromContext(ctx),
		"model", c.cfg.ModelID,
		"content_type", mimeType,
		"bytes", len(content),
	)

	ctx, cancel := common.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	opLoc, err := c.submit(ctx, rid, content, mimeType)
	if err != nil {
		return InvoiceFields{}, err
	}

	fields, err := c.poll(ctx, rid, opLoc)
	if err != nil {
		return InvoiceFields{}, err
	}

	c.log.Info("azure.analyze.ok",
		"req_id", rid,
		"invoice_number", fields.InvoiceNumber,
		"vendor", fields.VendorName,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, nil
}

func (c *Client) submit(ctx context.Context, rid string, content []byte, mimeType string) (string, error) {
	url := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.ModelID, c.cfg.APIVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(content))
	if err != nil {
		return "", &Error{Kind: KindNetworkFailure, Message: "build analyze request", Err: err}
	}
	if mimeType == "" {
		mimeType = constants.MapExtToMIME("")
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("azure.analyze.send_error", "req_id", rid, "error", err)
		return "", &Error{Kind: KindNetworkFailure, Message: "submit analyze request", Err: err}
	}
	defer c.closeBody(rid, resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		svcErr := decodeServiceError(raw)
		kind := classifyStatus(resp.StatusCode, svcErr.Code)
		c.log.Error("azure.analyze.rejected",
			"req_id", rid, "status", resp.StatusCode, "code", svcErr.Code, "kind", string(kind))
		return "", &Error{Kind: kind, Status: resp.StatusCode, Message: svcErr.Message}
	}

	opLoc := resp.Header.Get("Operation-Location")
	if opLoc == "" {
		return "", &Error{Kind: KindServiceError, Status: resp.StatusCode, Message: "missing Operation-Location header"}
	}
	return opLoc, nil
}

func (c *Client) poll(ctx context.Context, rid, opLoc string) (InvoiceFields, error) {
	for {
		select {
		case <-ctx.Done():
			return InvoiceFields{}, &Error{Kind: KindNetworkFailure, Message: "analyze operation timed out", Err: ctx.Err()}
		case <-time.After(c.cfg.PollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opLoc, nil)
		if err != nil {
			return InvoiceFields{}, &Error{Kind: KindNetworkFailure, Message: "build poll request", Err: err}
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return InvoiceFields{}, &Error{Kind: KindNetworkFailure, Message: "poll analyze operation", Err: err}
		}
		raw, readErr := io.ReadAll(resp.Body)
		c.closeBody(rid, resp.Body)
		if readErr != nil {
			return InvoiceFields{}, &Error{Kind: KindNetworkFailure, Message: "read poll response", Err: readErr}
		}

		if resp.StatusCode/100 != 2 {
			svcErr := decodeServiceError(raw)
			kind := classifyStatus(resp.StatusCode, svcErr.Code)
			return InvoiceFields{}, &Error{Kind: kind, Status: resp.StatusCode, Message: svcErr.Message}
		}

		var ar analyzeResponse
		if err := json.Unmarshal(raw, &ar); err != nil {
			return InvoiceFields{}, &Error{Kind: KindServiceError, Message: "decode analyze response", Err: err}
		}

		switch ar.Status {
		case "succeeded":
			return c.mapResult(rid, ar)
		case "failed":
			msg := "analysis failed"
			if ar.Error != nil {
				msg = ar.Error.Message
			}
			return InvoiceFields{}, &Error{Kind: KindServiceError, Message: msg}
		default:
			c.log.Debug("azure.analyze.poll", "req_id", rid, "status", ar.Status)
		}
	}
}

type docField struct {
	Type          string `json:"type"`
	ValueString   string `json:"valueString"`
	Content       string `json:"content"`
	ValueCurrency *struct {
		Amount       float64 `json:"amount"`
		CurrencyCode string  `json:"currencyCode"`
	} `json:"valueCurrency"`
}

// mapResult validates the first document's fields payload and maps it to the
// fixed InvoiceFields shape. Unexpected shapes are rejected, not propagated.
func (c *Client) mapResult(rid string, ar analyzeResponse) (InvoiceFields, error) {
	if len(ar.AnalyzeResult.Documents) == 0 {
		c.log.Warn("azure.analyze.no_documents", "req_id", rid)
		return InvoiceFields{}, nil
	}
	raw := ar.AnalyzeResult.Documents[0].Fields
	if len(raw) == 0 {
		return InvoiceFields{}, nil
	}

	if err := ValidateJSONAgainstSchema(BuildInvoiceFieldsSchema(), raw); err != nil {
		c.log.Error("azure.analyze.schema_validation_failed", "req_id", rid, "error", err)
		return InvoiceFields{}, &Error{Kind: KindServiceError, Message: "unexpected fields shape", Err: err}
	}

	var fields map[string]docField
	if err := json.Unmarshal(raw, &fields); err != nil {
		return InvoiceFields{}, &Error{Kind: KindServiceError, Message: "decode fields", Err: err}
	}

	var out InvoiceFields
	out.InvoiceNumber = stringValue(fields["InvoiceId"])
	out.VendorName = stringValue(fields["VendorName"])
	for _, m := range []struct {
		name string
		dst  **float64
	}{
		{"SubTotal", &out.Subtotal},
		{"TotalTax", &out.Tax},
		{"InvoiceTotal", &out.Total},
	} {
		f, ok := fields[m.name]
		if !ok || f.ValueCurrency == nil {
			continue
		}
		amount := f.ValueCurrency.Amount
		*m.dst = &amount
		if out.CurrencyCode == "" {
			out.CurrencyCode = f.ValueCurrency.CurrencyCode
		}
	}
	return out, nil
}

func stringValue(f docField) string {
	if f.ValueString != "" {
		return f.ValueString
	}
	return f.Content
}

func decodeServiceError(raw []byte) serviceError {
	var body struct {
		Error serviceError `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return serviceError{Message: strings.TrimSpace(string(raw))}
	}
	if body.Error.Message == "" {
		body.Error.Message = strings.TrimSpace(string(raw))
	}
	return body.Error
}

func (c *Client) closeBody(rid string, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.log.Warn("azure.analyze.body_close_error", "req_id", rid, "error", err)
	}
}
