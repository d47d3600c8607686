package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-api/internal/currency"
	dec "github.com/rezonia/invoice-api/internal/decimal"
	"github.com/rezonia/invoice-api/internal/document"
	"github.com/rezonia/invoice-api/internal/model"
)

// ErrUnsupportedDocument is returned for documents the model cannot read
var ErrUnsupportedDocument = errors.New("document type not supported for extraction")

// Fields holds the payable fields read from an invoice document
type Fields struct {
	VendorName string
	DueDate    *time.Time
	Amount     *decimal.Decimal
	Currency   string
}

// fieldsResponse is the JSON shape the model is asked to produce
type fieldsResponse struct {
	VendorName string          `json:"vendor_name"`
	DueDate    string          `json:"due_date"`
	Amount     json.RawMessage `json:"amount"`
	Currency   string          `json:"currency"`
}

// Extractor reads invoice fields from documents through a chat model
type Extractor struct {
	client *Client
	model  string
}

// ExtractorOption configures the extractor
type ExtractorOption func(*Extractor)

// WithModel sets the model used for extraction
func WithModel(model string) ExtractorOption {
	return func(e *Extractor) {
		e.model = model
	}
}

// NewExtractor creates an extractor backed by client
func NewExtractor(client *Client, opts ...ExtractorOption) *Extractor {
	e := &Extractor{client: client}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract asks the model for the payable fields of doc
func (e *Extractor) Extract(ctx context.Context, doc *model.Document) (*Fields, error) {
	var (
		response string
		err      error
	)

	switch {
	case strings.HasPrefix(doc.MimeType, "image/"):
		response, err = e.client.ChatWithImage(ctx, e.model, SystemPromptInvoiceExtractor, UserPromptFieldExtraction, doc.Content, doc.MimeType)
	case document.IsPDF(doc.MimeType):
		filename := doc.Filename
		if filename == "" {
			filename = "invoice.pdf"
		}
		response, err = e.client.ChatWithFile(ctx, e.model, SystemPromptInvoiceExtractor, UserPromptFieldExtraction, doc.Content, doc.MimeType, filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, doc.MimeType)
	}
	if err != nil {
		return nil, err
	}

	return ParseFields(response)
}

// ParseFields parses a model response into Fields. Unparseable dates and
// amounts and unsupported currencies are dropped rather than failing the
// whole response.
func ParseFields(response string) (*Fields, error) {
	var raw fieldsResponse
	if err := json.Unmarshal([]byte(ExtractJSON(response)), &raw); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}

	fields := &Fields{
		VendorName: strings.TrimSpace(raw.VendorName),
	}

	if raw.DueDate != "" {
		if due, err := time.Parse(time.DateOnly, strings.TrimSpace(raw.DueDate)); err == nil {
			fields.DueDate = &due
		}
	}

	cur, known := currency.Lookup(raw.Currency)
	if known {
		fields.Currency = cur.Code
	}

	if amount := strings.Trim(string(raw.Amount), `" `); amount != "" && amount != "null" {
		minorUnits := int32(2)
		if known {
			minorUnits = cur.MinorUnits
		}
		if d, err := dec.ParseAmount(amount, minorUnits); err == nil && dec.IsPositive(d) {
			fields.Amount = &d
		}
	}

	return fields, nil
}
