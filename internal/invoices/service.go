// Package invoices implements the invoice-management service the HTTP
// layer delegates to: it settles documents, enriches new invoices with
// extracted fields and persists them through a store.
package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rezonia/invoice-api/internal/currency"
	"github.com/rezonia/invoice-api/internal/document"
	"github.com/rezonia/invoice-api/internal/llm"
	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/store"
	"github.com/rezonia/invoice-api/internal/vendors"
)

// FieldExtractor reads payable fields from a document
type FieldExtractor interface {
	Extract(ctx context.Context, doc *model.Document) (*llm.Fields, error)
}

// VendorLookup resolves a vendor name to a vendor
type VendorLookup interface {
	FindVendorByName(ctx context.Context, name string) (*vendors.Vendor, error)
}

// CreateInvoiceInput is an uploaded invoice file
type CreateInvoiceInput struct {
	Content  []byte
	MimeType string
	Filename string
}

// UpdateInvoiceInput is a partial invoice update; nil fields are left alone
type UpdateInvoiceInput struct {
	Status *model.Status
}

// Service manages invoices
type Service struct {
	store     store.Store
	extractor FieldExtractor
	vendors   VendorLookup
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the service
type Option func(*Service)

// WithFieldExtractor enables field extraction on upload
func WithFieldExtractor(e FieldExtractor) Option {
	return func(s *Service) {
		s.extractor = e
	}
}

// WithVendorLookup enables vendor resolution on upload
func WithVendorLookup(v VendorLookup) Option {
	return func(s *Service) {
		s.vendors = v
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a service persisting to st
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice stores an uploaded document as a new invoice in status created
func (s *Service) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*model.Invoice, error) {
	doc := &model.Document{
		Content:  in.Content,
		MimeType: document.DetectMimeType(in.Content, in.MimeType),
		Filename: in.Filename,
	}

	if document.IsPDF(doc.MimeType) {
		pages, err := document.PageCount(doc.Content)
		if err != nil {
			s.logger.WarnContext(ctx, "pdf inspection failed", "filename", doc.Filename, "error", err)
		}
		doc.PageCount = pages
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	inv := &model.Invoice{
		ID:        uuid.New(),
		Status:    model.StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.applyExtractedFields(ctx, inv, doc)

	if err := s.store.CreateInvoice(ctx, inv, doc); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.logger.InfoContext(ctx, "invoice created",
		"invoice_id", inv.ID,
		"mime_type", doc.MimeType,
		"size", doc.Size(),
	)
	return inv, nil
}

// applyExtractedFields fills due date, amount, currency and vendor when an
// extractor is configured. Extraction is best effort and never fails the upload.
func (s *Service) applyExtractedFields(ctx context.Context, inv *model.Invoice, doc *model.Document) {
	if s.extractor == nil {
		return
	}

	fields, err := s.extractor.Extract(ctx, doc)
	if errors.Is(err, llm.ErrUnsupportedDocument) {
		s.logger.DebugContext(ctx, "field extraction skipped", "mime_type", doc.MimeType)
		return
	}
	if err != nil {
		s.logger.WarnContext(ctx, "field extraction failed", "error", err)
		return
	}

	inv.DueDate = fields.DueDate
	inv.Amount = fields.Amount
	inv.Currency = fields.Currency

	if fields.VendorName == "" || s.vendors == nil {
		return
	}
	vendor, err := s.vendors.FindVendorByName(ctx, fields.VendorName)
	switch {
	case errors.Is(err, vendors.ErrNotFound):
		s.logger.InfoContext(ctx, "vendor not recognised", "vendor_name", fields.VendorName)
	case err != nil:
		s.logger.WarnContext(ctx, "vendor lookup failed", "vendor_name", fields.VendorName, "error", err)
	default:
		inv.VendorID = &vendor.ID
	}
}

// ListInvoices returns invoices matching filter
func (s *Service) ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error) {
	invoices, err := s.store.ListInvoices(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// ListCurrencies returns the supported currency codes
func (s *Service) ListCurrencies(context.Context) ([]string, error) {
	return currency.Codes(), nil
}

// GetInvoiceByID returns one invoice
func (s *Service) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id, "get invoice")
	}
	return inv, nil
}

// DownloadInvoiceDocumentFile returns the document an invoice was created from
func (s *Service) DownloadInvoiceDocumentFile(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id, "get invoice document")
	}
	return doc, nil
}

// UpdateInvoice applies a partial update. Status changes are not checked
// against any transition order.
func (s *Service) UpdateInvoice(ctx context.Context, id uuid.UUID, in UpdateInvoiceInput) (*model.Invoice, error) {
	inv, err := s.store.UpdateInvoiceStatus(ctx, id, in.Status, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return nil, notFoundOr(err, id, "update invoice")
	}
	if in.Status != nil {
		s.logger.InfoContext(ctx, "invoice status updated", "invoice_id", id, "status", *in.Status)
	}
	return inv, nil
}

func notFoundOr(err error, id uuid.UUID, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return model.NewError(model.KindNotFound, fmt.Sprintf("invoice %s not found", id), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
