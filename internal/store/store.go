// Package store defines the persistence port for invoices and their
// documents. Adapters live in the memory and postgres subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rezonia/invoice-api/internal/model"
)

// ErrNotFound is returned when an invoice or document does not exist
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating an invoice whose ID is taken
var ErrAlreadyExists = errors.New("already exists")

// Store persists invoices. Implementations must be safe for concurrent use.
//
// ListInvoices returns invoices matching every non-empty set in the filter,
// ordered by the filter's clauses in the order given (invoices without a
// due date sort last in either direction) and then by creation time.
type Store interface {
	CreateInvoice(ctx context.Context, inv *model.Invoice, doc *model.Document) error
	ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	GetDocument(ctx context.Context, invoiceID uuid.UUID) (*model.Document, error)
	// UpdateInvoiceStatus sets the status when status is non-nil and stamps
	// updatedAt. A nil status changes nothing but still reports absence.
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status *model.Status, updatedAt time.Time) (*model.Invoice, error)
}
