package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/store"
)

// Store implements store.Store on a pgx pool
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const invoiceColumns = `id::text, status, due_date, vendor_id::text, amount::text, currency, created_at, updated_at`

const insertInvoiceSQL = `
INSERT INTO invoices (id, status, due_date, vendor_id, amount, currency, created_at, updated_at)
VALUES ($1::uuid, $2, $3::date, $4::uuid, $5::numeric, $6, $7, $8);`

const insertDocumentSQL = `
INSERT INTO invoice_documents (invoice_id, content, mime_type, filename, page_count)
VALUES ($1::uuid, $2, $3, $4, $5);`

const listInvoicesSQL = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE (coalesce(cardinality($1::text[]), 0) = 0 OR id::text = ANY($1::text[]))
  AND (coalesce(cardinality($2::text[]), 0) = 0 OR status = ANY($2::text[]))
  AND (coalesce(cardinality($3::text[]), 0) = 0 OR vendor_id::text = ANY($3::text[]))
ORDER BY `

const getInvoiceSQL = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE id = $1::uuid;`

const getDocumentSQL = `
SELECT content, mime_type, filename, page_count
FROM invoice_documents
WHERE invoice_id = $1::uuid;`

const updateInvoiceStatusSQL = `
UPDATE invoices
SET status = coalesce($2::text, status),
    updated_at = CASE WHEN $2::text IS NULL THEN updated_at ELSE $3::timestamptz END
WHERE id = $1::uuid
RETURNING ` + invoiceColumns + `;`

func (s *Store) CreateInvoice(ctx context.Context, inv *model.Invoice, doc *model.Document) error {
	var vendorID, amount *string
	if inv.VendorID != nil {
		v := inv.VendorID.String()
		vendorID = &v
	}
	if inv.Amount != nil {
		a := inv.Amount.String()
		amount = &a
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertInvoiceSQL,
			inv.ID.String(), string(inv.Status), inv.DueDate, vendorID, amount, inv.Currency, inv.CreatedAt, inv.UpdatedAt,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, insertDocumentSQL,
			inv.ID.String(), doc.Content, doc.MimeType, doc.Filename, doc.PageCount,
		)
		return err
	})
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (s *Store) ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error) {
	ids := make([]string, 0, len(filter.IDs))
	for _, id := range filter.IDs {
		ids = append(ids, id.String())
	}
	statuses := make([]string, 0, len(filter.Statuses))
	for _, st := range filter.Statuses {
		statuses = append(statuses, string(st))
	}
	vendorIDs := make([]string, 0, len(filter.VendorIDs))
	for _, id := range filter.VendorIDs {
		vendorIDs = append(vendorIDs, id.String())
	}

	rows, err := s.pool.Query(ctx, listInvoicesSQL+orderByClause(filter.OrderBy), ids, statuses, vendorIDs)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	result := make([]model.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	return result, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx, getInvoiceSQL, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (s *Store) GetDocument(ctx context.Context, invoiceID uuid.UUID) (*model.Document, error) {
	var doc model.Document
	err := s.pool.QueryRow(ctx, getDocumentSQL, invoiceID.String()).
		Scan(&doc.Content, &doc.MimeType, &doc.Filename, &doc.PageCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status *model.Status, updatedAt time.Time) (*model.Invoice, error) {
	var st *string
	if status != nil {
		v := string(*status)
		st = &v
	}

	inv, err := scanInvoice(s.pool.QueryRow(ctx, updateInvoiceStatusSQL, id.String(), st, updatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	return inv, nil
}

// orderByClause renders enumerated clauses only, so it is safe to splice
func orderByClause(orderBy []model.OrderBy) string {
	parts := make([]string, 0, len(orderBy)+2)
	for _, clause := range orderBy {
		if clause.Field != model.OrderFieldDueDate {
			continue
		}
		dir := "ASC"
		if clause.Direction == model.SortDesc {
			dir = "DESC"
		}
		parts = append(parts, "due_date "+dir+" NULLS LAST")
	}
	parts = append(parts, "created_at ASC", "id ASC")
	return strings.Join(parts, ", ")
}

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var (
		inv      model.Invoice
		id       string
		status   string
		vendorID *string
		amount   *string
	)
	if err := row.Scan(&id, &status, &inv.DueDate, &vendorID, &amount, &inv.Currency, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if inv.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("scan invoice id: %w", err)
	}
	inv.Status = model.Status(status)
	if vendorID != nil {
		v, err := uuid.Parse(*vendorID)
		if err != nil {
			return nil, fmt.Errorf("scan vendor id: %w", err)
		}
		inv.VendorID = &v
	}
	if amount != nil {
		a, err := decimal.NewFromString(*amount)
		if err != nil {
			return nil, fmt.Errorf("scan amount: %w", err)
		}
		inv.Amount = &a
	}
	if inv.DueDate != nil {
		d := inv.DueDate.UTC()
		inv.DueDate = &d
	}
	inv.CreatedAt = inv.CreatedAt.UTC()
	inv.UpdatedAt = inv.UpdatedAt.UTC()

	return &inv, nil
}
