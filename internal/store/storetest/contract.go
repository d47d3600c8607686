// Package storetest holds the behaviour every store.Store adapter must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/store"
)

// Factory returns an empty store and an optional cleanup func
type Factory func(t *testing.T) (store.Store, func())

var base = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newInvoice(offset int, status model.Status, due *time.Time, vendor *uuid.UUID) *model.Invoice {
	created := base.Add(time.Duration(offset) * time.Minute)
	return &model.Invoice{
		ID:        uuid.New(),
		Status:    status,
		DueDate:   due,
		VendorID:  vendor,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func pdfDocument() *model.Document {
	return &model.Document{
		Content:   []byte("%PDF-1.4 contract"),
		MimeType:  "application/pdf",
		Filename:  "invoice.pdf",
		PageCount: 2,
	}
}

func ids(invoices []model.Invoice) []uuid.UUID {
	out := make([]uuid.UUID, len(invoices))
	for i, inv := range invoices {
		out[i] = inv.ID
	}
	return out
}

// Run exercises a store adapter against the shared contract
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	open := func(t *testing.T) store.Store {
		t.Helper()
		s, cleanup := newStore(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}
		return s
	}
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s := open(t)
		vendor := uuid.New()
		amount := decimal.RequireFromString("1250.50")
		inv := newInvoice(0, model.StatusCreated, date(2026, 11, 30), &vendor)
		inv.Amount = &amount
		inv.Currency = "USD"

		require.NoError(t, s.CreateInvoice(ctx, inv, pdfDocument()))

		got, err := s.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, got.ID)
		assert.Equal(t, model.StatusCreated, got.Status)
		require.NotNil(t, got.DueDate)
		assert.True(t, inv.DueDate.Equal(*got.DueDate))
		require.NotNil(t, got.VendorID)
		assert.Equal(t, vendor, *got.VendorID)
		require.NotNil(t, got.Amount)
		assert.True(t, amount.Equal(*got.Amount))
		assert.Equal(t, "USD", got.Currency)
		assert.True(t, inv.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("optional fields stay empty", func(t *testing.T) {
		s := open(t)
		inv := newInvoice(0, model.StatusCreated, nil, nil)
		require.NoError(t, s.CreateInvoice(ctx, inv, pdfDocument()))

		got, err := s.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Nil(t, got.DueDate)
		assert.Nil(t, got.VendorID)
		assert.Nil(t, got.Amount)
		assert.Empty(t, got.Currency)
	})

	t.Run("duplicate id", func(t *testing.T) {
		s := open(t)
		inv := newInvoice(0, model.StatusCreated, nil, nil)
		require.NoError(t, s.CreateInvoice(ctx, inv, pdfDocument()))
		require.ErrorIs(t, s.CreateInvoice(ctx, inv, pdfDocument()), store.ErrAlreadyExists)
	})

	t.Run("get missing", func(t *testing.T) {
		s := open(t)
		_, err := s.GetInvoice(ctx, uuid.New())
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.GetDocument(ctx, uuid.New())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("document round trip", func(t *testing.T) {
		s := open(t)
		inv := newInvoice(0, model.StatusCreated, nil, nil)
		doc := pdfDocument()
		require.NoError(t, s.CreateInvoice(ctx, inv, doc))

		got, err := s.GetDocument(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.Content, got.Content)
		assert.Equal(t, doc.MimeType, got.MimeType)
		assert.Equal(t, doc.Filename, got.Filename)
		assert.Equal(t, doc.PageCount, got.PageCount)
	})

	t.Run("list all in creation order", func(t *testing.T) {
		s := open(t)
		first := newInvoice(0, model.StatusCreated, nil, nil)
		second := newInvoice(1, model.StatusPaid, nil, nil)
		third := newInvoice(2, model.StatusApproved, nil, nil)
		for _, inv := range []*model.Invoice{first, second, third} {
			require.NoError(t, s.CreateInvoice(ctx, inv, pdfDocument()))
		}

		got, err := s.ListInvoices(ctx, model.InvoiceFilter{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, ids(got))
	})

	t.Run("list empty store", func(t *testing.T) {
		s := open(t)
		got, err := s.ListInvoices(ctx, model.InvoiceFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("filters intersect", func(t *testing.T) {
		s := open(t)
		vendorA, vendorB := uuid.New(), uuid.New()
		paidA := newInvoice(0, model.StatusPaid, nil, &vendorA)
		paidB := newInvoice(1, model.StatusPaid, nil, &vendorB)
		createdA := newInvoice(2, model.StatusCreated, nil, &vendorA)
		noVendor := newInvoice(3, model.StatusPaid, nil, nil)
		for _, inv := range []*model.Invoice{paidA, paidB, createdA, noVendor} {
			require.NoError(t, s.CreateInvoice(ctx, inv, pdfDocument()))
		}

		got, err := s.ListInvoices(ctx, model.InvoiceFilter{Statuses: []model.Status{model.StatusPaid}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{paidA.ID, paidB.ID, noVendor.ID}, ids(got))

		got, err = s.ListInvoices(ctx, model.InvoiceFilter{VendorIDs: []uuid.UUID{vendorA}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{paidA.ID, createdA.ID}, ids(got))

		got, err = s.ListInvoices(ctx, model.InvoiceFilter{
			Statuses:  []model.Status{model.StatusPaid},
			VendorIDs: []uuid.UUID{vendorA},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{paidA.ID}, ids(got))

		got, err = s.ListInvoices(ctx, model.InvoiceFilter{IDs: []uuid.UUID{createdA.ID, paidB.ID}})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{createdA.ID, paidB.ID}, ids(got))

		got, err = s.ListInvoices(ctx, model.InvoiceFilter{IDs: []uuid.UUID{uuid.New()}})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("order by due date", func(t *testing.T) {
		s := open(t)
		late := newInvoice(0, model.StatusCreated, date(2026, 12, 31), nil)
		undated := newInvoice(1, model.StatusCreated, nil, nil)
		early := newInvoice(2, model.StatusCreated, date(2026, 10, 15), nil)
		middle := newInvoice(3, model.StatusCreated, date(2026, 11, 15), nil)
		for _, inv := range []*model.Invoice{late, undated, early, middle} {
			require.NoError(t, s.CreateInvoice(ctx, inv, pdfDocument()))
		}

		asc := []model.OrderBy{{Field: model.OrderFieldDueDate, Direction: model.SortAsc}}
		got, err := s.ListInvoices(ctx, model.InvoiceFilter{OrderBy: asc})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{early.ID, middle.ID, late.ID, undated.ID}, ids(got))

		desc := []model.OrderBy{{Field: model.OrderFieldDueDate, Direction: model.SortDesc}}
		got, err = s.ListInvoices(ctx, model.InvoiceFilter{OrderBy: desc})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{late.ID, middle.ID, early.ID, undated.ID}, ids(got))
	})

	t.Run("update status", func(t *testing.T) {
		s := open(t)
		inv := newInvoice(0, model.StatusCreated, nil, nil)
		require.NoError(t, s.CreateInvoice(ctx, inv, pdfDocument()))

		paid := model.StatusPaid
		later := base.Add(time.Hour)
		got, err := s.UpdateInvoiceStatus(ctx, inv.ID, &paid, later)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPaid, got.Status)
		assert.True(t, later.Equal(got.UpdatedAt))

		reread, err := s.GetInvoice(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPaid, reread.Status)
	})

	t.Run("update without status", func(t *testing.T) {
		s := open(t)
		inv := newInvoice(0, model.StatusApproved, nil, nil)
		require.NoError(t, s.CreateInvoice(ctx, inv, pdfDocument()))

		got, err := s.UpdateInvoiceStatus(ctx, inv.ID, nil, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, got.Status)
		assert.True(t, inv.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("update missing", func(t *testing.T) {
		s := open(t)
		paid := model.StatusPaid
		_, err := s.UpdateInvoiceStatus(ctx, uuid.New(), &paid, base)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.UpdateInvoiceStatus(ctx, uuid.New(), nil, base)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
