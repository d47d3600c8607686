package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/store"
)

type entry struct {
	seq      int
	invoice  model.Invoice
	document model.Document
}

// Store is an in-memory implementation of store.Store.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	nextSeq int
	byID    map[uuid.UUID]*entry
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		byID: make(map[uuid.UUID]*entry),
	}
}

func (s *Store) CreateInvoice(ctx context.Context, inv *model.Invoice, doc *model.Document) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[inv.ID]; ok {
		return store.ErrAlreadyExists
	}
	s.nextSeq++
	s.byID[inv.ID] = &entry{
		seq:      s.nextSeq,
		invoice:  cloneInvoice(*inv),
		document: cloneDocument(*doc),
	}
	return nil
}

func (s *Store) ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]*entry, 0, len(s.byID))
	for _, e := range s.byID {
		if filter.Matches(&e.invoice) {
			matched = append(matched, e)
		}
	}

	sortEntries(matched, filter.OrderBy)

	out := make([]model.Invoice, 0, len(matched))
	for _, e := range matched {
		out = append(out, cloneInvoice(e.invoice))
	}
	return out, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	inv := cloneInvoice(e.invoice)
	return &inv, nil
}

func (s *Store) GetDocument(ctx context.Context, invoiceID uuid.UUID) (*model.Document, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[invoiceID]
	if !ok {
		return nil, store.ErrNotFound
	}
	doc := cloneDocument(e.document)
	return &doc, nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status *model.Status, updatedAt time.Time) (*model.Invoice, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if status != nil {
		e.invoice.Status = *status
		e.invoice.UpdatedAt = updatedAt
	}
	inv := cloneInvoice(e.invoice)
	return &inv, nil
}

func sortEntries(entries []*entry, orderBy []model.OrderBy) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i].invoice, &entries[j].invoice
		for _, clause := range orderBy {
			if c := compareDueDate(a.DueDate, b.DueDate, clause.Direction); c != 0 {
				return c < 0
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return entries[i].seq < entries[j].seq
	})
}

// compareDueDate orders by direction with missing dates last either way
func compareDueDate(a, b *time.Time, dir model.SortDirection) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := a.Compare(*b)
	if dir == model.SortDesc {
		c = -c
	}
	return c
}

func cloneInvoice(in model.Invoice) model.Invoice {
	out := in
	if in.DueDate != nil {
		d := *in.DueDate
		out.DueDate = &d
	}
	if in.VendorID != nil {
		v := *in.VendorID
		out.VendorID = &v
	}
	if in.Amount != nil {
		a := *in.Amount
		out.Amount = &a
	}
	return out
}

func cloneDocument(in model.Document) model.Document {
	out := in
	out.Content = append([]byte(nil), in.Content...)
	return out
}
