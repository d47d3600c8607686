package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an invoice
type Status string

const (
	StatusCreated  Status = "created"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
)

// Statuses lists every known status in lifecycle order
var Statuses = []Status{
	StatusCreated,
	StatusApproved,
	StatusRejected,
	StatusPaid,
}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts a wire value into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", InvalidRequest(fmt.Sprintf("unknown invoice status %q", s))
	}
	return status, nil
}

// Invoice is a billable document record
type Invoice struct {
	ID        uuid.UUID
	Status    Status
	DueDate   *time.Time
	VendorID  *uuid.UUID
	Amount    *decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document is the file an invoice was created from
type Document struct {
	Content   []byte
	MimeType  string
	Filename  string
	PageCount int
}

// Size returns the content length in bytes
func (d *Document) Size() int {
	return len(d.Content)
}

// Currency is a supported ISO 4217 currency
type Currency struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	MinorUnits int32  `yaml:"minor_units"`
}

// OrderField names a sortable invoice field
type OrderField string

const (
	OrderFieldDueDate OrderField = "dueDate"
)

// SortDirection is ascending or descending
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// OrderBy is a single ordering clause
type OrderBy struct {
	Field     OrderField
	Direction SortDirection
}

func (o OrderBy) String() string {
	return string(o.Field) + " " + string(o.Direction)
}

// ParseOrderBy parses a clause of the form "<field> <direction>"
func ParseOrderBy(clause string) (OrderBy, error) {
	parts := strings.Fields(clause)
	if len(parts) != 2 {
		return OrderBy{}, InvalidRequest(fmt.Sprintf("invalid orderBy clause %q: expected \"<field> <direction>\"", clause))
	}

	field := OrderField(parts[0])
	if field != OrderFieldDueDate {
		return OrderBy{}, InvalidRequest(fmt.Sprintf("invalid orderBy field %q", parts[0]))
	}

	direction := SortDirection(parts[1])
	if direction != SortAsc && direction != SortDesc {
		return OrderBy{}, InvalidRequest(fmt.Sprintf("invalid orderBy direction %q", parts[1]))
	}

	return OrderBy{Field: field, Direction: direction}, nil
}

// InvoiceFilter selects invoices; every non-empty set must match
type InvoiceFilter struct {
	IDs       []uuid.UUID
	Statuses  []Status
	VendorIDs []uuid.UUID
	OrderBy   []OrderBy
}

// Matches reports whether inv satisfies every supplied set
func (f InvoiceFilter) Matches(inv *Invoice) bool {
	if len(f.IDs) > 0 && !containsID(f.IDs, inv.ID) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, inv.Status) {
		return false
	}
	if len(f.VendorIDs) > 0 {
		if inv.VendorID == nil || !containsID(f.VendorIDs, *inv.VendorID) {
			return false
		}
	}
	return true
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func containsStatus(statuses []Status, status Status) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}
