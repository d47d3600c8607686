package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-api/internal/model"
)

const dateLayout = "2006-01-02"

// InvoiceResponse is the wire form of an invoice
type InvoiceResponse struct {
	ID        uuid.UUID        `json:"id"`
	Status    model.Status     `json:"status"`
	DueDate   *string          `json:"dueDate"`
	VendorID  *uuid.UUID       `json:"vendorId"`
	Amount    *decimal.Decimal `json:"amount"`
	Currency  string           `json:"currency,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newInvoiceResponse(inv *model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:        inv.ID,
		Status:    inv.Status,
		VendorID:  inv.VendorID,
		Amount:    inv.Amount,
		Currency:  inv.Currency,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
	if inv.DueDate != nil {
		d := inv.DueDate.Format(dateLayout)
		resp.DueDate = &d
	}
	return resp
}
