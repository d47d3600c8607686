package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rezonia/invoice-api/internal/model"
)

type invoiceURI struct {
	InvoiceID string `uri:"invoiceId" binding:"required,uuid"`
}

type listInvoicesQuery struct {
	IDs       []string `form:"ids" binding:"omitempty,dive,uuid"`
	Statuses  []string `form:"statuses" binding:"omitempty,dive,invoice_status"`
	VendorIDs []string `form:"vendorIds" binding:"omitempty,dive,uuid"`
	OrderBy   []string `form:"orderBy" binding:"omitempty,dive,invoice_order_by"`
}

type updateInvoiceBody struct {
	Status *string `json:"status" binding:"omitempty,invoice_status"`
}

var registerValidatorsOnce sync.Once

// registerValidators installs the invoice tags on gin's validator engine
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(wireName)
		_ = v.RegisterValidation("invoice_status", func(fl validator.FieldLevel) bool {
			return model.Status(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("invoice_order_by", func(fl validator.FieldLevel) bool {
			_, err := model.ParseOrderBy(fl.Field().String())
			return err == nil
		})
	})
}

// wireName reports fields by the name clients send
func wireName(f reflect.StructField) string {
	for _, tag := range []string{"uri", "form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func bindInvoiceID(c *gin.Context) (uuid.UUID, error) {
	var req invoiceURI
	if err := c.ShouldBindUri(&req); err != nil {
		return uuid.Nil, bindingError(err)
	}
	return uuid.MustParse(req.InvoiceID), nil
}

func bindListInvoicesQuery(c *gin.Context) (model.InvoiceFilter, error) {
	var (
		req    listInvoicesQuery
		filter model.InvoiceFilter
	)
	if err := binding.MapFormWithTag(&req, normalizeQuery(c.Request.URL.Query()), "form"); err != nil {
		return filter, bindingError(err)
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return filter, bindingError(err)
	}

	for _, id := range req.IDs {
		filter.IDs = append(filter.IDs, uuid.MustParse(id))
	}
	for _, st := range req.Statuses {
		filter.Statuses = append(filter.Statuses, model.Status(st))
	}
	for _, id := range req.VendorIDs {
		filter.VendorIDs = append(filter.VendorIDs, uuid.MustParse(id))
	}
	for _, clause := range req.OrderBy {
		orderBy, err := model.ParseOrderBy(clause)
		if err != nil {
			return filter, err
		}
		filter.OrderBy = append(filter.OrderBy, orderBy)
	}
	return filter, nil
}

// normalizeQuery folds "name[]" keys into "name", plain spelling first
func normalizeQuery(values map[string][]string) map[string][]string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string][]string, len(values))
	for _, key := range keys {
		name := strings.TrimSuffix(key, "[]")
		out[name] = append(out[name], values[key]...)
	}
	return out
}

// bindingError converts a gin binding failure into an InvalidRequest error
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewError(model.KindInvalidRequest, "malformed request", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field(), describeTag(fe)))
	}
	return model.InvalidRequest(strings.Join(msgs, "; "))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return fmt.Sprintf("must be a UUID, got %q", fe.Value())
	case "invoice_status":
		statuses := make([]string, 0, len(model.Statuses))
		for _, st := range model.Statuses {
			statuses = append(statuses, string(st))
		}
		return fmt.Sprintf("must be one of %s, got %q", strings.Join(statuses, ", "), fe.Value())
	case "invoice_order_by":
		return fmt.Sprintf(`must be "%s asc" or "%s desc", got %q`, model.OrderFieldDueDate, model.OrderFieldDueDate, fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
