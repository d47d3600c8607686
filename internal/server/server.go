package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rezonia/invoice-api/internal/document"
	"github.com/rezonia/invoice-api/internal/invoices"
	"github.com/rezonia/invoice-api/internal/model"
)

// Config holds server configuration
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	Debug           bool
	Logger          *slog.Logger
}

// InvoiceService is the invoice-management collaborator the API delegates to
type InvoiceService interface {
	CreateInvoice(ctx context.Context, in invoices.CreateInvoiceInput) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error)
	ListCurrencies(ctx context.Context) ([]string, error)
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	DownloadInvoiceDocumentFile(ctx context.Context, id uuid.UUID) (*model.Document, error)
	UpdateInvoice(ctx context.Context, id uuid.UUID, in invoices.UpdateInvoiceInput) (*model.Invoice, error)
}

// Server represents an HTTP listener built on a gin router
type Server struct {
	config   *Config
	router   *gin.Engine
	invoices InvoiceService
	logger   *slog.Logger
}

// NewServer creates the invoice API server
func NewServer(config *Config, svc InvoiceService) *Server {
	s := newServer(config)
	s.invoices = svc
	s.setupRoutes()
	return s
}

// NewHelloServer creates a listener that answers every GET / with a greeting
func NewHelloServer(config *Config, name string) *Server {
	s := newServer(config)
	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello %s!", name)
	})
	return s
}

func newServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registerValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}
	router.Use(handleErrors(logger))

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(model.NotFound(fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path)))
	})

	return &Server{
		config: config,
		router: router,
		logger: logger,
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	inv := s.router.Group("/invoices")
	{
		inv.POST("", s.handleCreateInvoice)
		inv.GET("", s.handleListInvoices)
		inv.GET("/currencies", s.handleListCurrencies)
		inv.GET("/:invoiceId", s.handleGetInvoice)
		inv.GET("/:invoiceId/download", s.handleDownloadInvoiceDocument)
		inv.PATCH("/:invoiceId", s.handleUpdateInvoiceStatus)
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.config.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCreateInvoice(c *gin.Context) {
	if s.config.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		_ = c.Error(model.NewError(model.KindInvalidRequest, "request must be multipart/form-data", err))
		return
	}

	var files []*multipart.FileHeader
	for _, headers := range form.File {
		files = append(files, headers...)
	}
	if len(files) != 1 {
		_ = c.Error(model.InvalidRequest(fmt.Sprintf("expected exactly one file, got %d", len(files))))
		return
	}
	file := files[0]

	content, err := readFile(file)
	if err != nil {
		_ = c.Error(model.NewError(model.KindInvalidRequest, "failed to read uploaded file", err))
		return
	}

	inv, err := s.invoices.CreateInvoice(c.Request.Context(), invoices.CreateInvoiceInput{
		Content:  content,
		MimeType: file.Header.Get("Content-Type"),
		Filename: file.Filename,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, newInvoiceResponse(inv))
}

func (s *Server) handleListInvoices(c *gin.Context) {
	filter, err := bindListInvoicesQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	list, err := s.invoices.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := make([]InvoiceResponse, 0, len(list))
	for i := range list {
		resp = append(resp, newInvoiceResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListCurrencies(c *gin.Context) {
	codes, err := s.invoices.ListCurrencies(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if codes == nil {
		codes = []string{}
	}
	c.JSON(http.StatusOK, codes)
}

func (s *Server) handleGetInvoice(c *gin.Context) {
	id, err := bindInvoiceID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	inv, err := s.invoices.GetInvoiceByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, newInvoiceResponse(inv))
}

func (s *Server) handleDownloadInvoiceDocument(c *gin.Context) {
	id, err := bindInvoiceID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	doc, err := s.invoices.DownloadInvoiceDocumentFile(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ext, err := document.Extension(doc.MimeType)
	if err != nil {
		_ = c.Error(model.NewError(model.KindInvalidState, fmt.Sprintf("no file extension for document of invoice %s", id), err))
		return
	}

	c.DataFromReader(http.StatusOK, int64(doc.Size()), doc.MimeType, bytes.NewReader(doc.Content), map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s.%s"`, id, ext),
	})
}

func (s *Server) handleUpdateInvoiceStatus(c *gin.Context) {
	id, err := bindInvoiceID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var body updateInvoiceBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(bindingError(err))
		return
	}

	var in invoices.UpdateInvoiceInput
	if body.Status != nil {
		status := model.Status(*body.Status)
		in.Status = &status
	}

	inv, err := s.invoices.UpdateInvoice(c.Request.Context(), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, newInvoiceResponse(inv))
}
