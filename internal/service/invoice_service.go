package service

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
	"github.com/promptdesk/promptdesk/internal/storage"
)

// invoiceEvents posts invoice lifecycle events to external webhook endpoints.
type invoiceEvents interface {
	InvoiceEvent(ctx context.Context, verb string, invoice *models.Invoice)
}

// InvoiceService handles invoices and their stored PDFs.
type InvoiceService struct {
	invoices   *repository.InvoiceRepository
	storage    *storage.Client
	dispatcher invoiceEvents
	logger     *log.Logger
}

// NewInvoiceService creates an invoice service.
func NewInvoiceService(invoices *repository.InvoiceRepository, store *storage.Client, dispatcher invoiceEvents) *InvoiceService {
	return &InvoiceService{
		invoices:   invoices,
		storage:    store,
		dispatcher: dispatcher,
		logger:     log.New(log.Writer(), "[INVOICE] ", log.LstdFlags),
	}
}

// Create persists a new invoice.
func (s *InvoiceService) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	created, err := s.invoices.Create(ctx, inv)
	if err != nil {
		return nil, err
	}
	s.dispatcher.InvoiceEvent(ctx, "created", created)
	return created, nil
}

// Get returns one invoice.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return inv, err
}

// List returns a bounded page of invoices.
func (s *InvoiceService) List(ctx context.Context, page, perPage int) ([]*models.Invoice, error) {
	return s.invoices.List(ctx, page, perPage)
}

// SetStatus changes the invoice status.
func (s *InvoiceService) SetStatus(ctx context.Context, id, status string) error {
	err := s.invoices.UpdateStatus(ctx, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if inv, err := s.Get(ctx, id); err == nil {
		s.dispatcher.InvoiceEvent(ctx, "updated", inv)
	}
	return nil
}

// AttachPDF stores the rendered PDF under invoice-{id}.pdf in the invoices
// bucket and records its public URL.
func (s *InvoiceService) AttachPDF(ctx context.Context, id string, pdf []byte) (string, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}

	key := storage.InvoicePDFKey(id)
	publicURL, err := s.storage.Upload(ctx, storage.BucketInvoices, key, "application/pdf", pdf)
	if err != nil {
		return "", err
	}
	if err := s.invoices.SetPDFURL(ctx, id, publicURL); err != nil {
		return "", err
	}
	return publicURL, nil
}

// Delete removes an invoice. The row is fetched first so the deleted event
// can still carry its number and amount.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.invoices.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.dispatcher.InvoiceEvent(ctx, "deleted", inv)
	return nil
}
