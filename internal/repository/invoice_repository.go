package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/promptdesk/promptdesk/internal/database"
	"github.com/promptdesk/promptdesk/internal/models"
)

// InvoiceRepository handles database operations for invoices.
type InvoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `id, number, amount, currency, status, client_id,
	project_id, created_by, pdf_url, created_at, updated_at`

// Create inserts a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Currency == "" {
		inv.Currency = "EUR"
	}
	if inv.Status == "" {
		inv.Status = "draft"
	}
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := database.ConvertPlaceholders(`
		INSERT INTO invoices (id, number, amount, currency, status, client_id, project_id, created_by, pdf_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.Number, inv.Amount, inv.Currency, inv.Status,
		nullable(inv.ClientID), nullable(inv.ProjectID), nullable(inv.CreatedBy),
		nullable(inv.PDFURL), now, now,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetByID retrieves one invoice.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := database.ConvertPlaceholders(`SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`)
	return scanInvoice(r.db.QueryRowContext(ctx, query, id))
}

// List returns a bounded page of invoices.
func (r *InvoiceRepository) List(ctx context.Context, page, perPage int) ([]*models.Invoice, error) {
	limit, offset := pageBounds(page, perPage)
	query := database.ConvertPlaceholders(`
		SELECT ` + invoiceColumns + ` FROM invoices
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateStatus changes the invoice status.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := database.ConvertPlaceholders(`
		UPDATE invoices SET status = ?, updated_at = ? WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// SetPDFURL records the public URL of the stored PDF.
func (r *InvoiceRepository) SetPDFURL(ctx context.Context, id, url string) error {
	query := database.ConvertPlaceholders(`
		UPDATE invoices SET pdf_url = ?, updated_at = ? WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, url, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// Delete removes an invoice row.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	query := database.ConvertPlaceholders(`DELETE FROM invoices WHERE id = ?`)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var clientID, projectID, createdBy, pdfURL sql.NullString
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Amount, &inv.Currency, &inv.Status,
		&clientID, &projectID, &createdBy, &pdfURL, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.ClientID = clientID.String
	inv.ProjectID = projectID.String
	inv.CreatedBy = createdBy.String
	inv.PDFURL = pdfURL.String
	return inv, nil
}
