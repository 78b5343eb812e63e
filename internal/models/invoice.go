package models

import "time"

// Invoice is billed against an optional parent project. The rendered PDF is
// stored externally under invoice-{id}.pdf in the invoices bucket.
type Invoice struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	ClientID  string    `json:"client_id,omitempty"`
	ProjectID string    `json:"project_id,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	PDFURL    string    `json:"pdf_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
