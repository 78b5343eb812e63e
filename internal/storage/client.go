// Package storage is a thin gateway to the external object store. Files are
// written with a single authenticated PUT and read back through public URLs;
// the store's own access rules are trusted beyond that.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Buckets in use.
const (
	BucketInvoices    = "invoices"
	BucketAttachments = "mail-attachments"
)

// Client uploads objects and builds their public URLs.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClientFromEnv builds a client from STORAGE_URL and STORAGE_API_KEY.
func NewClientFromEnv() *Client {
	return &Client{
		baseURL: os.Getenv("STORAGE_URL"),
		apiKey:  os.Getenv("STORAGE_API_KEY"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// InvoicePDFKey returns the storage key for an invoice PDF.
func InvoicePDFKey(invoiceID string) string {
	return fmt.Sprintf("invoice-%s.pdf", invoiceID)
}

// AttachmentKey returns the storage key for a mail attachment.
func AttachmentKey(mailID, fileName string) string {
	return fmt.Sprintf("%s/%s", mailID, fileName)
}

// Upload stores an object and returns its public URL.
func (c *Client) Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("storage is not configured")
	}

	endpoint := fmt.Sprintf("%s/object/%s/%s", c.baseURL, bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage upload returned HTTP %d", resp.StatusCode)
	}

	return c.PublicURL(bucket, key), nil
}

// PublicURL returns the public retrieval URL for an object.
func (c *Client) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, bucket, key)
}
