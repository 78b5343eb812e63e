package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptdesk/promptdesk/internal/apierrors"
	"github.com/promptdesk/promptdesk/internal/middleware"
	"github.com/promptdesk/promptdesk/internal/models"
)

type createInvoiceRequest struct {
	Number    string  `json:"number" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Currency  string  `json:"currency" binding:"required"`
	Status    string  `json:"status"`
	ClientID  string  `json:"client_id"`
	ProjectID string  `json:"project_id"`
}

func (h *Handlers) handleCreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	invoice, err := h.Invoices.Create(c.Request.Context(), &models.Invoice{
		Number:    req.Number,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Status:    req.Status,
		ClientID:  req.ClientID,
		ProjectID: req.ProjectID,
		CreatedBy: middleware.UserID(c),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	respondCreated(c, invoice)
}

func (h *Handlers) handleListInvoices(c *gin.Context) {
	page, perPage := pageParams(c)
	invoices, err := h.Invoices.List(c.Request.Context(), page, perPage)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, invoices)
}

func (h *Handlers) handleGetInvoice(c *gin.Context) {
	invoice, err := h.Invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, invoice)
}

type invoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handlers) handleSetInvoiceStatus(c *gin.Context) {
	var req invoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, err.Error())
		return
	}
	if err := h.Invoices.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, gin.H{"status": req.Status})
}

// handleAttachInvoicePDF accepts the rendered PDF as the raw request body and
// stores it in the invoices bucket.
func (h *Handlers) handleAttachInvoicePDF(c *gin.Context) {
	pdf, err := c.GetRawData()
	if err != nil || len(pdf) == 0 {
		apierrors.ErrorWithMessage(c, apierrors.CodeValidationFailed, "request body must contain the PDF bytes")
		return
	}
	publicURL, err := h.Invoices.AttachPDF(c.Request.Context(), c.Param("id"), pdf)
	if err != nil {
		serviceError(c, err)
		return
	}
	respondOK(c, gin.H{"pdf_url": publicURL})
}

func (h *Handlers) handleDeleteInvoice(c *gin.Context) {
	if err := h.Invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
