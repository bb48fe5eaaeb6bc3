package controllers

import (
	"errors"
	"log"
	"net/http"

	"folio-backend/services"
	"folio-backend/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceController struct {
	InvoiceSvc  *services.InvoiceService
	SettingsSvc *services.SettingsService
}

func NewInvoiceController(invoiceSvc *services.InvoiceService, settingsSvc *services.SettingsService) *InvoiceController {
	return &InvoiceController{InvoiceSvc: invoiceSvc, SettingsSvc: settingsSvc}
}

// GetByReservation (GET /api/reservations/:id/invoice) returns the issued
// invoice or 404. The create-if-missing decision belongs to the caller.
func (ctrl *InvoiceController) GetByReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := ctrl.InvoiceSvc.GetInvoice(id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		log.Printf("GetByReservation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoice"})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}

// Create (POST /api/reservations/:id/invoice) issues the tax invoice.
func (ctrl *InvoiceController) Create(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := ctrl.InvoiceSvc.CreateInvoice(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, services.ErrInvoiceExists):
			c.JSON(http.StatusConflict, gin.H{"error": "invoice already issued for this reservation"})
		case errors.Is(err, services.ErrSettingsMissing):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "company settings not configured"})
		case errors.Is(err, utils.ErrInvalidAmount):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "reservation has invalid amounts"})
		case errors.Is(err, utils.ErrPayloadTooLarge):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "qr payload field too large"})
		default:
			log.Printf("Create invoice error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invoice"})
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, invoice)
}

// MarkPaid (POST /api/invoices/:id/pay)
func (ctrl *InvoiceController) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := ctrl.InvoiceSvc.MarkPaid(id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		log.Printf("MarkPaid error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark invoice paid"})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}

// RenderHTML (GET /api/invoices/:id/html) serves the printable bilingual
// document.
func (ctrl *InvoiceController) RenderHTML(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := ctrl.InvoiceSvc.GetInvoiceByID(id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		log.Printf("RenderHTML error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoice"})
		return
	}

	settings, err := ctrl.SettingsSvc.Get()
	if err != nil {
		log.Printf("RenderHTML settings error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "company settings not configured"})
		return
	}

	doc := services.BuildInvoiceDocument(invoice, invoice.Reservation, settings)
	html, err := services.RenderInvoiceHTML(doc)
	if err != nil {
		log.Printf("RenderHTML error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render invoice"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// QRImage (GET /api/invoices/:id/qr.png) serves the ZATCA QR as a PNG.
func (ctrl *InvoiceController) QRImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := ctrl.InvoiceSvc.GetInvoiceByID(id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		log.Printf("QRImage error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoice"})
		return
	}
	if invoice.ZatcaQRCode == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice has no qr payload"})
		return
	}

	png, err := services.RenderQRPNG(invoice.ZatcaQRCode)
	if err != nil {
		log.Printf("QRImage render error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render qr image"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// VerifyQR (GET /api/invoices/:id/qr/fields) decodes the stored payload back
// into its tag/value pairs, the check a scanning app performs.
func (ctrl *InvoiceController) VerifyQR(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := ctrl.InvoiceSvc.GetInvoiceByID(id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		log.Printf("VerifyQR error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoice"})
		return
	}

	fields, err := utils.DecodeZatcaPayload(invoice.ZatcaQRCode)
	if err != nil {
		log.Printf("VerifyQR decode error: %v", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "stored payload is not valid TLV"})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, fields)
}
