package services

import (
	"strings"
	"testing"
	"time"

	"folio-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSettings() models.CompanySetting {
	return models.CompanySetting{
		LegalNameEN:         "Awi Almakan Est.",
		LegalNameAR:         "مؤسسة أوي المكان",
		EstablishmentNameEN: "Awi Almakan Furnished Units",
		EstablishmentNameAR: "أوي المكان للوحدات المفروشة",
		AddressEN:           "King Fahd Road, Riyadh",
		AddressAR:           "طريق الملك فهد، الرياض",
		VATNumber:           "310231928400003",
		CRNumber:            "1010000000",
		VATRate:             d("0.15"),
	}
}

func sampleInvoice() models.Invoice {
	return models.Invoice{
		ID:              7,
		InvoiceNo:       "INV-202401-AB12CD",
		IssuedAt:        time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Subtotal:        d("1000.00"),
		TaxAmount:       d("150.00"),
		TotalAmount:     d("1150.00"),
		SellerVATNumber: "310231928400003",
		ZatcaQRCode:     "AQdUZXN0IENv",
	}
}

func TestBuildInvoiceDocumentAmountsFormatted(t *testing.T) {
	reservation := models.Reservation{
		ReferenceCode: "RSV-TEST0001",
		Nights:        4,
		Guest:         models.Guest{FullName: "Khalid Al Saud"},
		Unit:          models.Unit{NameEN: "Deluxe Studio"},
	}

	doc := BuildInvoiceDocument(sampleInvoice(), reservation, sampleSettings())

	assert.Equal(t, "1000.00", doc.Subtotal)
	assert.Equal(t, "150.00", doc.TaxAmount)
	assert.Equal(t, "1150.00", doc.TotalAmount)
	assert.Equal(t, "250.00", doc.NightlyRate)
	assert.Equal(t, doc.Subtotal, doc.LineTotal)
	assert.Equal(t, "15", doc.VATPercent)
	assert.Equal(t, 4, doc.Nights)
}

func TestBuildInvoiceDocumentZeroNightsGuard(t *testing.T) {
	for _, nights := range []int{0, -3} {
		reservation := models.Reservation{Nights: nights}
		doc := BuildInvoiceDocument(sampleInvoice(), reservation, sampleSettings())
		assert.Equal(t, 1, doc.Nights)
		assert.Equal(t, "1000.00", doc.NightlyRate)
	}
}

func TestBuildInvoiceDocumentQRImageURL(t *testing.T) {
	doc := BuildInvoiceDocument(sampleInvoice(), models.Reservation{}, sampleSettings())
	assert.Equal(t, "/api/invoices/7/qr.png", doc.QRImageURL)
}

func TestComposeSellerAddress(t *testing.T) {
	assert.Equal(t, "Awi Almakan, Riyadh", ComposeSellerAddress("Awi Almakan", "Riyadh"))
	assert.Equal(t, "Riyadh", ComposeSellerAddress("", "Riyadh"))
	assert.Equal(t, "Awi Almakan", ComposeSellerAddress("Awi Almakan", "  "))
	assert.Equal(t, "", ComposeSellerAddress("", ""))
}

func TestRenderInvoiceHTMLContainsFields(t *testing.T) {
	reservation := models.Reservation{
		ReferenceCode: "RSV-TEST0001",
		Nights:        4,
		Guest:         models.Guest{FullName: "Khalid Al Saud"},
		Unit:          models.Unit{NameEN: "Deluxe Studio"},
	}
	doc := BuildInvoiceDocument(sampleInvoice(), reservation, sampleSettings())

	html, err := RenderInvoiceHTML(doc)
	require.NoError(t, err)

	for _, want := range []string{
		"INV-202401-AB12CD",
		"Khalid Al Saud",
		"Deluxe Studio",
		"1000.00",
		"150.00",
		"1150.00",
		"250.00",
		"مؤسسة أوي المكان",
		"310231928400003",
		"/api/invoices/7/qr.png",
	} {
		assert.True(t, strings.Contains(html, want), "rendered html missing %q", want)
	}
}

func TestRenderInvoiceHTMLOmitsQRWhenAbsent(t *testing.T) {
	invoice := sampleInvoice()
	invoice.ZatcaQRCode = ""
	doc := BuildInvoiceDocument(invoice, models.Reservation{}, sampleSettings())

	html, err := RenderInvoiceHTML(doc)
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<img"))
}

func TestRenderQRPNG(t *testing.T) {
	png, err := RenderQRPNG("AQdUZXN0IENv")
	require.NoError(t, err)
	// PNG magic bytes.
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
