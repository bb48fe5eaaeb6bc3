package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"folio-backend/models"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// InvoiceDocument is the flat view model behind the printable bilingual
// invoice. Every amount is pre-formatted to two decimal places so the
// template does no arithmetic.
type InvoiceDocument struct {
	InvoiceNo string
	IssuedAt  string

	SellerNameEN    string
	SellerNameAR    string
	SellerAddressEN string
	SellerAddressAR string
	SellerVATNumber string
	SellerCRNumber  string

	GuestName      string
	GuestAddress   string
	BuyerVATNumber string

	ReferenceCode string
	UnitName      string
	StayDates     string
	Nights        int

	NightlyRate string
	LineTotal   string
	Subtotal    string
	VATPercent  string
	TaxAmount   string
	TotalAmount string

	QRPayload  string
	QRImageURL string
}

// ComposeSellerAddress joins the establishment name and address into the
// single address line the printed header uses.
func ComposeSellerAddress(establishment, address string) string {
	establishment = strings.TrimSpace(establishment)
	address = strings.TrimSpace(address)
	switch {
	case establishment == "":
		return address
	case address == "":
		return establishment
	}
	return establishment + ", " + address
}

// BuildInvoiceDocument assembles the view model from the stored invoice and
// its joined records. Nights defaults to one so a same-day or dateless stay
// never divides by zero.
func BuildInvoiceDocument(invoice models.Invoice, reservation models.Reservation, settings models.CompanySetting) InvoiceDocument {
	nights := reservation.Nights
	if nights < 1 {
		nights = 1
	}
	nightlyRate := invoice.Subtotal.DivRound(decimal.NewFromInt(int64(nights)), 2)

	rate := settings.VATRate
	if rate.IsZero() {
		rate = DefaultVATRate
	}

	unitName := strings.TrimSpace(reservation.Unit.NameEN)
	if unitName == "" {
		unitName = strings.TrimSpace(reservation.Unit.UnitNumber)
	}
	if unitName == "" {
		unitName = "Accommodation"
	}

	stayDates := ""
	if reservation.StartDate != nil && reservation.EndDate != nil {
		stayDates = fmt.Sprintf("%s – %s",
			reservation.StartDate.Format("2006-01-02"),
			reservation.EndDate.Format("2006-01-02"))
	}

	return InvoiceDocument{
		InvoiceNo: invoice.InvoiceNo,
		IssuedAt:  invoice.IssuedAt.Format(time.RFC3339),

		SellerNameEN:    settings.LegalNameEN,
		SellerNameAR:    settings.LegalNameAR,
		SellerAddressEN: ComposeSellerAddress(settings.EstablishmentNameEN, settings.AddressEN),
		SellerAddressAR: ComposeSellerAddress(settings.EstablishmentNameAR, settings.AddressAR),
		SellerVATNumber: invoice.SellerVATNumber,
		SellerCRNumber:  settings.CRNumber,

		GuestName:      reservation.Guest.FullName,
		GuestAddress:   reservation.Guest.Address,
		BuyerVATNumber: invoice.BuyerVATNumber,

		ReferenceCode: reservation.ReferenceCode,
		UnitName:      unitName,
		StayDates:     stayDates,
		Nights:        nights,

		NightlyRate: nightlyRate.StringFixed(2),
		LineTotal:   invoice.Subtotal.StringFixed(2),
		Subtotal:    invoice.Subtotal.StringFixed(2),
		VATPercent:  rate.Mul(decimal.NewFromInt(100)).StringFixed(0),
		TaxAmount:   invoice.TaxAmount.StringFixed(2),
		TotalAmount: invoice.TotalAmount.StringFixed(2),

		QRPayload:  invoice.ZatcaQRCode,
		QRImageURL: fmt.Sprintf("/api/invoices/%d/qr.png", invoice.ID),
	}
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Tax Invoice {{.InvoiceNo}}</title>
<style>
  body { font-family: Arial, sans-serif; margin: 24px; color: #222; }
  .rtl { direction: rtl; text-align: right; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #222; padding-bottom: 12px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { border: 1px solid #999; padding: 6px 10px; text-align: left; }
  .totals td { font-weight: bold; }
  .qr { margin-top: 16px; }
</style>
</head>
<body>
  <div class="header">
    <div>
      <h2>{{.SellerNameEN}}</h2>
      <p>{{.SellerAddressEN}}</p>
      <p>VAT No: {{.SellerVATNumber}}<br>CR No: {{.SellerCRNumber}}</p>
    </div>
    <div class="rtl">
      <h2>{{.SellerNameAR}}</h2>
      <p>{{.SellerAddressAR}}</p>
      <p>الرقم الضريبي: {{.SellerVATNumber}}<br>السجل التجاري: {{.SellerCRNumber}}</p>
    </div>
  </div>

  <h3>Tax Invoice / فاتورة ضريبية</h3>
  <p>Invoice No: {{.InvoiceNo}}<br>Issued At: {{.IssuedAt}}<br>Reservation: {{.ReferenceCode}}</p>

  <p><strong>Customer / العميل:</strong> {{.GuestName}}{{if .GuestAddress}}<br>{{.GuestAddress}}{{end}}{{if .BuyerVATNumber}}<br>VAT No: {{.BuyerVATNumber}}{{end}}</p>

  <table>
    <tr><th>Description / الوصف</th><th>Nights / الليالي</th><th>Rate / السعر</th><th>Amount / المبلغ</th></tr>
    <tr><td>{{.UnitName}}{{if .StayDates}} ({{.StayDates}}){{end}}</td><td>{{.Nights}}</td><td>{{.NightlyRate}}</td><td>{{.LineTotal}}</td></tr>
  </table>

  <table class="totals">
    <tr><td>Subtotal / المجموع الفرعي</td><td>{{.Subtotal}}</td></tr>
    <tr><td>VAT {{.VATPercent}}% / ضريبة القيمة المضافة</td><td>{{.TaxAmount}}</td></tr>
    <tr><td>Total / الإجمالي</td><td>{{.TotalAmount}}</td></tr>
  </table>

  {{if .QRPayload}}<div class="qr"><img src="{{.QRImageURL}}" alt="ZATCA QR" width="160" height="160"></div>{{end}}
</body>
</html>
`))

// RenderInvoiceHTML renders the fixed bilingual layout for print and PDF
// export.
func RenderInvoiceHTML(doc InvoiceDocument) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.String(), nil
}

// RenderQRPNG delegates the stored base64 payload to the QR library. The
// payload string itself is the QR content; scanners base64-decode it.
func RenderQRPNG(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr image: %w", err)
	}
	return png, nil
}
