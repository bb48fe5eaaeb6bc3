package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a persisted tax document. Immutable once issued, except for
// PaidAt. The unique index on ReservationID guarantees a single invoice per
// reservation even under concurrent creation.
type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ReservationID uint `gorm:"column:reservation_id;uniqueIndex" json:"reservationId"`

	InvoiceNo string    `gorm:"column:invoice_no;size:32;uniqueIndex" json:"invoiceNo"`
	IssuedAt  time.Time `gorm:"column:issued_at" json:"issuedAt"`

	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:decimal(18,2);not null;default:0" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"column:tax_amount;type:decimal(18,2);not null;default:0" json:"taxAmount"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null;default:0" json:"totalAmount"`

	SellerVATNumber string `gorm:"column:seller_vat_number;size:32" json:"sellerVatNumber"`
	BuyerVATNumber  string `gorm:"column:buyer_vat_number;size:32" json:"buyerVatNumber,omitempty"`

	// Base64 TLV payload for the simplified ZATCA QR code.
	ZatcaQRCode string `gorm:"column:zatca_qr_code;type:text" json:"zatcaQrCode"`

	PaidAt *time.Time `gorm:"column:paid_at" json:"paidAt,omitempty"`

	Reservation Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
}
