package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FolioStatus is the lifecycle state of a guest folio.
type FolioStatus string

const (
	FolioOpen   FolioStatus = "open"
	FolioClosed FolioStatus = "closed"
)

func (s FolioStatus) Valid() bool {
	switch s {
	case FolioOpen, FolioClosed:
		return true
	}
	return false
}

// PostingType classifies a ledger line. Charges and adjustments are
// debit-like; payments and refunds are credit-like.
type PostingType string

const (
	PostingCharge     PostingType = "charge"
	PostingAdjustment PostingType = "adjustment"
	PostingPayment    PostingType = "payment"
	PostingRefund     PostingType = "refund"
)

func (t PostingType) Valid() bool {
	switch t {
	case PostingCharge, PostingAdjustment, PostingPayment, PostingRefund:
		return true
	}
	return false
}

// IsDebit reports whether the posting type increases the guest's balance.
func (t PostingType) IsDebit() bool {
	switch t {
	case PostingCharge, PostingAdjustment:
		return true
	case PostingPayment, PostingRefund:
		return false
	}
	return false
}

func (t PostingType) Label() string {
	switch t {
	case PostingCharge:
		return "Charge"
	case PostingAdjustment:
		return "Adjustment"
	case PostingPayment:
		return "Payment"
	case PostingRefund:
		return "Refund"
	}
	return "Unknown"
}

// Folio is a guest's running account for one stay. Balance is a cached
// value recomputed from the postings after every write.
type Folio struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReservationID uint   `gorm:"index;column:reservation_id" json:"reservationId"`
	FolioNumber   string `gorm:"column:folio_number;size:64;uniqueIndex" json:"folioNumber"`
	FolioType     string `gorm:"column:folio_type;size:32;default:guest" json:"folioType"`

	Status  FolioStatus     `gorm:"column:status;size:16;default:open" json:"status"`
	Balance decimal.Decimal `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`

	ClosedAt *time.Time `gorm:"column:closed_at" json:"closedAt,omitempty"`

	Reservation Reservation    `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	Postings    []FolioPosting `gorm:"foreignKey:FolioID" json:"postings,omitempty"`
}

// FolioPosting is one ledger line. Immutable once created except for the
// reversal flag; reversed rows stay on the folio for audit but are excluded
// from totals.
type FolioPosting struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FolioID uint `gorm:"index;column:folio_id" json:"folioId"`

	PostingDate time.Time   `gorm:"column:posting_date" json:"postingDate"`
	Description string      `gorm:"type:text" json:"description"`
	PostingType PostingType `gorm:"column:posting_type;size:16" json:"postingType"`

	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null;default:0" json:"amount"`
	TaxAmount decimal.Decimal `gorm:"column:tax_amount;type:decimal(18,2);not null;default:0" json:"taxAmount"`

	Reference  string `gorm:"size:64" json:"reference"`
	IsReversed bool   `gorm:"column:is_reversed;default:false" json:"isReversed"`
}
