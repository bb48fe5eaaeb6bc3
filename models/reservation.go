package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReservationStatus is the stay lifecycle state.
type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationNoShow     ReservationStatus = "no_show"
)

// Valid reports whether s is one of the known statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCheckedOut, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// Label returns the display text for the status. The switch is exhaustive
// so a new status without a label fails loudly in tests.
func (s ReservationStatus) Label() string {
	switch s {
	case ReservationPending:
		return "Pending"
	case ReservationConfirmed:
		return "Confirmed"
	case ReservationCheckedIn:
		return "Checked In"
	case ReservationCheckedOut:
		return "Checked Out"
	case ReservationCancelled:
		return "Cancelled"
	case ReservationNoShow:
		return "No Show"
	}
	return "Unknown"
}

// PaymentStatus tracks settlement of a reservation's charges.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

func (s PaymentStatus) Label() string {
	switch s {
	case PaymentPending:
		return "Pending"
	case PaymentPartial:
		return "Partially Paid"
	case PaymentPaid:
		return "Paid"
	case PaymentRefunded:
		return "Refunded"
	case PaymentFailed:
		return "Failed"
	}
	return "Unknown"
}

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`

	GuestID uint  `gorm:"index;column:guest_id" json:"guestId"`
	UnitID  *uint `gorm:"index;column:unit_id" json:"unitId,omitempty"`

	StartDate *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`
	Nights    int        `gorm:"column:nights" json:"nights"`

	Adults   int `gorm:"column:adults;default:1" json:"adults"`
	Children int `gorm:"column:children;default:0" json:"children"`

	// Financial fields are immutable by convention once an invoice is issued.
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null;default:0" json:"totalAmount"`
	TaxesAmount decimal.Decimal `gorm:"column:taxes_amount;type:decimal(18,2);not null;default:0" json:"taxesAmount"`
	FeesAmount  decimal.Decimal `gorm:"column:fees_amount;type:decimal(18,2);not null;default:0" json:"feesAmount"`

	Status        ReservationStatus `gorm:"column:status;size:32;default:pending" json:"status"`
	PaymentStatus PaymentStatus     `gorm:"column:payment_status;size:32;default:pending" json:"paymentStatus"`

	GuestDetails datatypes.JSON `gorm:"column:guest_details" json:"guestDetails,omitempty"`

	Guest Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Unit  Unit  `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}
