package models

import (
	"time"
)

type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FullName string `json:"fullName"`
	Email    string `gorm:"size:150" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`

	Nationality string `json:"nationality"`
	Address     string `gorm:"type:text" json:"address"`

	IDType   string `json:"idType"`
	IDNumber string `gorm:"size:64" json:"idNumber"`

	// Optional VAT registration for B2B stays; printed on the tax invoice when set.
	VATNumber string `gorm:"column:vat_number;size:32" json:"vatNumber,omitempty"`
}
