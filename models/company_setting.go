package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanySetting is the seller identity printed on tax invoices. A single
// row, seeded on first migrate and edited from the back office.
type CompanySetting struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LegalNameEN string `gorm:"column:legal_name_en;size:255" json:"legalNameEn"`
	LegalNameAR string `gorm:"column:legal_name_ar;size:255" json:"legalNameAr"`

	EstablishmentNameEN string `gorm:"column:establishment_name_en;size:255" json:"establishmentNameEn"`
	EstablishmentNameAR string `gorm:"column:establishment_name_ar;size:255" json:"establishmentNameAr"`

	AddressEN string `gorm:"column:address_en;type:text" json:"addressEn"`
	AddressAR string `gorm:"column:address_ar;type:text" json:"addressAr"`

	VATNumber string `gorm:"column:vat_number;size:32" json:"vatNumber"`
	CRNumber  string `gorm:"column:cr_number;size:32" json:"crNumber"`

	Phone string `gorm:"size:50" json:"phone"`
	Email string `gorm:"size:150" json:"email"`

	// Fallback VAT rate applied when a reservation carries no taxes_amount.
	VATRate decimal.Decimal `gorm:"column:vat_rate;type:decimal(6,4);not null;default:0.15" json:"vatRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
