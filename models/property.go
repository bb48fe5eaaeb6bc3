package models

import (
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model

	NameEN string `gorm:"column:name_en;size:255" json:"nameEn"`
	NameAR string `gorm:"column:name_ar;size:255" json:"nameAr"`

	AddressEN string `gorm:"column:address_en;type:text" json:"addressEn"`
	AddressAR string `gorm:"column:address_ar;type:text" json:"addressAr"`

	City    string `gorm:"size:100" json:"city"`
	Phone   string `gorm:"size:50" json:"phone"`
	Email   string `gorm:"size:150" json:"email"`
	Website string `gorm:"size:255" json:"website"`

	Units []Unit `gorm:"foreignKey:PropertyID" json:"units,omitempty"`
}
