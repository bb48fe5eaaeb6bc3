package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UnitType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TypeName    string `gorm:"size:100" json:"typeName"`
	Description string `gorm:"type:text" json:"description"`
	MaxGuests   int    `json:"maxGuests"`
}

type Unit struct {
	gorm.Model

	PropertyID *uint `gorm:"index;column:property_id" json:"propertyId,omitempty"`
	UnitTypeID *uint `gorm:"column:unit_type_id" json:"unitTypeId,omitempty"`

	UnitNumber string `json:"unitNumber" gorm:"column:unit_number;uniqueIndex;type:varchar(50)"`
	UnitCode   string `json:"unitCode"   gorm:"column:unit_code;type:varchar(50)"`

	NameEN string `gorm:"column:name_en;size:255" json:"nameEn"`
	NameAR string `gorm:"column:name_ar;size:255" json:"nameAr"`

	Status       string          `json:"status"`
	Floor        string          `json:"floor" gorm:"type:varchar(10)"`
	NightlyRate  decimal.Decimal `json:"nightlyRate" gorm:"column:nightly_rate;type:decimal(18,2);not null;default:0"`
	MaxOccupancy int             `json:"maxOccupancy" gorm:"column:max_occupancy"`
	Description  string          `json:"description" gorm:"type:text"`

	UnitType UnitType `gorm:"foreignKey:UnitTypeID" json:"unitType,omitempty"`
}
