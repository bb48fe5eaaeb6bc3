package services

import (
	"errors"
	"fmt"

	"folio-backend/models"

	"gorm.io/gorm"
)

// SettingsService reads and updates the single company-settings row.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the seller identity. The row is seeded at migrate time, so a
// missing row is a deployment problem, not a normal state.
func (s *SettingsService) Get() (models.CompanySetting, error) {
	var settings models.CompanySetting
	err := s.DB.Order("id ASC").First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CompanySetting{}, ErrSettingsMissing
		}
		return models.CompanySetting{}, fmt.Errorf("failed to load company settings: %w", err)
	}
	return settings, nil
}

// Update overwrites the settings row.
func (s *SettingsService) Update(input models.CompanySetting) (models.CompanySetting, error) {
	settings, err := s.Get()
	if err != nil {
		return models.CompanySetting{}, err
	}
	if input.VATRate.IsNegative() {
		return models.CompanySetting{}, errors.New("invalid_vat_rate")
	}

	updates := map[string]interface{}{
		"legal_name_en":         input.LegalNameEN,
		"legal_name_ar":         input.LegalNameAR,
		"establishment_name_en": input.EstablishmentNameEN,
		"establishment_name_ar": input.EstablishmentNameAR,
		"address_en":            input.AddressEN,
		"address_ar":            input.AddressAR,
		"vat_number":            input.VATNumber,
		"cr_number":             input.CRNumber,
		"phone":                 input.Phone,
		"email":                 input.Email,
		"vat_rate":              input.VATRate,
	}
	if err := s.DB.Model(&settings).Updates(updates).Error; err != nil {
		return models.CompanySetting{}, fmt.Errorf("failed to update company settings: %w", err)
	}
	return s.Get()
}
