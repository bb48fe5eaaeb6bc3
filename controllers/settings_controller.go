package controllers

import (
	"errors"
	"log"
	"net/http"

	"folio-backend/models"
	"folio-backend/services"
	"folio-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	SettingsSvc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{SettingsSvc: svc}
}

// GetCompanySettings (GET /api/settings/company)
func (ctrl *SettingsController) GetCompanySettings(c *gin.Context) {
	settings, err := ctrl.SettingsSvc.Get()
	if err != nil {
		if errors.Is(err, services.ErrSettingsMissing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "company settings not configured"})
			return
		}
		log.Printf("GetCompanySettings error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, settings)
}

// UpdateCompanySettings (PUT /api/settings/company)
func (ctrl *SettingsController) UpdateCompanySettings(c *gin.Context) {
	var input models.CompanySetting
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	settings, err := ctrl.SettingsSvc.Update(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSettingsMissing):
			c.JSON(http.StatusNotFound, gin.H{"error": "company settings not configured"})
		case err.Error() == "invalid_vat_rate":
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vat rate"})
		default:
			log.Printf("UpdateCompanySettings error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, settings)
}
