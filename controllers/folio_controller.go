package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"folio-backend/services"
	"folio-backend/utils"

	"github.com/gin-gonic/gin"
)

type FolioController struct {
	FolioSvc *services.FolioService
}

func NewFolioController(svc *services.FolioService) *FolioController {
	return &FolioController{FolioSvc: svc}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// OpenFolio (POST /api/folios)
// Body: { "reservationId": 1, "folioType": "guest" }
func (ctrl *FolioController) OpenFolio(c *gin.Context) {
	var req struct {
		ReservationID uint   `json:"reservationId"`
		FolioType     string `json:"folioType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.ReservationID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reservationId required"})
		return
	}

	folio, err := ctrl.FolioSvc.OpenFolio(req.ReservationID, req.FolioType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, services.ErrFolioAlreadyOpen):
			c.JSON(http.StatusConflict, gin.H{"error": "folio already open"})
		default:
			log.Printf("OpenFolio error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open folio"})
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, folio)
}

// GetFolio (GET /api/folios/:id) returns the folio with its postings and
// freshly computed totals.
func (ctrl *FolioController) GetFolio(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	folio, err := ctrl.FolioSvc.GetFolio(id)
	if err != nil {
		if errors.Is(err, services.ErrFolioNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folio not found"})
			return
		}
		log.Printf("GetFolio error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load folio"})
		return
	}

	totals, err := services.ComputeFolioTotals(folio.Postings)
	if err != nil {
		log.Printf("GetFolio totals error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute totals"})
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"folio": folio, "totals": totals})
}

// AddPosting (POST /api/folios/:id/postings)
func (ctrl *FolioController) AddPosting(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.PostingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	posting, err := ctrl.FolioSvc.AddPosting(id, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFolioNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "folio not found"})
		case errors.Is(err, services.ErrFolioClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "folio is closed"})
		case errors.Is(err, services.ErrInvalidPosting):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid posting type"})
		case errors.Is(err, utils.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		default:
			log.Printf("AddPosting error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add posting"})
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, posting)
}

// ReversePosting (POST /api/postings/:id/reverse)
func (ctrl *FolioController) ReversePosting(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	posting, err := ctrl.FolioSvc.ReversePosting(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "posting not found"})
		case errors.Is(err, services.ErrAlreadyReversed):
			c.JSON(http.StatusConflict, gin.H{"error": "posting already reversed"})
		case errors.Is(err, services.ErrFolioClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "folio is closed"})
		default:
			log.Printf("ReversePosting error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reverse posting"})
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, posting)
}

// GetTotals (GET /api/folios/:id/totals)
func (ctrl *FolioController) GetTotals(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.FolioSvc.GetFolio(id); err != nil {
		if errors.Is(err, services.ErrFolioNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folio not found"})
			return
		}
		log.Printf("GetTotals error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load folio"})
		return
	}

	totals, err := ctrl.FolioSvc.GetTotals(id)
	if err != nil {
		log.Printf("GetTotals error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute totals"})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, totals)
}

// CloseFolio (POST /api/folios/:id/close)
func (ctrl *FolioController) CloseFolio(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	folio, err := ctrl.FolioSvc.CloseFolio(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFolioNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "folio not found"})
		case errors.Is(err, services.ErrFolioClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "folio already closed"})
		case errors.Is(err, services.ErrFolioNotSettled):
			c.JSON(http.StatusConflict, gin.H{"error": "folio has an outstanding balance"})
		default:
			log.Printf("CloseFolio error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close folio"})
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, folio)
}
