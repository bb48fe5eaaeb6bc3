package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"folio-backend/models"
	"folio-backend/services"
	"folio-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	ReservationSvc *services.ReservationService
	FolioSvc       *services.FolioService
}

func NewReservationController(resSvc *services.ReservationService, folioSvc *services.FolioService) *ReservationController {
	return &ReservationController{ReservationSvc: resSvc, FolioSvc: folioSvc}
}

// Create (POST /api/reservations)
func (ctrl *ReservationController) Create(c *gin.Context) {
	var input services.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	reservation, err := ctrl.ReservationSvc.Create(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStayDates):
			c.JSON(http.StatusBadRequest, gin.H{"error": "check-out precedes check-in"})
		case err.Error() == "guest_not_found":
			c.JSON(http.StatusNotFound, gin.H{"error": "guest not found"})
		default:
			log.Printf("Create reservation error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reservation"})
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, reservation)
}

// List (GET /api/reservations?status=confirmed)
func (ctrl *ReservationController) List(c *gin.Context) {
	reservations, err := ctrl.ReservationSvc.List(c.Query("status"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		log.Printf("List reservations error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reservations"})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservations)
}

// Get (GET /api/reservations/:id)
func (ctrl *ReservationController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := ctrl.ReservationSvc.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
			return
		}
		log.Printf("Get reservation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reservation"})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}

// Folios (GET /api/reservations/:id/folios)
func (ctrl *ReservationController) Folios(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.ReservationSvc.GetByID(id); err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
			return
		}
		log.Printf("Folios error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reservation"})
		return
	}

	folios, err := ctrl.FolioSvc.ListFoliosByReservation(id)
	if err != nil {
		log.Printf("Folios error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list folios"})
		return
	}
	utils.JSONSuccess(c, http.StatusOK, folios)
}

// Transition (POST /api/reservations/:id/status)
// Body: { "status": "confirmed" }
func (ctrl *ReservationController) Transition(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	to := models.ReservationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	reservation, err := ctrl.ReservationSvc.Transition(id, to, ctrl.FolioSvc)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "transition not allowed from current status"})
		case errors.Is(err, services.ErrOutstandingBalance):
			c.JSON(http.StatusConflict, gin.H{"error": "folio has an outstanding balance"})
		default:
			log.Printf("Transition error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservation)
}
