package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"folio-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrReservationNotFound = errors.New("reservation_not_found")
	ErrMissingReservation  = errors.New("missing_reservation")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
	ErrOutstandingBalance  = errors.New("outstanding_balance")
	ErrInvalidStayDates    = errors.New("invalid_stay_dates")
)

// ReservationService wraps *gorm.DB for reservation lifecycle.
type ReservationService struct {
	DB *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

// ReservationInput is the create-request shape.
type ReservationInput struct {
	GuestID     uint            `json:"guestId"`
	UnitID      *uint           `json:"unitId"`
	StartDate   *time.Time      `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
	Adults      int             `json:"adults"`
	Children    int             `json:"children"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TaxesAmount decimal.Decimal `json:"taxesAmount"`
	FeesAmount  decimal.Decimal `json:"feesAmount"`

	// Accompanying guests as submitted by the booking form.
	GuestDetails datatypes.JSON `json:"guestDetails"`
}

// NightsBetween counts whole nights between two dates. Degenerate ranges
// count as zero, not an error; rendering guards the divisor separately.
func NightsBetween(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	nights := int(end.Sub(*start).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}

func generateReferenceCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "RSV-" + id[:8]
}

// Create stores a pending reservation.
func (s *ReservationService) Create(input ReservationInput) (models.Reservation, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, input.GuestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Reservation{}, errors.New("guest_not_found")
		}
		return models.Reservation{}, fmt.Errorf("failed to load guest: %w", err)
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return models.Reservation{}, ErrInvalidStayDates
	}

	adults := input.Adults
	if adults <= 0 {
		adults = 1
	}

	reservation := models.Reservation{
		GuestID:       input.GuestID,
		UnitID:        input.UnitID,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Nights:        NightsBetween(input.StartDate, input.EndDate),
		Adults:        adults,
		Children:      input.Children,
		TotalAmount:   input.TotalAmount.Round(2),
		TaxesAmount:   input.TaxesAmount.Round(2),
		FeesAmount:    input.FeesAmount.Round(2),
		Status:        models.ReservationPending,
		PaymentStatus: models.PaymentPending,
		GuestDetails:  input.GuestDetails,
	}

	var createErr error
	for attempt := 0; attempt < 5; attempt++ {
		reservation.ReferenceCode = generateReferenceCode()
		createErr = s.DB.Create(&reservation).Error
		if createErr == nil {
			return reservation, nil
		}
		lc := strings.ToLower(createErr.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			log.Printf("reference code collision (attempt %d) - retrying", attempt+1)
			continue
		}
		return models.Reservation{}, fmt.Errorf("failed to create reservation: %w", createErr)
	}
	return models.Reservation{}, fmt.Errorf("failed to create reservation after retries: %w", createErr)
}

// GetByID loads a reservation with its guest and unit.
func (s *ReservationService) GetByID(id uint) (models.Reservation, error) {
	var reservation models.Reservation
	err := s.DB.Preload("Guest").Preload("Unit.UnitType").First(&reservation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Reservation{}, ErrReservationNotFound
		}
		return models.Reservation{}, fmt.Errorf("failed to load reservation: %w", err)
	}
	return reservation, nil
}

// List returns reservations, optionally filtered by status.
func (s *ReservationService) List(status string) ([]models.Reservation, error) {
	q := s.DB.Preload("Guest").Order("id DESC")
	if strings.TrimSpace(status) != "" {
		st := models.ReservationStatus(strings.ToLower(strings.TrimSpace(status)))
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		q = q.Where("status = ?", st)
	}
	var reservations []models.Reservation
	if err := q.Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// allowedTransitions is the closed transition table for the stay lifecycle.
var allowedTransitions = map[models.ReservationStatus][]models.ReservationStatus{
	models.ReservationPending:    {models.ReservationConfirmed, models.ReservationCancelled, models.ReservationNoShow},
	models.ReservationConfirmed:  {models.ReservationCheckedIn, models.ReservationCancelled, models.ReservationNoShow},
	models.ReservationCheckedIn:  {models.ReservationCheckedOut},
	models.ReservationCheckedOut: {},
	models.ReservationCancelled:  {},
	models.ReservationNoShow:     {},
}

func transitionAllowed(from, to models.ReservationStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves a reservation to a new status. Confirming opens the guest
// folio; checking out requires every folio to be settled and closed.
func (s *ReservationService) Transition(id uint, to models.ReservationStatus, folios *FolioService) (models.Reservation, error) {
	if !to.Valid() {
		return models.Reservation{}, ErrInvalidStatus
	}

	reservation, err := s.GetByID(id)
	if err != nil {
		return models.Reservation{}, err
	}
	if !transitionAllowed(reservation.Status, to) {
		return models.Reservation{}, ErrInvalidTransition
	}

	if to == models.ReservationCheckedOut {
		open, err := folios.ListFoliosByReservation(id)
		if err != nil {
			return models.Reservation{}, err
		}
		for _, f := range open {
			if f.Status == models.FolioOpen {
				totals, err := folios.GetTotals(f.ID)
				if err != nil {
					return models.Reservation{}, err
				}
				if !totals.Balance.IsZero() {
					return models.Reservation{}, ErrOutstandingBalance
				}
				if _, err := folios.CloseFolio(f.ID); err != nil {
					return models.Reservation{}, err
				}
			}
		}
	}

	if err := s.DB.Model(&reservation).Update("status", to).Error; err != nil {
		return models.Reservation{}, fmt.Errorf("failed to update status: %w", err)
	}
	reservation.Status = to

	if to == models.ReservationConfirmed {
		if _, err := folios.OpenFolio(id, "guest"); err != nil && !errors.Is(err, ErrFolioAlreadyOpen) {
			log.Printf("could not open folio for reservation %d: %v", id, err)
		}
	}

	return reservation, nil
}

// SetPaymentStatus updates the settlement flag on a reservation.
func (s *ReservationService) SetPaymentStatus(id uint, status models.PaymentStatus) (models.Reservation, error) {
	if !status.Valid() {
		return models.Reservation{}, ErrInvalidStatus
	}
	reservation, err := s.GetByID(id)
	if err != nil {
		return models.Reservation{}, err
	}
	if err := s.DB.Model(&reservation).Update("payment_status", status).Error; err != nil {
		return models.Reservation{}, fmt.Errorf("failed to update payment status: %w", err)
	}
	reservation.PaymentStatus = status
	return reservation, nil
}
