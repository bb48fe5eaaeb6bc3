package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"folio-backend/models"
	"folio-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrFolioNotFound    = errors.New("folio_not_found")
	ErrFolioClosed      = errors.New("folio_closed")
	ErrFolioNotSettled  = errors.New("folio_not_settled")
	ErrMissingFolio     = errors.New("missing_folio")
	ErrPostingNotFound  = errors.New("posting_not_found")
	ErrAlreadyReversed  = errors.New("posting_already_reversed")
	ErrInvalidPosting   = errors.New("invalid_posting_type")
	ErrFolioAlreadyOpen = errors.New("folio_already_open")
)

// FolioTotals is the aggregate view of one folio's ledger.
type FolioTotals struct {
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Balance      decimal.Decimal `json:"balance"`
}

// ComputeFolioTotals sums a folio's postings. Charges and adjustments are
// debit-like and carry their tax; payments and refunds are credit-like and
// carry none. Reversed rows stay out of both sides. Order of the slice does
// not affect the result.
func ComputeFolioTotals(postings []models.FolioPosting) (FolioTotals, error) {
	totals := FolioTotals{
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		Balance:      decimal.Zero,
	}

	for _, p := range postings {
		if !p.PostingType.Valid() {
			return FolioTotals{}, fmt.Errorf("posting %d has type %q: %w", p.ID, p.PostingType, ErrInvalidPosting)
		}
		if p.Amount.IsNegative() || p.TaxAmount.IsNegative() {
			return FolioTotals{}, fmt.Errorf("posting %d: %w", p.ID, utils.ErrInvalidAmount)
		}
		if p.IsReversed {
			continue
		}
		if p.PostingType.IsDebit() {
			totals.TotalDebits = totals.TotalDebits.Add(p.Amount).Add(p.TaxAmount)
		} else {
			totals.TotalCredits = totals.TotalCredits.Add(p.Amount)
		}
	}

	totals.Balance = totals.TotalDebits.Sub(totals.TotalCredits)
	return totals, nil
}

// ComputeTotalsForFolio guards the nil-folio caller error before summing.
func ComputeTotalsForFolio(folio *models.Folio) (FolioTotals, error) {
	if folio == nil {
		return FolioTotals{}, ErrMissingFolio
	}
	return ComputeFolioTotals(folio.Postings)
}

// PostingInput is the request shape for adding a ledger line.
type PostingInput struct {
	Description string          `json:"description"`
	PostingType string          `json:"postingType"`
	Amount      decimal.Decimal `json:"amount"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Reference   string          `json:"reference"`
}

// FolioService wraps *gorm.DB for folio lifecycle and posting writes.
type FolioService struct {
	DB *gorm.DB
}

func NewFolioService(db *gorm.DB) *FolioService {
	return &FolioService{DB: db}
}

func generateFolioNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "F-" + id[:10]
}

// OpenFolio creates an open folio for a reservation. A reservation may carry
// several folios (e.g. a separate incidentals folio), but only one open one
// of each type.
func (s *FolioService) OpenFolio(reservationID uint, folioType string) (models.Folio, error) {
	var reservation models.Reservation
	if err := s.DB.First(&reservation, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Folio{}, ErrReservationNotFound
		}
		return models.Folio{}, fmt.Errorf("failed to load reservation: %w", err)
	}

	if folioType == "" {
		folioType = "guest"
	}

	var existing models.Folio
	err := s.DB.Where("reservation_id = ? AND folio_type = ? AND status = ?",
		reservationID, folioType, models.FolioOpen).First(&existing).Error
	if err == nil {
		return models.Folio{}, ErrFolioAlreadyOpen
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Folio{}, fmt.Errorf("failed to check open folios: %w", err)
	}

	folio := models.Folio{
		ReservationID: reservationID,
		FolioType:     folioType,
		Status:        models.FolioOpen,
		Balance:       decimal.Zero,
	}

	// Retry on the (unlikely) folio number collision, like reference codes.
	var createErr error
	for attempt := 0; attempt < 5; attempt++ {
		folio.FolioNumber = generateFolioNumber()
		createErr = s.DB.Create(&folio).Error
		if createErr == nil {
			return folio, nil
		}
		lc := strings.ToLower(createErr.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			log.Printf("folio number collision (attempt %d) - retrying", attempt+1)
			continue
		}
		return models.Folio{}, fmt.Errorf("failed to create folio: %w", createErr)
	}
	return models.Folio{}, fmt.Errorf("failed to create folio after retries: %w", createErr)
}

// GetFolio loads a folio with its postings in insertion order.
func (s *FolioService) GetFolio(id uint) (models.Folio, error) {
	var folio models.Folio
	err := s.DB.
		Preload("Postings", func(db *gorm.DB) *gorm.DB { return db.Order("folio_postings.id ASC") }).
		Preload("Reservation.Guest").
		First(&folio, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Folio{}, ErrFolioNotFound
		}
		return models.Folio{}, fmt.Errorf("failed to load folio: %w", err)
	}
	return folio, nil
}

// ListFoliosByReservation returns every folio attached to a reservation.
func (s *FolioService) ListFoliosByReservation(reservationID uint) ([]models.Folio, error) {
	var folios []models.Folio
	err := s.DB.Where("reservation_id = ?", reservationID).Order("id ASC").Find(&folios).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list folios: %w", err)
	}
	return folios, nil
}

// AddPosting appends a ledger line to an open folio and refreshes the cached
// balance. Amounts must be non-negative; direction comes from the posting
// type, never from a sign.
func (s *FolioService) AddPosting(folioID uint, input PostingInput) (models.FolioPosting, error) {
	postingType := models.PostingType(strings.ToLower(strings.TrimSpace(input.PostingType)))
	if !postingType.Valid() {
		return models.FolioPosting{}, ErrInvalidPosting
	}
	if input.Amount.IsNegative() || input.TaxAmount.IsNegative() {
		return models.FolioPosting{}, utils.ErrInvalidAmount
	}
	if !postingType.IsDebit() && !input.TaxAmount.IsZero() {
		// Credit-like rows have no tax component.
		return models.FolioPosting{}, utils.ErrInvalidAmount
	}

	var folio models.Folio
	if err := s.DB.First(&folio, folioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FolioPosting{}, ErrFolioNotFound
		}
		return models.FolioPosting{}, fmt.Errorf("failed to load folio: %w", err)
	}
	if folio.Status == models.FolioClosed {
		return models.FolioPosting{}, ErrFolioClosed
	}

	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		reference = uuid.NewString()
	}

	posting := models.FolioPosting{
		FolioID:     folioID,
		PostingDate: time.Now().UTC(),
		Description: strings.TrimSpace(input.Description),
		PostingType: postingType,
		Amount:      input.Amount.Round(2),
		TaxAmount:   input.TaxAmount.Round(2),
		Reference:   reference,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&posting).Error; err != nil {
			return fmt.Errorf("failed to create posting: %w", err)
		}
		return refreshFolioBalance(tx, folioID)
	})
	if err != nil {
		return models.FolioPosting{}, err
	}
	return posting, nil
}

// ReversePosting flags a posting as reversed and refreshes the folio
// balance. The row stays on the folio for the audit trail.
func (s *FolioService) ReversePosting(postingID uint) (models.FolioPosting, error) {
	var posting models.FolioPosting
	if err := s.DB.First(&posting, postingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FolioPosting{}, ErrPostingNotFound
		}
		return models.FolioPosting{}, fmt.Errorf("failed to load posting: %w", err)
	}
	if posting.IsReversed {
		return models.FolioPosting{}, ErrAlreadyReversed
	}

	var folio models.Folio
	if err := s.DB.First(&folio, posting.FolioID).Error; err != nil {
		return models.FolioPosting{}, fmt.Errorf("failed to load folio: %w", err)
	}
	if folio.Status == models.FolioClosed {
		return models.FolioPosting{}, ErrFolioClosed
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&posting).Update("is_reversed", true).Error; err != nil {
			return fmt.Errorf("failed to reverse posting: %w", err)
		}
		return refreshFolioBalance(tx, posting.FolioID)
	})
	if err != nil {
		return models.FolioPosting{}, err
	}
	posting.IsReversed = true
	return posting, nil
}

// GetTotals recomputes totals from the stored postings.
func (s *FolioService) GetTotals(folioID uint) (FolioTotals, error) {
	var postings []models.FolioPosting
	err := s.DB.Where("folio_id = ?", folioID).Order("id ASC").Find(&postings).Error
	if err != nil {
		return FolioTotals{}, fmt.Errorf("failed to load postings: %w", err)
	}
	return ComputeFolioTotals(postings)
}

// CloseFolio settles a folio. Only a zero-balance folio can close.
func (s *FolioService) CloseFolio(id uint) (models.Folio, error) {
	var folio models.Folio
	if err := s.DB.First(&folio, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Folio{}, ErrFolioNotFound
		}
		return models.Folio{}, fmt.Errorf("failed to load folio: %w", err)
	}
	if folio.Status == models.FolioClosed {
		return models.Folio{}, ErrFolioClosed
	}

	totals, err := s.GetTotals(id)
	if err != nil {
		return models.Folio{}, err
	}
	if !totals.Balance.IsZero() {
		return models.Folio{}, ErrFolioNotSettled
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":    models.FolioClosed,
		"balance":   decimal.Zero,
		"closed_at": &now,
	}
	if err := s.DB.Model(&folio).Updates(updates).Error; err != nil {
		return models.Folio{}, fmt.Errorf("failed to close folio: %w", err)
	}
	folio.Status = models.FolioClosed
	folio.Balance = decimal.Zero
	folio.ClosedAt = &now
	return folio, nil
}

func refreshFolioBalance(tx *gorm.DB, folioID uint) error {
	var postings []models.FolioPosting
	if err := tx.Where("folio_id = ?", folioID).Find(&postings).Error; err != nil {
		return fmt.Errorf("failed to load postings for balance: %w", err)
	}
	totals, err := ComputeFolioTotals(postings)
	if err != nil {
		return err
	}
	if err := tx.Model(&models.Folio{}).Where("id = ?", folioID).
		Update("balance", totals.Balance).Error; err != nil {
		return fmt.Errorf("failed to update folio balance: %w", err)
	}
	return nil
}
