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
	ErrInvoiceNotFound = errors.New("invoice_not_found")
	ErrInvoiceExists   = errors.New("invoice_already_exists")
	ErrSettingsMissing = errors.New("company_settings_missing")
)

// DefaultVATRate is the KSA flat rate used when settings carry no rate.
var DefaultVATRate = decimal.NewFromFloat(0.15)

// InvoiceAmounts is the derived monetary triple persisted onto an invoice.
type InvoiceAmounts struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// DeriveInvoiceAmounts splits a reservation's total into subtotal and tax.
// When the reservation carries no taxes_amount the fallback rate applies to
// the subtotal. A zero-total reservation (a comped stay) derives all zeros;
// only a nil reservation is a caller error.
func DeriveInvoiceAmounts(reservation *models.Reservation, fallbackRate decimal.Decimal) (InvoiceAmounts, error) {
	if reservation == nil {
		return InvoiceAmounts{}, ErrMissingReservation
	}
	if reservation.TotalAmount.IsNegative() || reservation.TaxesAmount.IsNegative() {
		return InvoiceAmounts{}, utils.ErrInvalidAmount
	}
	if fallbackRate.IsNegative() {
		return InvoiceAmounts{}, utils.ErrInvalidAmount
	}

	if reservation.TotalAmount.IsZero() {
		return InvoiceAmounts{
			Subtotal:    decimal.Zero,
			TaxAmount:   decimal.Zero,
			TotalAmount: decimal.Zero,
		}, nil
	}

	subtotal := reservation.TotalAmount.Sub(reservation.TaxesAmount)
	taxAmount := reservation.TaxesAmount
	if taxAmount.IsZero() {
		taxAmount = subtotal.Mul(fallbackRate).Round(2)
	}

	return InvoiceAmounts{
		Subtotal:    subtotal,
		TaxAmount:   taxAmount,
		TotalAmount: subtotal.Add(taxAmount),
	}, nil
}

// InvoiceService issues and fetches tax invoices.
type InvoiceService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewInvoiceService(db *gorm.DB, settings *SettingsService) *InvoiceService {
	return &InvoiceService{DB: db, Settings: settings}
}

func generateInvoiceNumber(issuedAt time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("INV-%s-%s", issuedAt.Format("200601"), id[:6])
}

// GetInvoice returns the invoice issued for a reservation, or
// ErrInvoiceNotFound. The generate-if-missing branch lives with the caller.
func (s *InvoiceService) GetInvoice(reservationID uint) (models.Invoice, error) {
	var invoice models.Invoice
	err := s.DB.Preload("Reservation.Guest").Preload("Reservation.Unit.UnitType").
		Where("reservation_id = ?", reservationID).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Invoice{}, ErrInvoiceNotFound
		}
		return models.Invoice{}, fmt.Errorf("failed to load invoice: %w", err)
	}
	return invoice, nil
}

// GetInvoiceByID loads an invoice by its own key.
func (s *InvoiceService) GetInvoiceByID(id uint) (models.Invoice, error) {
	var invoice models.Invoice
	err := s.DB.Preload("Reservation.Guest").Preload("Reservation.Unit.UnitType").
		First(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Invoice{}, ErrInvoiceNotFound
		}
		return models.Invoice{}, fmt.Errorf("failed to load invoice: %w", err)
	}
	return invoice, nil
}

// CreateInvoice derives amounts from the reservation, encodes the ZATCA
// payload and persists the invoice. The unique index on reservation_id turns
// a concurrent double-create into ErrInvoiceExists instead of a second row.
func (s *InvoiceService) CreateInvoice(reservationID uint) (models.Invoice, error) {
	var reservation models.Reservation
	err := s.DB.Preload("Guest").First(&reservation, reservationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Invoice{}, ErrReservationNotFound
		}
		return models.Invoice{}, fmt.Errorf("failed to load reservation: %w", err)
	}

	settings, err := s.Settings.Get()
	if err != nil {
		return models.Invoice{}, err
	}

	rate := settings.VATRate
	if rate.IsZero() {
		rate = DefaultVATRate
	}
	amounts, err := DeriveInvoiceAmounts(&reservation, rate)
	if err != nil {
		return models.Invoice{}, err
	}

	issuedAt := time.Now().UTC()
	payload, err := utils.EncodeZatcaPayload(
		settings.LegalNameAR,
		settings.VATNumber,
		issuedAt.Format(time.RFC3339),
		amounts.TotalAmount,
		amounts.TaxAmount,
	)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("failed to encode qr payload: %w", err)
	}

	invoice := models.Invoice{
		ReservationID:   reservationID,
		IssuedAt:        issuedAt,
		Subtotal:        amounts.Subtotal,
		TaxAmount:       amounts.TaxAmount,
		TotalAmount:     amounts.TotalAmount,
		SellerVATNumber: settings.VATNumber,
		BuyerVATNumber:  reservation.Guest.VATNumber,
		ZatcaQRCode:     payload,
	}

	var createErr error
	for attempt := 0; attempt < 5; attempt++ {
		invoice.InvoiceNo = generateInvoiceNumber(issuedAt)
		createErr = s.DB.Create(&invoice).Error
		if createErr == nil {
			return invoice, nil
		}
		lc := strings.ToLower(createErr.Error())
		if strings.Contains(lc, "reservation_id") {
			// Lost the race with another session; the stored invoice wins.
			return models.Invoice{}, ErrInvoiceExists
		}
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			log.Printf("invoice number collision (attempt %d) - retrying", attempt+1)
			continue
		}
		return models.Invoice{}, fmt.Errorf("failed to create invoice: %w", createErr)
	}
	return models.Invoice{}, fmt.Errorf("failed to create invoice after retries: %w", createErr)
}

// MarkPaid stamps paid_at, the one mutation an issued invoice allows.
func (s *InvoiceService) MarkPaid(invoiceID uint) (models.Invoice, error) {
	invoice, err := s.GetInvoiceByID(invoiceID)
	if err != nil {
		return models.Invoice{}, err
	}
	if invoice.PaidAt != nil {
		return invoice, nil
	}
	now := time.Now().UTC()
	if err := s.DB.Model(&invoice).Update("paid_at", &now).Error; err != nil {
		return models.Invoice{}, fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	invoice.PaidAt = &now
	return invoice, nil
}
