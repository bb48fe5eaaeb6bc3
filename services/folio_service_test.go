package services

import (
	"testing"

	"folio-backend/models"
	"folio-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func posting(id uint, t models.PostingType, amount, tax string, reversed bool) models.FolioPosting {
	return models.FolioPosting{
		ID:          id,
		PostingType: t,
		Amount:      d(amount),
		TaxAmount:   d(tax),
		IsReversed:  reversed,
	}
}

func TestComputeFolioTotalsEmpty(t *testing.T) {
	totals, err := ComputeFolioTotals(nil)
	require.NoError(t, err)
	assert.True(t, totals.TotalDebits.IsZero())
	assert.True(t, totals.TotalCredits.IsZero())
	assert.True(t, totals.Balance.IsZero())
}

func TestComputeFolioTotalsMixedLedger(t *testing.T) {
	postings := []models.FolioPosting{
		posting(1, models.PostingCharge, "400.00", "60.00", false),
		posting(2, models.PostingAdjustment, "50.00", "7.50", false),
		posting(3, models.PostingPayment, "300.00", "0", false),
		posting(4, models.PostingRefund, "25.00", "0", false),
	}

	totals, err := ComputeFolioTotals(postings)
	require.NoError(t, err)

	// Debits include tax; credits do not carry one.
	assert.Equal(t, "517.50", totals.TotalDebits.StringFixed(2))
	assert.Equal(t, "325.00", totals.TotalCredits.StringFixed(2))
	assert.Equal(t, "192.50", totals.Balance.StringFixed(2))
	assert.True(t, totals.Balance.Equal(totals.TotalDebits.Sub(totals.TotalCredits)))
}

func TestComputeFolioTotalsReversalExcluded(t *testing.T) {
	postings := []models.FolioPosting{
		posting(1, models.PostingCharge, "100.00", "15.00", true),
	}

	totals, err := ComputeFolioTotals(postings)
	require.NoError(t, err)
	assert.True(t, totals.TotalDebits.IsZero())
	assert.True(t, totals.TotalCredits.IsZero())
	assert.True(t, totals.Balance.IsZero())
}

func TestComputeFolioTotalsReversedPaymentExcluded(t *testing.T) {
	postings := []models.FolioPosting{
		posting(1, models.PostingCharge, "200.00", "30.00", false),
		posting(2, models.PostingPayment, "230.00", "0", false),
		posting(3, models.PostingPayment, "230.00", "0", true), // double payment, reversed
	}

	totals, err := ComputeFolioTotals(postings)
	require.NoError(t, err)
	assert.Equal(t, "230.00", totals.TotalDebits.StringFixed(2))
	assert.Equal(t, "230.00", totals.TotalCredits.StringFixed(2))
	assert.True(t, totals.Balance.IsZero())
}

func TestComputeFolioTotalsOrderIndependent(t *testing.T) {
	a := []models.FolioPosting{
		posting(1, models.PostingCharge, "100.00", "15.00", false),
		posting(2, models.PostingPayment, "50.00", "0", false),
		posting(3, models.PostingAdjustment, "10.00", "1.50", false),
	}
	b := []models.FolioPosting{a[2], a[0], a[1]}

	ta, err := ComputeFolioTotals(a)
	require.NoError(t, err)
	tb, err := ComputeFolioTotals(b)
	require.NoError(t, err)

	assert.True(t, ta.TotalDebits.Equal(tb.TotalDebits))
	assert.True(t, ta.TotalCredits.Equal(tb.TotalCredits))
	assert.True(t, ta.Balance.Equal(tb.Balance))
}

func TestComputeFolioTotalsNoFloatDrift(t *testing.T) {
	// 0.1 added ten times is exactly 1 in decimal arithmetic.
	postings := make([]models.FolioPosting, 0, 10)
	for i := 0; i < 10; i++ {
		postings = append(postings, posting(uint(i+1), models.PostingCharge, "0.10", "0", false))
	}

	totals, err := ComputeFolioTotals(postings)
	require.NoError(t, err)
	assert.Equal(t, "1.00", totals.TotalDebits.StringFixed(2))
}

func TestComputeFolioTotalsRejectsNegativeAmount(t *testing.T) {
	postings := []models.FolioPosting{
		posting(1, models.PostingCharge, "-5.00", "0", false),
	}
	_, err := ComputeFolioTotals(postings)
	assert.ErrorIs(t, err, utils.ErrInvalidAmount)
}

func TestComputeFolioTotalsRejectsUnknownType(t *testing.T) {
	postings := []models.FolioPosting{
		{ID: 1, PostingType: "discount", Amount: d("5.00"), TaxAmount: decimal.Zero},
	}
	_, err := ComputeFolioTotals(postings)
	assert.ErrorIs(t, err, ErrInvalidPosting)
}

func TestComputeTotalsForFolioNilGuard(t *testing.T) {
	_, err := ComputeTotalsForFolio(nil)
	assert.ErrorIs(t, err, ErrMissingFolio)

	folio := &models.Folio{
		Postings: []models.FolioPosting{
			posting(1, models.PostingCharge, "100.00", "15.00", false),
		},
	}
	totals, err := ComputeTotalsForFolio(folio)
	require.NoError(t, err)
	assert.Equal(t, "115.00", totals.Balance.StringFixed(2))
}

func TestPostingTypePartition(t *testing.T) {
	assert.True(t, models.PostingCharge.IsDebit())
	assert.True(t, models.PostingAdjustment.IsDebit())
	assert.False(t, models.PostingPayment.IsDebit())
	assert.False(t, models.PostingRefund.IsDebit())
}
