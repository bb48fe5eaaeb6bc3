package services

import (
	"testing"

	"folio-backend/models"
	"folio-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveInvoiceAmountsExplicitTax(t *testing.T) {
	reservation := &models.Reservation{
		TotalAmount: d("1150.00"),
		TaxesAmount: d("150.00"),
	}

	amounts, err := DeriveInvoiceAmounts(reservation, DefaultVATRate)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", amounts.Subtotal.StringFixed(2))
	assert.Equal(t, "150.00", amounts.TaxAmount.StringFixed(2))
	assert.Equal(t, "1150.00", amounts.TotalAmount.StringFixed(2))
}

func TestDeriveInvoiceAmountsFallbackRate(t *testing.T) {
	// With no recorded taxes the flat rate applies on top of the full
	// amount: subtotal stays 1150, tax is 172.50, total 1322.50.
	reservation := &models.Reservation{
		TotalAmount: d("1150.00"),
		TaxesAmount: decimal.Zero,
	}

	amounts, err := DeriveInvoiceAmounts(reservation, DefaultVATRate)
	require.NoError(t, err)
	assert.Equal(t, "1150.00", amounts.Subtotal.StringFixed(2))
	assert.Equal(t, "172.50", amounts.TaxAmount.StringFixed(2))
	assert.Equal(t, "1322.50", amounts.TotalAmount.StringFixed(2))
}

func TestDeriveInvoiceAmountsConfigurableRate(t *testing.T) {
	reservation := &models.Reservation{
		TotalAmount: d("1000.00"),
		TaxesAmount: decimal.Zero,
	}

	amounts, err := DeriveInvoiceAmounts(reservation, d("0.05"))
	require.NoError(t, err)
	assert.Equal(t, "50.00", amounts.TaxAmount.StringFixed(2))
	assert.Equal(t, "1050.00", amounts.TotalAmount.StringFixed(2))
}

func TestDeriveInvoiceAmountsCompedStay(t *testing.T) {
	// Zero total is a valid business state, not an error.
	reservation := &models.Reservation{
		TotalAmount: decimal.Zero,
		TaxesAmount: decimal.Zero,
	}

	amounts, err := DeriveInvoiceAmounts(reservation, DefaultVATRate)
	require.NoError(t, err)
	assert.True(t, amounts.Subtotal.IsZero())
	assert.True(t, amounts.TaxAmount.IsZero())
	assert.True(t, amounts.TotalAmount.IsZero())
}

func TestDeriveInvoiceAmountsNilReservation(t *testing.T) {
	_, err := DeriveInvoiceAmounts(nil, DefaultVATRate)
	assert.ErrorIs(t, err, ErrMissingReservation)
}

func TestDeriveInvoiceAmountsRejectsNegatives(t *testing.T) {
	_, err := DeriveInvoiceAmounts(&models.Reservation{
		TotalAmount: d("-10.00"),
	}, DefaultVATRate)
	assert.ErrorIs(t, err, utils.ErrInvalidAmount)

	_, err = DeriveInvoiceAmounts(&models.Reservation{
		TotalAmount: d("100.00"),
		TaxesAmount: d("-5.00"),
	}, DefaultVATRate)
	assert.ErrorIs(t, err, utils.ErrInvalidAmount)

	_, err = DeriveInvoiceAmounts(&models.Reservation{
		TotalAmount: d("100.00"),
	}, d("-0.15"))
	assert.ErrorIs(t, err, utils.ErrInvalidAmount)
}

func TestDeriveInvoiceAmountsInvariant(t *testing.T) {
	cases := []struct {
		total, taxes string
	}{
		{"1150.00", "150.00"},
		{"1150.00", "0"},
		{"99.99", "0"},
		{"350.75", "45.75"},
	}
	for _, tc := range cases {
		amounts, err := DeriveInvoiceAmounts(&models.Reservation{
			TotalAmount: d(tc.total),
			TaxesAmount: d(tc.taxes),
		}, DefaultVATRate)
		require.NoError(t, err)
		assert.True(t, amounts.TotalAmount.Equal(amounts.Subtotal.Add(amounts.TaxAmount)),
			"total must equal subtotal+tax for total=%s taxes=%s", tc.total, tc.taxes)
	}
}
