package utils

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeZatcaPayloadRoundTrip(t *testing.T) {
	payload, err := EncodeZatcaPayload(
		"Test Co",
		"310231928400003",
		"2024-01-01T10:00:00Z",
		decimal.NewFromFloat(1150.00),
		decimal.NewFromFloat(150.00),
	)
	require.NoError(t, err)

	fields, err := DecodeZatcaPayload(payload)
	require.NoError(t, err)
	require.Len(t, fields, 5)

	assert.Equal(t, byte(TagSellerName), fields[0].Tag)
	assert.Equal(t, "Test Co", fields[0].Value)
	assert.Equal(t, byte(TagVATNumber), fields[1].Tag)
	assert.Equal(t, "310231928400003", fields[1].Value)
	assert.Equal(t, byte(TagTimestamp), fields[2].Tag)
	assert.Equal(t, "2024-01-01T10:00:00Z", fields[2].Value)
	assert.Equal(t, byte(TagTotal), fields[3].Tag)
	assert.Equal(t, "1150.00", fields[3].Value)
	assert.Equal(t, byte(TagVATAmount), fields[4].Tag)
	assert.Equal(t, "150.00", fields[4].Value)
}

func TestEncodeZatcaPayloadDeterministic(t *testing.T) {
	encode := func() string {
		payload, err := EncodeZatcaPayload(
			"Test Co", "310231928400003", "2024-01-01T10:00:00Z",
			decimal.NewFromInt(100), decimal.NewFromInt(15))
		require.NoError(t, err)
		return payload
	}
	assert.Equal(t, encode(), encode())
}

func TestEncodeZatcaPayloadArabicSellerName(t *testing.T) {
	name := "مؤسسة أوي المكان"
	payload, err := EncodeZatcaPayload(
		name, "310231928400003", "2024-01-01T10:00:00Z",
		decimal.NewFromFloat(517.50), decimal.NewFromFloat(67.50))
	require.NoError(t, err)

	fields, err := DecodeZatcaPayload(payload)
	require.NoError(t, err)
	require.Len(t, fields, 5)
	assert.Equal(t, name, fields[0].Value)

	// The length byte counts UTF-8 bytes, not runes.
	assert.Greater(t, len([]byte(name)), len([]rune(name)))
	assert.Equal(t, len([]byte(name)), len([]byte(fields[0].Value)))
}

func TestEncodeZatcaPayloadAmountFormatting(t *testing.T) {
	payload, err := EncodeZatcaPayload(
		"Test Co", "310231928400003", "2024-01-01T10:00:00Z",
		decimal.NewFromFloat(1322.5), decimal.NewFromFloat(172.5))
	require.NoError(t, err)

	fields, err := DecodeZatcaPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "1322.50", fields[3].Value)
	assert.Equal(t, "172.50", fields[4].Value)
}

func TestEncodeZatcaPayloadOversizedField(t *testing.T) {
	name := strings.Repeat("م", 130) // 260 UTF-8 bytes
	_, err := EncodeZatcaPayload(
		name, "310231928400003", "2024-01-01T10:00:00Z",
		decimal.NewFromInt(100), decimal.NewFromInt(15))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestEncodeZatcaPayloadNegativeAmounts(t *testing.T) {
	_, err := EncodeZatcaPayload(
		"Test Co", "310231928400003", "2024-01-01T10:00:00Z",
		decimal.NewFromInt(-1), decimal.NewFromInt(15))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = EncodeZatcaPayload(
		"Test Co", "310231928400003", "2024-01-01T10:00:00Z",
		decimal.NewFromInt(100), decimal.NewFromInt(-15))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDecodeZatcaPayloadRejectsGarbage(t *testing.T) {
	_, err := DecodeZatcaPayload("not base64!!!")
	assert.Error(t, err)

	// Valid base64 but a truncated TLV record.
	_, err = DecodeZatcaPayload("AQU=") // tag 1 declares 5 bytes, none follow
	assert.Error(t, err)
}
