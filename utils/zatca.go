package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Simplified ZATCA e-invoice QR payload: five TLV records (tags 1-5)
// concatenated and base64-encoded. Each record header is two bytes, the tag
// followed by the UTF-8 byte length of the value. Lengths are bytes, not
// characters: Arabic seller names are multi-byte.

var (
	ErrPayloadTooLarge = errors.New("zatca_field_too_large")
	ErrInvalidAmount   = errors.New("invalid_amount")
)

const (
	TagSellerName = 1
	TagVATNumber  = 2
	TagTimestamp  = 3
	TagTotal      = 4
	TagVATAmount  = 5
)

// TLVField is one decoded tag/value pair.
type TLVField struct {
	Tag   byte
	Value string
}

func appendTLV(buf *bytes.Buffer, tag byte, value string) error {
	b := []byte(value)
	if len(b) > 255 {
		return fmt.Errorf("tag %d value is %d bytes: %w", tag, len(b), ErrPayloadTooLarge)
	}
	buf.WriteByte(tag)
	buf.WriteByte(byte(len(b)))
	buf.Write(b)
	return nil
}

// EncodeZatcaPayload builds the base64 TLV payload stored on the invoice.
// Amounts are rendered with exactly two decimal places. The caller supplies
// the timestamp, so the same inputs always produce the same string.
func EncodeZatcaPayload(sellerName, vatNumber, timestamp string, total, vatAmount decimal.Decimal) (string, error) {
	if total.IsNegative() {
		return "", fmt.Errorf("total %s: %w", total.String(), ErrInvalidAmount)
	}
	if vatAmount.IsNegative() {
		return "", fmt.Errorf("vat amount %s: %w", vatAmount.String(), ErrInvalidAmount)
	}

	var buf bytes.Buffer
	fields := []struct {
		tag   byte
		value string
	}{
		{TagSellerName, sellerName},
		{TagVATNumber, vatNumber},
		{TagTimestamp, timestamp},
		{TagTotal, total.StringFixed(2)},
		{TagVATAmount, vatAmount.StringFixed(2)},
	}
	for _, f := range fields {
		if err := appendTLV(&buf, f.tag, f.value); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeZatcaPayload parses a base64 TLV payload back into its fields. This
// is the verification half scanning apps perform; it rejects truncated or
// trailing-garbage payloads.
func DecodeZatcaPayload(payload string) ([]TLVField, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	fields := make([]TLVField, 0, 5)
	for i := 0; i < len(raw); {
		if len(raw)-i < 2 {
			return nil, errors.New("truncated TLV header")
		}
		tag := raw[i]
		length := int(raw[i+1])
		i += 2
		if len(raw)-i < length {
			return nil, fmt.Errorf("tag %d declares %d bytes but %d remain", tag, length, len(raw)-i)
		}
		fields = append(fields, TLVField{Tag: tag, Value: string(raw[i : i+length])})
		i += length
	}
	return fields, nil
}
