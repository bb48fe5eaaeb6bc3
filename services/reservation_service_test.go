package services

import (
	"testing"
	"time"

	"folio-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestNightsBetween(t *testing.T) {
	day := func(d int) *time.Time {
		v := time.Date(2024, 3, d, 14, 0, 0, 0, time.UTC)
		return &v
	}

	assert.Equal(t, 3, NightsBetween(day(1), day(4)))
	assert.Equal(t, 0, NightsBetween(day(4), day(4)))
	// Inverted and missing dates count as zero, not an error.
	assert.Equal(t, 0, NightsBetween(day(4), day(1)))
	assert.Equal(t, 0, NightsBetween(nil, day(4)))
	assert.Equal(t, 0, NightsBetween(day(1), nil))
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, transitionAllowed(models.ReservationPending, models.ReservationConfirmed))
	assert.True(t, transitionAllowed(models.ReservationConfirmed, models.ReservationCheckedIn))
	assert.True(t, transitionAllowed(models.ReservationCheckedIn, models.ReservationCheckedOut))
	assert.True(t, transitionAllowed(models.ReservationConfirmed, models.ReservationNoShow))

	// Terminal states go nowhere.
	for _, terminal := range []models.ReservationStatus{
		models.ReservationCheckedOut, models.ReservationCancelled, models.ReservationNoShow,
	} {
		for _, to := range []models.ReservationStatus{
			models.ReservationPending, models.ReservationConfirmed,
			models.ReservationCheckedIn, models.ReservationCheckedOut,
		} {
			assert.False(t, transitionAllowed(terminal, to), "%s -> %s should be blocked", terminal, to)
		}
	}

	assert.False(t, transitionAllowed(models.ReservationPending, models.ReservationCheckedIn))
	assert.False(t, transitionAllowed(models.ReservationCheckedIn, models.ReservationCancelled))
}
