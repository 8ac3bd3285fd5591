package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusPaid, DeriveStatus(due, 0, later))
	assert.Equal(t, StatusPaid, DeriveStatus(due, -10, later))
	assert.Equal(t, StatusOverdue, DeriveStatus(due, 50, later))

	futureDue := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusPending, DeriveStatus(futureDue, 50, later))
}

func TestDeriveStatus_DueDateIsNotOverdue(t *testing.T) {
	// Same day, even at a later hour, is still pending.
	due := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	sameDay := time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, StatusPending, DeriveStatus(due, 100, sameDay))

	nextDay := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusOverdue, DeriveStatus(due, 100, nextDay))
}

func TestDeriveStatus_PaidWinsOverOverdue(t *testing.T) {
	due := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusPaid, DeriveStatus(due, 0, now))
}
