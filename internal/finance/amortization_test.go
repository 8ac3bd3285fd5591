package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeSchedule_FirstPeriodInterest(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	schedule, err := ComputeSchedule(5000, 12.0, 12, start)
	assert.NoError(t, err)
	assert.Len(t, schedule, 12)

	// 5000 * (0.12 / 12) = 50.00
	assert.InDelta(t, 50.00, schedule[0].Interest, 0.001)
	assert.Equal(t, 1, schedule[0].Number)
	assert.Equal(t, start.AddDate(0, 0, 30), schedule[0].DueDate)
}

func TestComputeSchedule_PrincipalSumsToAmount(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		term      int
	}{
		{"small loan", 1000, 5.0, 6},
		{"large loan", 250000, 18.5, 48},
		{"one month", 750, 10.0, 1},
		{"zero rate", 9000, 0, 12},
	}

	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schedule, err := ComputeSchedule(tc.principal, tc.rate, tc.term, start)
			assert.NoError(t, err)

			var totalPrincipal float64
			for _, p := range schedule {
				totalPrincipal += p.Principal
			}
			assert.InDelta(t, tc.principal, totalPrincipal, 0.01)

			// Final period closes at exactly zero
			assert.Equal(t, 0.0, schedule[len(schedule)-1].Balance)
		})
	}
}

func TestComputeSchedule_ZeroRate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	schedule, err := ComputeSchedule(1200, 0, 12, start)
	assert.NoError(t, err)

	for _, p := range schedule {
		assert.InDelta(t, 100.0, p.Payment, 0.001, "period %d payment", p.Number)
		assert.Equal(t, 0.0, p.Interest, "period %d interest", p.Number)
	}
}

func TestComputeSchedule_ThirtyDayStep(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	schedule, err := ComputeSchedule(3000, 10, 3, start)
	assert.NoError(t, err)

	// Fixed 30-day steps, not calendar months
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), schedule[0].DueDate)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), schedule[1].DueDate)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), schedule[2].DueDate)
}

func TestComputeSchedule_Deterministic(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	a, err := ComputeSchedule(17500, 14.75, 24, start)
	assert.NoError(t, err)
	b, err := ComputeSchedule(17500, 14.75, 24, start)
	assert.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestComputeSchedule_InvalidParameters(t *testing.T) {
	start := time.Now()

	_, err := ComputeSchedule(0, 10, 12, start)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = ComputeSchedule(-500, 10, 12, start)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = ComputeSchedule(1000, 10, 0, start)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = ComputeSchedule(1000, -1, 12, start)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestComputeSchedule_FullRecomputation(t *testing.T) {
	// Verify every row against an independent recomputation of the recurrence.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	principal, rate, term := 5000.0, 12.0, 12

	schedule, err := ComputeSchedule(principal, rate, term, start)
	assert.NoError(t, err)

	monthly := rate / 100 / 12
	balance := principal
	for i, p := range schedule {
		interest := balance * monthly
		assert.InDelta(t, interest, p.Interest, 0.0001, "period %d", i+1)
		if i < term-1 {
			assert.InDelta(t, p.Payment-interest, p.Principal, 0.0001, "period %d", i+1)
		} else {
			assert.InDelta(t, balance, p.Principal, 0.0001, "final period")
		}
		balance -= p.Principal
		assert.InDelta(t, balance, p.Balance, 0.0001, "period %d", i+1)
	}
}
