package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ratePtr(v float64) *float64 { return &v }

func TestReconcileBalance_FlatInterest(t *testing.T) {
	// 1000 * 1.05 - 500 = 550.00
	outstanding := ReconcileBalance(1000, ratePtr(5.0), []float64{200, 300})
	assert.Equal(t, 550.00, outstanding)
}

func TestReconcileBalance_NilRateTreatedAsZero(t *testing.T) {
	outstanding := ReconcileBalance(1000, nil, []float64{250})
	assert.Equal(t, 750.00, outstanding)
}

func TestReconcileBalance_NoPayments(t *testing.T) {
	outstanding := ReconcileBalance(1000, ratePtr(10), nil)
	assert.Equal(t, 1100.00, outstanding)
}

func TestReconcileBalance_NeverNegative(t *testing.T) {
	outstanding := ReconcileBalance(1000, ratePtr(5.0), []float64{2000})
	assert.Equal(t, 0.0, outstanding)
}

func TestReconcileBalance_MonotonicInPayments(t *testing.T) {
	payments := []float64{}
	prev := ReconcileBalance(1000, ratePtr(7.5), payments)

	for _, amount := range []float64{10, 99.99, 250, 500, 300} {
		payments = append(payments, amount)
		next := ReconcileBalance(1000, ratePtr(7.5), payments)
		assert.LessOrEqual(t, next, prev, "adding a payment must never increase the balance")
		prev = next
	}
}

func TestReconcileBalance_RoundsToCents(t *testing.T) {
	// 100.555 * 1 - 0 rounds half-up to 100.56
	outstanding := ReconcileBalance(100.555, nil, nil)
	assert.Equal(t, 100.56, outstanding)
}

func TestReconcileBalance_RoundsTheDifferenceNotTheTerms(t *testing.T) {
	// Obligation 100.255, paid 50.002. Rounding happens once, after the
	// subtraction: 50.253 -> 50.25. Rounding the obligation first would
	// give 100.26 - 50.002 = 50.258 instead.
	outstanding := ReconcileBalance(100, ratePtr(0.255), []float64{50.002})
	assert.Equal(t, 50.25, outstanding)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.555))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, -10.56, Round2(-10.555))
	assert.Equal(t, 0.0, Round2(0))
}
