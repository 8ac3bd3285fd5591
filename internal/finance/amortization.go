package finance

import (
	"fmt"
	"math"
	"time"
)

// Period is one row of a projected amortization schedule.
type Period struct {
	Number    int       `json:"number"`
	DueDate   time.Time `json:"due_date"`
	Payment   float64   `json:"payment"`
	Principal float64   `json:"principal"`
	Interest  float64   `json:"interest"`
	Balance   float64   `json:"balance"`
}

// ComputeSchedule projects a fixed-payment (French amortization) schedule for
// a loan of the given principal, annual interest rate (percent) and term in
// months, starting at start.
//
// Due dates advance in fixed 30-day steps from start, not calendar months.
// The last period is force-balanced: its principal portion is set to the
// remaining balance exactly so the schedule always closes at zero, absorbing
// accumulated rounding.
//
// The projection is display-only. Actual outstanding balance uses the flat
// simple-interest model in ReconcileBalance; the two models are intentionally
// different and must not be unified.
func ComputeSchedule(principal, annualRatePct float64, termMonths int, start time.Time) ([]Period, error) {
	if principal <= 0 {
		return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", ErrInvalidParameter)
	}
	if termMonths <= 0 {
		return nil, fmt.Errorf("%w: el plazo debe ser de al menos un mes", ErrInvalidParameter)
	}
	if annualRatePct < 0 {
		return nil, fmt.Errorf("%w: la tasa de interés no puede ser negativa", ErrInvalidParameter)
	}

	monthlyRate := annualRatePct / 100 / 12

	var payment float64
	if monthlyRate > 0 {
		factor := math.Pow(1+monthlyRate, float64(termMonths))
		payment = principal * (monthlyRate * factor) / (factor - 1)
	} else {
		payment = principal / float64(termMonths)
	}

	schedule := make([]Period, 0, termMonths)
	balance := principal

	for i := 1; i <= termMonths; i++ {
		interest := balance * monthlyRate
		principalPortion := payment - interest
		newBalance := balance - principalPortion
		periodPayment := payment

		// Force-balance the final period to absorb rounding drift.
		if i == termMonths {
			principalPortion = balance
			periodPayment = principalPortion + interest
			newBalance = 0
		}

		schedule = append(schedule, Period{
			Number:    i,
			DueDate:   start.AddDate(0, 0, 30*i),
			Payment:   periodPayment,
			Principal: principalPortion,
			Interest:  interest,
			Balance:   newBalance,
		})

		balance = newBalance
	}

	return schedule, nil
}
