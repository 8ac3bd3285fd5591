package finance

import "math"

// ReconcileBalance computes the outstanding balance of a loan: the total
// obligation (principal plus one flat interest charge over the full term,
// nil rate treated as zero) minus everything paid so far.
//
// The result is rounded to 2 decimals with half-up rounding (Round2) and
// clamped at zero, so overpayment never produces a negative balance.
func ReconcileBalance(principal float64, annualRatePct *float64, payments []float64) float64 {
	rate := 0.0
	if annualRatePct != nil {
		rate = *annualRatePct
	}

	totalObligation := principal * (1 + rate/100)

	var totalPaid float64
	for _, amount := range payments {
		totalPaid += amount
	}

	return math.Max(0, Round2(totalObligation-totalPaid))
}

// Round2 rounds to 2 decimal places, half away from zero. Used for every
// monetary rounding in the engine so results are reproducible.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
