package services

import (
	"context"
	"time"

	"github.com/jcastellanos/prestamos-api/internal/finance"
)

// ScheduleService projects amortization schedules. The projection uses
// monthly compounding and is informational only; actual balances are
// reconciled with the flat model in the finance package.
type ScheduleService struct{}

// NewScheduleService creates a new schedule service
func NewScheduleService() *ScheduleService {
	return &ScheduleService{}
}

// SimulateInput holds the parameters for a schedule simulation
type SimulateInput struct {
	Amount       float64 `json:"amount" binding:"required"`
	InterestRate float64 `json:"interest_rate"`
	TermMonths   int     `json:"term_months" binding:"required"`
	StartDate    string  `json:"start_date"` // YYYY-MM-DD, defaults to today
}

// SimulateResult is a projected schedule with its totals
type SimulateResult struct {
	Periods       []finance.Period `json:"periods"`
	TotalPayment  float64          `json:"total_payment"`
	TotalInterest float64          `json:"total_interest"`
}

// Simulate computes a projected payment plan for the given terms
func (s *ScheduleService) Simulate(ctx context.Context, input SimulateInput) (*SimulateResult, error) {
	start := time.Now()
	if input.StartDate != "" {
		parsed, err := time.Parse(dateLayout, input.StartDate)
		if err != nil {
			return nil, err
		}
		start = parsed
	}

	periods, err := finance.ComputeSchedule(input.Amount, input.InterestRate, input.TermMonths, start)
	if err != nil {
		return nil, err
	}

	result := &SimulateResult{Periods: periods}
	for _, p := range periods {
		result.TotalPayment += p.Payment
		result.TotalInterest += p.Interest
	}
	result.TotalPayment = finance.Round2(result.TotalPayment)
	result.TotalInterest = finance.Round2(result.TotalInterest)

	return result, nil
}
