package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/jcastellanos/prestamos-api/internal/models"
)

// Loan lifecycle events
const (
	EventMarkOverdue = "mark_overdue"
	EventMarkPaid    = "mark_paid"
	EventReopen      = "reopen"
)

// LoanFSM wraps the loan status transitions. Status itself is derived from
// the due date and outstanding balance; the state machine only guards that a
// recomputed status is reachable from the stored one.
type LoanFSM struct {
	FSM *fsm.FSM
}

// NewLoanFSM creates a state machine seeded with the loan's current status
func NewLoanFSM(initial string) *LoanFSM {
	return &LoanFSM{
		FSM: fsm.NewFSM(
			initial,
			fsm.Events{
				{Name: EventMarkOverdue, Src: []string{models.LoanStatusPending}, Dst: models.LoanStatusOverdue},
				{Name: EventMarkPaid, Src: []string{models.LoanStatusPending, models.LoanStatusOverdue}, Dst: models.LoanStatusPaid},
				{Name: EventReopen, Src: []string{models.LoanStatusPaid, models.LoanStatusOverdue}, Dst: models.LoanStatusPending},
			},
			fsm.Callbacks{},
		),
	}
}

// Current returns the current status
func (m *LoanFSM) Current() string {
	return m.FSM.Current()
}

// Can returns true if the event is allowed from the current status
func (m *LoanFSM) Can(event string) bool {
	return m.FSM.Can(event)
}

// Transition fires the event, returning an error when the transition is not
// allowed from the current status.
func (m *LoanFSM) Transition(ctx context.Context, event string) error {
	if err := m.FSM.Event(ctx, event); err != nil {
		return fmt.Errorf("transición de estado inválida (%s desde %s): %w", event, m.FSM.Current(), err)
	}
	return nil
}

// EventFor maps a derived status to the event that reaches it from the
// current status. It returns ("", false) when no transition is needed.
func (m *LoanFSM) EventFor(derived string) (string, bool) {
	current := m.FSM.Current()
	if current == derived {
		return "", false
	}
	switch derived {
	case models.LoanStatusOverdue:
		if current == models.LoanStatusPaid {
			// A deleted payment can pull a paid loan straight back past its
			// due date: reopen first, the caller fires mark_overdue next.
			return EventReopen, true
		}
		return EventMarkOverdue, true
	case models.LoanStatusPaid:
		return EventMarkPaid, true
	case models.LoanStatusPending:
		// Settled loans reopen after a payment deletion; overdue loans drop
		// back to pending when the due date is extended.
		return EventReopen, true
	}
	return "", false
}

// Advance drives the machine until it reaches the derived status. At most two
// transitions are ever needed (paid -> pending -> overdue).
func (m *LoanFSM) Advance(ctx context.Context, derived string) error {
	for i := 0; i < 2; i++ {
		event, ok := m.EventFor(derived)
		if !ok {
			return nil
		}
		if err := m.Transition(ctx, event); err != nil {
			return err
		}
	}
	if m.FSM.Current() != derived {
		return fmt.Errorf("transición de estado inválida: no se pudo alcanzar %s", derived)
	}
	return nil
}
