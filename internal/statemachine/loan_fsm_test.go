package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastellanos/prestamos-api/internal/models"
)

func TestLoanFSM_PendingToOverdue(t *testing.T) {
	m := NewLoanFSM(models.LoanStatusPending)

	require.True(t, m.Can(EventMarkOverdue))
	err := m.Transition(context.Background(), EventMarkOverdue)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusOverdue, m.Current())
}

func TestLoanFSM_MarkPaidFromEitherState(t *testing.T) {
	for _, initial := range []string{models.LoanStatusPending, models.LoanStatusOverdue} {
		m := NewLoanFSM(initial)
		err := m.Transition(context.Background(), EventMarkPaid)
		require.NoError(t, err, "from %s", initial)
		assert.Equal(t, models.LoanStatusPaid, m.Current())
	}
}

func TestLoanFSM_ReopenNotAllowedFromPending(t *testing.T) {
	m := NewLoanFSM(models.LoanStatusPending)
	err := m.Transition(context.Background(), EventReopen)
	assert.Error(t, err)
}

func TestLoanFSM_ReopenFromPaid(t *testing.T) {
	m := NewLoanFSM(models.LoanStatusPaid)
	err := m.Transition(context.Background(), EventReopen)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusPending, m.Current())
}

func TestLoanFSM_AdvanceOverdueToPending(t *testing.T) {
	// Extending the due date of an overdue loan with balance derives pending
	// again; the machine must be able to walk back.
	m := NewLoanFSM(models.LoanStatusOverdue)
	err := m.Advance(context.Background(), models.LoanStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusPending, m.Current())
}

func TestLoanFSM_AdvanceNoopWhenAlreadyThere(t *testing.T) {
	m := NewLoanFSM(models.LoanStatusPaid)
	err := m.Advance(context.Background(), models.LoanStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusPaid, m.Current())
}

func TestLoanFSM_AdvancePaidToOverdue(t *testing.T) {
	// Deleting a payment can reopen a paid loan whose due date has passed.
	m := NewLoanFSM(models.LoanStatusPaid)
	err := m.Advance(context.Background(), models.LoanStatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusOverdue, m.Current())
}

func TestLoanFSM_AdvancePendingToPaid(t *testing.T) {
	m := NewLoanFSM(models.LoanStatusPending)
	err := m.Advance(context.Background(), models.LoanStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusPaid, m.Current())
}
