package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderValidation(t *testing.T) {
	_, err := NewOrder("o1", "u1", -1, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTotal)

	_, err = NewOrder("o1", "u1", 10, Status("Shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	o, err := NewOrder("o1", "u1", 25.00, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 25.00, o.TotalAmount)
}

func TestPendingTransitions(t *testing.T) {
	o, _ := NewOrder("o1", "u1", 10, StatusPending)
	require.NoError(t, o.Confirm())
	assert.Equal(t, StatusConfirmed, o.Status)

	o2, _ := NewOrder("o2", "u1", 10, StatusPending)
	require.NoError(t, o2.Cancel())
	assert.Equal(t, StatusCancelled, o2.Status)
}

func TestConfirmedIsTerminal(t *testing.T) {
	o, _ := NewOrder("o1", "u1", 10, StatusPending)
	require.NoError(t, o.Confirm())

	assert.ErrorIs(t, o.UpdateStatus(StatusPending), ErrTerminalState)
	assert.ErrorIs(t, o.UpdateStatus(StatusCancelled), ErrTerminalState)
	assert.ErrorIs(t, o.Cancel(), ErrTerminalState)
	assert.Equal(t, StatusConfirmed, o.Status)

	// same-status update is a no-op, not a violation
	assert.NoError(t, o.UpdateStatus(StatusConfirmed))
}

func TestCancelledNeverComesBack(t *testing.T) {
	o, _ := NewOrder("o1", "u1", 10, StatusPending)
	require.NoError(t, o.Cancel())

	assert.ErrorIs(t, o.UpdateStatus(StatusPending), ErrTerminalState)
	assert.ErrorIs(t, o.UpdateStatus(StatusConfirmed), ErrTerminalState)
	assert.Equal(t, StatusCancelled, o.Status)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	o, _ := NewOrder("o1", "u1", 10, StatusPending)
	assert.ErrorIs(t, o.UpdateStatus(Status("Shipped")), ErrInvalidStatus)
	assert.Equal(t, StatusPending, o.Status)
}
