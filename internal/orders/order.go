package orders

import (
	"errors"
	"time"
)

var (
	ErrInvalidStatus = errors.New("invalid order status")
	ErrInvalidTotal  = errors.New("total_amount must be >= 0")
	ErrTerminalState = errors.New("confirmed orders cannot change status")
	ErrNotFound      = errors.New("order not found")
)

// Order total is snapshotted from the cart at creation and never recomputed;
// later catalog price changes must not alter a placed order.
type Order struct {
	ID          string
	OwnerID     string
	TotalAmount float64
	Status      Status
	CreatedAt   time.Time
}

func NewOrder(id, ownerID string, total float64, status Status) (Order, error) {
	if total < 0 {
		return Order{}, ErrInvalidTotal
	}
	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}
	return Order{ID: id, OwnerID: ownerID, TotalAmount: total, Status: status, CreatedAt: time.Now().UTC()}, nil
}

func (o *Order) UpdateStatus(next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !CanTransition(o.Status, next) {
		return ErrTerminalState
	}
	o.Status = next
	return nil
}

func (o *Order) Confirm() error { return o.UpdateStatus(StatusConfirmed) }

func (o *Order) Cancel() error {
	if o.Status == StatusConfirmed {
		return ErrTerminalState
	}
	return o.UpdateStatus(StatusCancelled)
}
