package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/cart"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/events"
	kafkax "github.com/ariefcatur/go-bookshop-checkout.git/internal/kafka"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/orders"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

var (
	ErrEmptyCart    = errors.New("cannot checkout an empty cart")
	ErrInvalidTotal = errors.New("invalid cart total")
)

// Ledger is the stock-facing slice of the book repository.
type Ledger interface {
	Reserve(ctx context.Context, bookID string, qty int) error
}

// OrderStore is the order/payment-facing slice of the order repository.
// Confirm must be atomic across status update, payment insert and decrements.
type OrderStore interface {
	CreateOrder(ctx context.Context, ownerID string, total float64, status orders.Status) (orders.Order, error)
	Confirm(ctx context.Context, orderID string, method orders.Method, lines []orders.LineQty) (string, error)
	AddPayment(ctx context.Context, orderID string, method orders.Method, status orders.PaymentStatus) (string, error)
}

// CartStore persists the cart after a successful checkout clears it.
type CartStore interface {
	Save(ctx context.Context, c *cart.Cart) error
}

type publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// PaymentInput is what the external prompt/UI layer collected; the
// orchestrator never reads input itself.
type PaymentInput struct {
	Method  string
	Details map[string]string
}

type Result struct {
	OrderID       string
	PaymentID     string
	Method        orders.Method
	PaymentStatus orders.PaymentStatus
	Total         float64
	DetailIssues  []string
}

type Service struct {
	Ledger       Ledger
	Orders       OrderStore
	Carts        CartStore
	ConfirmedPub publisher // optional
	FailedPub    publisher // optional
	ServiceName  string
}

// Checkout converts a validated cart into an order and settles it.
//
// On success the stock/order/payment triad commits atomically and the cart is
// cleared. On a declined settlement the order stays Pending with a Failed
// payment row so the owner can retry, cart untouched.
func (s *Service) Checkout(ctx context.Context, ownerID string, c *cart.Cart, in PaymentInput) (Result, error) {
	if c.IsEmpty() {
		return Result{}, ErrEmptyCart
	}
	total := c.Total()
	if total <= 0 {
		return Result{}, ErrInvalidTotal
	}

	// Reserve every line before any order row exists: the first shortfall
	// aborts the whole checkout with no side effects.
	for _, l := range c.Lines {
		if err := s.Ledger.Reserve(ctx, l.Book.ID, l.Quantity); err != nil {
			return Result{}, err
		}
	}

	method, ok := orders.NormalizeMethod(in.Method)
	var issues []string
	if !ok {
		// Compatibility with existing callers: unrecognized methods fall
		// back to Card instead of rejecting.
		issues = append(issues, fmt.Sprintf("unrecognized payment method %q, defaulting to Card", in.Method))
		method = orders.MethodCard
	}
	issues = append(issues, detailIssues(method, in.Details)...)

	order, err := s.Orders.CreateOrder(ctx, ownerID, total, orders.StatusPending)
	if err != nil {
		return Result{}, fmt.Errorf("create order: %w", err)
	}

	res := Result{OrderID: order.ID, Method: method, Total: total, DetailIssues: issues}

	if settle(method, in.Details) {
		lines := make([]orders.LineQty, 0, len(c.Lines))
		for _, l := range c.Lines {
			lines = append(lines, orders.LineQty{BookID: l.Book.ID, Qty: l.Quantity})
		}
		paymentID, err := s.Orders.Confirm(ctx, order.ID, method, lines)
		if err != nil {
			return Result{}, fmt.Errorf("confirm order %s: %w", order.ID, err)
		}
		res.PaymentID = paymentID
		res.PaymentStatus = orders.PaymentSuccess

		c.Clear()
		if s.Carts != nil {
			// The order is committed; a failed cart save must not reverse it.
			if err := s.Carts.Save(ctx, c); err != nil {
				log.Printf("checkout owner=%s: clear cart after confirm: %v", ownerID, err)
			}
		}
		s.publishConfirmed(order, method, lines)
		return res, nil
	}

	paymentID, err := s.Orders.AddPayment(ctx, order.ID, method, orders.PaymentFailed)
	if err != nil {
		return Result{}, fmt.Errorf("record failed payment for order %s: %w", order.ID, err)
	}
	res.PaymentID = paymentID
	res.PaymentStatus = orders.PaymentFailed
	s.publishFailed(order, method)
	return res, nil
}

func (s *Service) publishConfirmed(o orders.Order, method orders.Method, lines []orders.LineQty) {
	if s.ConfirmedPub == nil {
		return
	}
	evLines := make([]events.LineQty, 0, len(lines))
	for _, l := range lines {
		evLines = append(evLines, events.LineQty{BookID: l.BookID, Qty: l.Qty})
	}
	s.publish(s.ConfirmedPub, events.EventOrderConfirmed, o.ID, events.OrderConfirmedPayload{
		OrderID:     o.ID,
		OwnerID:     o.OwnerID,
		TotalAmount: o.TotalAmount,
		Method:      string(method),
		Lines:       evLines,
	})
}

func (s *Service) publishFailed(o orders.Order, method orders.Method) {
	if s.FailedPub == nil {
		return
	}
	s.publish(s.FailedPub, events.EventPaymentFailed, o.ID, events.PaymentFailedPayload{
		OrderID: o.ID,
		OwnerID: o.OwnerID,
		Method:  string(method),
		Reason:  "SETTLEMENT_DECLINED",
	})
}

func (s *Service) publish(p publisher, eventType, orderID string, payload any) {
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(events.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
