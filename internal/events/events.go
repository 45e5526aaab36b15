package events

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderConfirmed = "checkout.order.confirmed"
	TopicPaymentFailed  = "checkout.payment.failed"
)

const (
	EventOrderConfirmed = "OrderConfirmed"
	EventPaymentFailed  = "PaymentFailed"
)

// Partition key = order_id so all events for one order keep their ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type LineQty struct {
	BookID string `json:"book_id"`
	Qty    int    `json:"qty"`
}

type OrderConfirmedPayload struct {
	OrderID     string    `json:"order_id"`
	OwnerID     string    `json:"owner_id"`
	TotalAmount float64   `json:"total_amount"`
	Method      string    `json:"method"`
	Lines       []LineQty `json:"lines"`
}

type PaymentFailedPayload struct {
	OrderID string `json:"order_id"`
	OwnerID string `json:"owner_id"`
	Method  string `json:"method"`
	Reason  string `json:"reason"` // e.g. SETTLEMENT_DECLINED
}
