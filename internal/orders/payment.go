package orders

import (
	"strings"
	"time"
)

type Method string

// Canonical casing matches the payments.method CHECK constraint.
const (
	MethodCard Method = "Card"
	MethodUPI  Method = "UPI"
	MethodCOD  Method = "COD"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentSuccess PaymentStatus = "Success"
	PaymentFailed  PaymentStatus = "Failed"
)

// NormalizeMethod maps caller input of any casing onto the canonical enum.
// ok is false for anything outside {Card, UPI, COD}.
func NormalizeMethod(raw string) (Method, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CARD":
		return MethodCard, true
	case "UPI":
		return MethodUPI, true
	case "COD":
		return MethodCOD, true
	}
	return "", false
}

// Payment is one settlement attempt for an order. A retried checkout inserts
// a new row instead of updating, preserving the attempt audit trail.
type Payment struct {
	ID        string
	OrderID   string
	Method    Method
	Status    PaymentStatus
	CreatedAt time.Time
}

// Validate is a pure predicate: positive amount and a recognized method.
func (p Payment) Validate(amount float64) bool {
	_, ok := NormalizeMethod(string(p.Method))
	return amount > 0 && ok
}
