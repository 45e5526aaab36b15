package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMethod(t *testing.T) {
	cases := map[string]Method{
		"card":   MethodCard,
		"CARD":   MethodCard,
		" Card ": MethodCard,
		"upi":    MethodUPI,
		"UPI":    MethodUPI,
		"cod":    MethodCOD,
		"CoD":    MethodCOD,
	}
	for in, want := range cases {
		got, ok := NormalizeMethod(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := NormalizeMethod("netbanking")
	assert.False(t, ok)
	_, ok = NormalizeMethod("")
	assert.False(t, ok)
}

func TestPaymentValidate(t *testing.T) {
	p := Payment{ID: "p1", OrderID: "o1", Method: MethodCard, Status: PaymentPending}
	assert.True(t, p.Validate(25.00))
	assert.False(t, p.Validate(0))
	assert.False(t, p.Validate(-5))

	bad := Payment{ID: "p2", OrderID: "o1", Method: Method("Cheque")}
	assert.False(t, bad.Validate(25.00))
}
