package checkout

import (
	"strings"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/orders"
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// detailIssues flags malformed payment details. Issues never block
// settlement; they only make the settlement rules fail naturally.
func detailIssues(method orders.Method, details map[string]string) []string {
	var issues []string
	if method == orders.MethodCard {
		if n := details["card_number"]; len(n) != 16 || !isDigits(n) {
			issues = append(issues, "invalid card number format")
		}
		if cvv := details["cvv"]; len(cvv) != 3 || !isDigits(cvv) {
			issues = append(issues, "invalid CVV format")
		}
	}
	return issues
}

// settle simulates the gateway decision deterministically:
//   - Card succeeds iff the card number starts with '4'
//   - UPI succeeds iff the id contains "@upi" (any casing)
//   - COD always succeeds
func settle(method orders.Method, details map[string]string) bool {
	switch method {
	case orders.MethodCard:
		return strings.HasPrefix(details["card_number"], "4")
	case orders.MethodUPI:
		return strings.Contains(strings.ToUpper(details["upi_id"]), "@UPI")
	case orders.MethodCOD:
		return true
	}
	return false
}
