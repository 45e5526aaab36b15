package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/books"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/cart"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/orders"
)

// mockLedger implements Ledger over an in-memory stock table.
type mockLedger struct {
	stock        map[string]int
	reserveCalls []orders.LineQty
}

func (m *mockLedger) Reserve(_ context.Context, bookID string, qty int) error {
	m.reserveCalls = append(m.reserveCalls, orders.LineQty{BookID: bookID, Qty: qty})
	stock, ok := m.stock[bookID]
	if !ok {
		return books.ErrNotFound
	}
	if qty > stock {
		return fmt.Errorf("%w: book %s has %d, need %d", books.ErrInsufficientStock, bookID, stock, qty)
	}
	return nil
}

// mockOrderStore implements OrderStore, applying Confirm decrements to the
// shared stock table so tests can assert final stock levels. Confirm mirrors
// the repo contract: a shortfall at commit time aborts instead of clamping.
// confirmStock, when set, shadows the ledger at confirm time to simulate a
// concurrent checkout winning the stock between reserve and commit.
type mockOrderStore struct {
	ledger       *mockLedger
	confirmStock map[string]int

	createErr  error
	confirmErr error
	paymentErr error

	created       []orders.Order
	confirmed     map[string][]orders.LineQty // order id -> decremented lines
	payments      map[string][]orders.PaymentStatus
	paymentSeq    int
	statusByOrder map[string]orders.Status
}

func newMockOrderStore(l *mockLedger) *mockOrderStore {
	return &mockOrderStore{
		ledger:        l,
		confirmed:     map[string][]orders.LineQty{},
		payments:      map[string][]orders.PaymentStatus{},
		statusByOrder: map[string]orders.Status{},
	}
}

func (m *mockOrderStore) CreateOrder(_ context.Context, ownerID string, total float64, status orders.Status) (orders.Order, error) {
	if m.createErr != nil {
		return orders.Order{}, m.createErr
	}
	o, err := orders.NewOrder(fmt.Sprintf("order-%d", len(m.created)+1), ownerID, total, status)
	if err != nil {
		return orders.Order{}, err
	}
	m.created = append(m.created, o)
	m.statusByOrder[o.ID] = status
	return o, nil
}

func (m *mockOrderStore) Confirm(_ context.Context, orderID string, method orders.Method, lines []orders.LineQty) (string, error) {
	if m.confirmErr != nil {
		return "", m.confirmErr
	}
	table := m.ledger.stock
	if m.confirmStock != nil {
		table = m.confirmStock
	}
	for _, l := range lines {
		stock, ok := table[l.BookID]
		if !ok {
			continue // missing book is tolerated, logged by the real repo
		}
		if stock < l.Qty {
			return "", fmt.Errorf("%w: book %s has less than %d", books.ErrInsufficientStock, l.BookID, l.Qty)
		}
	}
	m.confirmed[orderID] = lines
	m.statusByOrder[orderID] = orders.StatusConfirmed
	m.payments[orderID] = append(m.payments[orderID], orders.PaymentSuccess)
	for _, l := range lines {
		if _, ok := table[l.BookID]; ok {
			table[l.BookID] -= l.Qty
		}
	}
	m.paymentSeq++
	return fmt.Sprintf("payment-%d", m.paymentSeq), nil
}

func (m *mockOrderStore) AddPayment(_ context.Context, orderID string, method orders.Method, status orders.PaymentStatus) (string, error) {
	if m.paymentErr != nil {
		return "", m.paymentErr
	}
	m.payments[orderID] = append(m.payments[orderID], status)
	m.paymentSeq++
	return fmt.Sprintf("payment-%d", m.paymentSeq), nil
}

type mockCartStore struct {
	mu    sync.Mutex
	saved []*cart.Cart
	err   error
}

func (m *mockCartStore) Save(_ context.Context, c *cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, c)
	return nil
}
