package orders

import (
	"context"
	"errors"
	"log"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/books"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LineQty struct {
	BookID string
	Qty    int
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) CreateOrder(ctx context.Context, ownerID string, total float64, status Status) (Order, error) {
	o, err := NewOrder(uuid.NewString(), ownerID, total, status)
	if err != nil {
		return Order{}, err
	}
	_, err = r.DB.Exec(ctx, `INSERT INTO orders(id, owner_id, total_amount, status, created_at)
	                         VALUES ($1,$2,$3,$4,$5)`, o.ID, o.OwnerID, o.TotalAmount, o.Status, o.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) GetOrder(ctx context.Context, orderID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `SELECT id, owner_id, total_amount, status, created_at
	                           FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.OwnerID, &o.TotalAmount, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, owner_id, total_amount, status, created_at
	                              FROM orders WHERE owner_id=$1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus locks the row, enforces the transition rules, then writes.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !CanTransition(cur, next) {
		return ErrTerminalState
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, next); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) AddPayment(ctx context.Context, orderID string, method Method, status PaymentStatus) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `INSERT INTO payments(id, order_id, method, status)
	                          VALUES ($1,$2,$3,$4)`, id, orderID, method, status)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) PaymentsByOrder(ctx context.Context, orderID string) ([]Payment, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, order_id, method, status, created_at
	                              FROM payments WHERE order_id=$1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Method, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Confirm commits the whole success path in one transaction: order status to
// Confirmed, a Success payment row, and every stock decrement. A crash cannot
// leave stock reduced with the order still Pending.
//
// Decrements re-validate sufficiency under the row lock, so two checkouts
// racing for the last unit cannot both confirm — the loser aborts with
// ErrInsufficientStock and the order stays Pending. A vanished book row is
// logged and skipped so one bad line cannot block the rest.
func (r *Repo) Confirm(ctx context.Context, orderID string, method Method, lines []LineQty) (paymentID string, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !CanTransition(cur, StatusConfirmed) {
		return "", ErrTerminalState
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, StatusConfirmed); err != nil {
		return "", err
	}

	paymentID = uuid.NewString()
	if _, err := tx.Exec(ctx, `INSERT INTO payments(id, order_id, method, status)
	                           VALUES ($1,$2,$3,$4)`, paymentID, orderID, method, PaymentSuccess); err != nil {
		return "", err
	}

	for _, l := range lines {
		err := books.DecrementStock(ctx, tx, l.BookID, l.Qty)
		if errors.Is(err, books.ErrNotFound) {
			log.Printf("confirm order=%s: book %s missing, stock not decremented", orderID, l.BookID)
			continue
		}
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return paymentID, nil
}
