package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo owns all mutation of books.stock.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Get(ctx context.Context, bookID string) (Book, error) {
	var b Book
	err := r.DB.QueryRow(ctx, `SELECT id, title, author, price, stock, created_at, updated_at
	                           FROM books WHERE id=$1`, bookID).
		Scan(&b.ID, &b.Title, &b.Author, &b.Price, &b.Stock, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *Repo) List(ctx context.Context) ([]Book, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, title, author, price, stock, created_at, updated_at
	                              FROM books ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Price, &b.Stock, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) Add(ctx context.Context, title, author string, price float64, stock int) (string, error) {
	b := Book{Title: title, Author: author, Price: price, Stock: stock}
	if err := b.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `INSERT INTO books(id, title, author, price, stock)
	                          VALUES ($1,$2,$3,$4,$5)`, id, title, author, price, stock)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) UpdateStock(ctx context.Context, bookID string, newStock int) error {
	if newStock < 0 {
		return ErrInvalidBook
	}
	ct, err := r.DB.Exec(ctx, `UPDATE books SET stock=$2, updated_at=now() WHERE id=$1`, bookID, newStock)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, bookID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM books WHERE id=$1`, bookID)
	return err
}

// Reserve checks stock sufficiency without mutating anything. The orchestrator
// calls it for every cart line before an order row exists, so a shortfall on
// any line aborts the whole checkout with no side effects.
func (r *Repo) Reserve(ctx context.Context, bookID string, qty int) error {
	var stock int
	err := r.DB.QueryRow(ctx, `SELECT stock FROM books WHERE id=$1`, bookID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if qty > stock {
		return fmt.Errorf("%w: book %s has %d, need %d", ErrInsufficientStock, bookID, stock, qty)
	}
	return nil
}

// Decrement reduces stock by qty. Stock never goes negative: the conditional
// update re-validates sufficiency under the row lock, so a racing checkout
// that lost the last unit fails instead of silently clamping.
func (r *Repo) Decrement(ctx context.Context, bookID string, qty int) error {
	return DecrementStock(ctx, r.DB, bookID, qty)
}

// execer is the slice of pgx shared by *pgxpool.Pool and pgx.Tx, so the same
// decrement runs standalone or inside a caller's transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DecrementStock is the single mutation path for books.stock. The conditional
// WHERE serializes per book id and makes a shortfall a zero-row update; the
// follow-up existence check distinguishes a vanished row (ErrNotFound, which
// callers may tolerate) from insufficiency (ErrInsufficientStock, which must
// abort the surrounding transaction).
func DecrementStock(ctx context.Context, q execer, bookID string, qty int) error {
	ct, err := q.Exec(ctx, `UPDATE books SET stock = stock - $2, updated_at=now()
	                        WHERE id=$1 AND stock >= $2`, bookID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() > 0 {
		return nil
	}
	var one int
	err = q.QueryRow(ctx, `SELECT 1 FROM books WHERE id=$1`, bookID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: book %s has less than %d", ErrInsufficientStock, bookID, qty)
}
