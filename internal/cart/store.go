package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/books"
	"github.com/ariefcatur/go-bookshop-checkout.git/internal/redisx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type persistedLine struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

// Store persists cart lines with an explicit cache policy: load-on-miss from
// postgres, write-through to redis on every save. The database is the source
// of truth; a cold or broken cache only costs a query.
type Store struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
	Books *books.Repo
}

func (s *Store) Load(ctx context.Context, ownerID string) (*Cart, error) {
	key := fmt.Sprintf(redisx.KeyCart, ownerID)
	if raw, err := s.Redis.Get(ctx, key).Result(); err == nil && raw != "" {
		var lines []persistedLine
		if err := json.Unmarshal([]byte(raw), &lines); err == nil {
			return s.rehydrate(ctx, ownerID, lines)
		}
	}

	rows, err := s.DB.Query(ctx, `SELECT book_id, quantity FROM cart_items WHERE owner_id=$1`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []persistedLine
	for rows.Next() {
		var l persistedLine
		if err := rows.Scan(&l.BookID, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_ = s.Redis.Set(ctx, key, string(mustJSON(lines)), redisx.TTLCart).Err()
	return s.rehydrate(ctx, ownerID, lines)
}

// Save replaces the persisted lines for the owner and refreshes the cache.
func (s *Store) Save(ctx context.Context, c *Cart) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE owner_id=$1`, c.OwnerID); err != nil {
		return err
	}
	lines := make([]persistedLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		if _, err := tx.Exec(ctx, `INSERT INTO cart_items(owner_id, book_id, quantity)
		                           VALUES ($1,$2,$3)`, c.OwnerID, l.Book.ID, l.Quantity); err != nil {
			return err
		}
		lines = append(lines, persistedLine{BookID: l.Book.ID, Quantity: l.Quantity})
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	key := fmt.Sprintf(redisx.KeyCart, c.OwnerID)
	if err := s.Redis.Set(ctx, key, string(mustJSON(lines)), redisx.TTLCart).Err(); err != nil {
		log.Printf("cart cache write owner=%s: %v", c.OwnerID, err)
	}
	return nil
}

// rehydrate resolves persisted (book_id, qty) pairs against the catalog.
// A line whose book has disappeared is dropped rather than failing the load.
func (s *Store) rehydrate(ctx context.Context, ownerID string, lines []persistedLine) (*Cart, error) {
	c := New(ownerID)
	for _, l := range lines {
		b, err := s.Books.Get(ctx, l.BookID)
		if errors.Is(err, books.ErrNotFound) {
			log.Printf("cart owner=%s references missing book %s, dropping line", ownerID, l.BookID)
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := c.AddItem(b, l.Quantity); err != nil {
			log.Printf("cart owner=%s invalid persisted line book=%s qty=%d: %v", ownerID, l.BookID, l.Quantity, err)
		}
	}
	return c, nil
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
