package books

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("book not found")
	ErrInvalidBook       = errors.New("price and stock must be non-negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Book struct {
	ID        string
	Title     string
	Author    string
	Price     float64
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b Book) Validate() error {
	if b.Price < 0 || b.Stock < 0 {
		return ErrInvalidBook
	}
	return nil
}
