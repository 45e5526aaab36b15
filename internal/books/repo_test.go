package books

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecer scripts the two statements DecrementStock issues: the
// conditional UPDATE and the existence probe on a zero-row update.
type stubExecer struct {
	updated bool  // whether the conditional UPDATE matches a row
	execErr error
	scanErr error // returned by the existence probe row
}

type stubRow struct{ err error }

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return nil
}

func (s *stubExecer) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	if s.execErr != nil {
		return pgconn.CommandTag{}, s.execErr
	}
	if s.updated {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return pgconn.NewCommandTag("UPDATE 0"), nil
}

func (s *stubExecer) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return stubRow{err: s.scanErr}
}

func TestDecrementStockSufficient(t *testing.T) {
	q := &stubExecer{updated: true}
	require.NoError(t, DecrementStock(context.Background(), q, "a", 2))
}

// The conditional UPDATE matches no row when stock < qty even though the book
// exists: that is a shortfall, and it must fail rather than clamp, so a
// checkout that lost the race for the last unit cannot confirm.
func TestDecrementStockShortfallFails(t *testing.T) {
	q := &stubExecer{updated: false}

	err := DecrementStock(context.Background(), q, "a", 2)

	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestDecrementStockMissingBook(t *testing.T) {
	q := &stubExecer{updated: false, scanErr: pgx.ErrNoRows}

	err := DecrementStock(context.Background(), q, "gone", 1)

	assert.ErrorIs(t, err, ErrNotFound)
}
