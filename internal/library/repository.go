// AngelaMos | 2026
// repository.go

package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/eightspots/internal/core"
)

var (
	ErrAlreadyOwned = errors.New("movie already owned")
	ErrNotOwned     = errors.New("movie not owned")
)

type Repository interface {
	Insert(ctx context.Context, userID, movieID int64) error
	Toggle(ctx context.Context, userID, movieID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]Item, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Insert relies on the (user_id, movie_id) primary key. A second purchase,
// racing or not, affects no rows and is ErrAlreadyOwned.
func (r *repository) Insert(ctx context.Context, userID, movieID int64) error {
	query := `
		INSERT INTO user_library (user_id, movie_id, status)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id, movie_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, userID, movieID)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("purchase: %w", core.ErrNotFound)
		}
		return core.StoreError("purchase", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return core.StoreError("purchase", err)
	}
	if rows == 0 {
		return ErrAlreadyOwned
	}

	return nil
}

// Toggle flips status in one statement. The row lock taken by UPDATE
// serialises concurrent toggles of the same pair.
func (r *repository) Toggle(ctx context.Context, userID, movieID int64) (bool, error) {
	query := `
		UPDATE user_library
		SET status = NOT status
		WHERE user_id = $1 AND movie_id = $2
		RETURNING status`

	var status bool
	err := r.db.GetContext(ctx, &status, query, userID, movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotOwned
	}
	if err != nil {
		return false, core.StoreError("toggle status", err)
	}

	return status, nil
}

func (r *repository) ListForUser(ctx context.Context, userID int64) ([]Item, error) {
	query := `
		SELECT m.id, m.title, m.score, m.price, m.genre_bitmap, m.poster_ref,
		       m.created_at, ul.status, ul.purchased_at
		FROM user_library ul
		JOIN movies m ON m.id = ul.movie_id
		WHERE ul.user_id = $1
		ORDER BY ul.purchased_at ASC, m.id ASC`

	items := []Item{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, core.StoreError("list library", err)
	}

	return items, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM user_library`); err != nil {
		return 0, core.StoreError("count library", err)
	}
	return n, nil
}
