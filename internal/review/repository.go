// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/eightspots/internal/core"
)

type Repository interface {
	Create(ctx context.Context, review *Review) error
	ListForMovie(ctx context.Context, movieID int64) ([]Review, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (user_id, movie_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.GetContext(ctx, review, query,
		review.UserID,
		review.MovieID,
		review.Rating,
		review.Comment,
	)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create review: %w", core.ErrNotFound)
		}
		return core.StoreError("create review", err)
	}

	return nil
}

// ListForMovie returns reviews newest first, each with its author's current
// username.
func (r *repository) ListForMovie(ctx context.Context, movieID int64) ([]Review, error) {
	query := `
		SELECT r.id, r.user_id, r.movie_id, r.rating, r.comment, r.created_at,
		       u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.movie_id = $1
		ORDER BY r.created_at DESC, r.id DESC`

	reviews := []Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, movieID); err != nil {
		return nil, core.StoreError("list reviews", err)
	}

	return reviews, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM reviews`); err != nil {
		return 0, core.StoreError("count reviews", err)
	}
	return n, nil
}
