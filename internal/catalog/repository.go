// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/eightspots/internal/core"
)

const movieColumns = `id, title, score, price, genre_bitmap, poster_ref, created_at`

type Repository interface {
	Create(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id int64) (*Movie, error)
	List(ctx context.Context) ([]Movie, error)
	ListRanked(ctx context.Context) ([]Movie, error)
	TopByGenre(ctx context.Context, bit uint64, n int) ([]Movie, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, movie *Movie) error {
	query := `
		INSERT INTO movies (title, score, price, genre_bitmap, poster_ref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.GetContext(ctx, movie, query,
		movie.Title,
		movie.Score,
		movie.Price,
		int64(movie.Bitmap),
		movie.PosterRef,
	)
	if err != nil {
		return core.StoreError("create movie", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	var movie Movie
	err := r.db.GetContext(ctx, &movie, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get movie: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get movie", err)
	}

	return &movie, nil
}

func (r *repository) List(ctx context.Context) ([]Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY id ASC`

	movies := []Movie{}
	if err := r.db.SelectContext(ctx, &movies, query); err != nil {
		return nil, core.StoreError("list movies", err)
	}

	return movies, nil
}

// ListRanked returns every movie, best score first and lowest id first on
// ties.
func (r *repository) ListRanked(ctx context.Context) ([]Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY score DESC, id ASC`

	movies := []Movie{}
	if err := r.db.SelectContext(ctx, &movies, query); err != nil {
		return nil, core.StoreError("list ranked movies", err)
	}

	return movies, nil
}

func (r *repository) TopByGenre(ctx context.Context, bit uint64, n int) ([]Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE (genre_bitmap & $1) <> 0
		ORDER BY score DESC, id ASC
		LIMIT $2`

	movies := []Movie{}
	if err := r.db.SelectContext(ctx, &movies, query, int64(bit), n); err != nil {
		return nil, core.StoreError("top movies by genre", err)
	}

	return movies, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM movies`); err != nil {
		return 0, core.StoreError("count movies", err)
	}
	return n, nil
}

// loadLabels reads the persisted vocabulary in bit order.
func loadLabels(ctx context.Context, db core.DBTX) ([]string, error) {
	labels := []string{}
	err := db.SelectContext(ctx, &labels, `SELECT label FROM genre_labels ORDER BY bit ASC`)
	if err != nil {
		return nil, core.StoreError("load genre labels", err)
	}
	return labels, nil
}

// appendLabels inserts labels at bit positions start, start+1, ...
func appendLabels(ctx context.Context, db core.DBTX, start int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(labels))
	args := make([]any, 0, 2*len(labels))
	for i, label := range labels {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", 2*i+1, 2*i+2))
		args = append(args, start+i, label)
	}

	query := `INSERT INTO genre_labels (bit, label) VALUES ` + strings.Join(placeholders, ", ")
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("append genre labels: %w", core.ErrDuplicateKey)
		}
		return core.StoreError("append genre labels", err)
	}
	return nil
}
