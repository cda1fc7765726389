// AngelaMos | 2026
// repository.go

package location

import (
	"context"

	"github.com/carterperez-dev/eightspots/internal/core"
)

type Repository interface {
	Create(ctx context.Context, loc *Location) error
	List(ctx context.Context) ([]Location, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, loc *Location) error {
	query := `
		INSERT INTO locations (phone_num, city, address)
		VALUES ($1, $2, $3)
		RETURNING id`

	if err := r.db.GetContext(ctx, &loc.ID, query, loc.PhoneNum, loc.City, loc.Address); err != nil {
		return core.StoreError("create location", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]Location, error) {
	query := `SELECT id, phone_num, city, address FROM locations ORDER BY id ASC`

	locations := []Location{}
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, core.StoreError("list locations", err)
	}
	return locations, nil
}
