// AngelaMos | 2026
// entity.go

package library

import (
	"time"

	"github.com/carterperez-dev/eightspots/internal/catalog"
)

// Item is one owned movie. Status false is unwatched, true is watched.
type Item struct {
	catalog.Movie
	Status      bool      `db:"status"`
	PurchasedAt time.Time `db:"purchased_at"`
}

type Shelves struct {
	Unwatched []Item
	Watched   []Item
}
