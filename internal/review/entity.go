// AngelaMos | 2026
// entity.go

package review

import (
	"time"
)

const (
	MinRating = 0
	MaxRating = 5
)

type Review struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	MovieID   int64     `db:"movie_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	Username  string    `db:"username"`
}
