// AngelaMos | 2026
// entity.go

package catalog

import (
	"math"
	"time"
)

type Movie struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Score     float64   `db:"score"`
	Price     float64   `db:"price"`
	Bitmap    uint64    `db:"genre_bitmap"`
	PosterRef string    `db:"poster_ref"`
	CreatedAt time.Time `db:"created_at"`
}

func (m Movie) GenreBitmap() uint64 { return m.Bitmap }
func (m Movie) RankScore() float64  { return m.Score }
func (m Movie) RankID() int64       { return m.ID }

// Stars is the score out of 10 shown as whole stars out of 5.
func (m Movie) Stars() int {
	return int(math.Round(m.Score / 2))
}

const (
	MinScore = 0
	MaxScore = 10
)
