// AngelaMos | 2026
// dto.go

package catalog

import (
	"time"

	"github.com/carterperez-dev/eightspots/internal/genre"
)

type CreateMovieRequest struct {
	Title  string   `validate:"required,max=200"`
	Score  float64  `validate:"gte=0,lte=10"`
	Price  float64  `validate:"gte=0"`
	Genres []string `validate:"dive,required"`
}

type MovieResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Score     float64   `json:"score"`
	Stars     int       `json:"stars"`
	Price     float64   `json:"price"`
	Genres    []string  `json:"genres"`
	Bitmap    uint64    `json:"genre_bitmap"`
	PosterRef string    `json:"poster_ref"`
	CreatedAt time.Time `json:"created_at"`
}

type ShelfResponse struct {
	Genre  string          `json:"genre"`
	Movies []MovieResponse `json:"movies"`
}

type GenreResponse struct {
	Bit   int    `json:"bit"`
	Label string `json:"label"`
}

func ToMovieResponse(m *Movie, vocab *genre.Vocabulary) MovieResponse {
	return MovieResponse{
		ID:        m.ID,
		Title:     m.Title,
		Score:     m.Score,
		Stars:     m.Stars(),
		Price:     m.Price,
		Genres:    vocab.Decode(m.Bitmap),
		Bitmap:    m.Bitmap & vocab.Mask(),
		PosterRef: m.PosterRef,
		CreatedAt: m.CreatedAt,
	}
}

func ToMovieResponseList(movies []Movie, vocab *genre.Vocabulary) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, ToMovieResponse(&movies[i], vocab))
	}
	return out
}

func ToShelfResponseList(shelves []genre.Shelf[Movie], vocab *genre.Vocabulary) []ShelfResponse {
	out := make([]ShelfResponse, 0, len(shelves))
	for _, s := range shelves {
		out = append(out, ShelfResponse{
			Genre:  s.Label,
			Movies: ToMovieResponseList(s.Entries, vocab),
		})
	}
	return out
}
