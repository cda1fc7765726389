// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/genre"
	"github.com/carterperez-dev/eightspots/internal/middleware"
	"github.com/carterperez-dev/eightspots/internal/storage"
)

type CreateInput struct {
	Title  string
	Score  float64
	Price  float64
	Genres []string
	// Bitmap is used instead of Genres when set.
	Bitmap *uint64
}

type Poster struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Service struct {
	repo    Repository
	vocab   *genre.Vocabulary
	posters *storage.PosterStore
	topN    int
}

func NewService(
	repo Repository,
	vocab *genre.Vocabulary,
	posters *storage.PosterStore,
	topN int,
) *Service {
	return &Service{
		repo:    repo,
		vocab:   vocab,
		posters: posters,
		topN:    topN,
	}
}

func (s *Service) Vocabulary() *genre.Vocabulary {
	return s.vocab
}

func (s *Service) DefaultTopN() int {
	return s.topN
}

// Create adds a movie. Only administrators may call it. The poster is
// uploaded first and removed again if the insert fails.
func (s *Service) Create(
	ctx context.Context,
	p *middleware.Principal,
	in CreateInput,
	poster *Poster,
) (*Movie, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("create movie: %w", core.ErrPermissionDenied)
	}

	bitmap, err := s.validate(in)
	if err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	if poster == nil || poster.Body == nil {
		return nil, fmt.Errorf("create movie: poster required: %w", core.ErrInvalidInput)
	}

	ref, err := s.posters.Save(ctx, poster.Filename, poster.Body, poster.Size, poster.ContentType)
	if err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	movie := &Movie{
		Title:     strings.TrimSpace(in.Title),
		Score:     in.Score,
		Price:     in.Price,
		Bitmap:    bitmap,
		PosterRef: ref,
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		if rmErr := s.posters.Remove(ctx, ref); rmErr != nil {
			return nil, errors.Join(err, fmt.Errorf("remove orphaned poster %s: %w", ref, rmErr))
		}
		return nil, err
	}

	return movie, nil
}

func (s *Service) validate(in CreateInput) (uint64, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, fmt.Errorf("title required: %w", core.ErrInvalidInput)
	}
	if math.IsNaN(in.Score) || in.Score < MinScore || in.Score > MaxScore {
		return 0, fmt.Errorf("score %v outside [0,10]: %w", in.Score, core.ErrInvalidInput)
	}
	if math.IsNaN(in.Price) || in.Price < 0 {
		return 0, fmt.Errorf("negative price: %w", core.ErrInvalidInput)
	}

	if in.Bitmap != nil {
		if err := s.vocab.Validate(*in.Bitmap); err != nil {
			return 0, err
		}
		return *in.Bitmap, nil
	}

	return s.vocab.Encode(in.Genres)
}

func (s *Service) List(ctx context.Context) ([]Movie, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Movie, error) {
	return s.repo.GetByID(ctx, id)
}

// TopByGenre runs one filtered, ordered and limited query for label.
func (s *Service) TopByGenre(ctx context.Context, label string, n int) (movies []Movie, err error) {
	ctx, span := core.StartSpan(ctx, "catalog.TopByGenre",
		attribute.String("genre", label),
		attribute.Int("n", n),
	)
	defer func() { core.EndSpan(span, err) }()

	bit, err := s.vocab.Bit(label)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []Movie{}, nil
	}

	return s.repo.TopByGenre(ctx, bit, n)
}

// TopForAllGenres reads the ranked catalog once and groups it in memory.
// Shelves follow vocabulary order, one per label.
func (s *Service) TopForAllGenres(ctx context.Context, n int) (shelves []genre.Shelf[Movie], err error) {
	ctx, span := core.StartSpan(ctx, "catalog.TopForAllGenres",
		attribute.Int("genres", s.vocab.Len()),
		attribute.Int("n", n),
	)
	defer func() { core.EndSpan(span, err) }()

	movies, err := s.repo.ListRanked(ctx)
	if err != nil {
		return nil, err
	}

	return genre.GroupTopN(s.vocab, movies, n), nil
}

func (s *Service) OpenPoster(ctx context.Context, id int64) (io.ReadCloser, *Movie, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.posters.Open(ctx, movie.PosterRef)
	if err != nil {
		return nil, nil, err
	}
	return rc, movie, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
