// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create appends a review by p. A missing movie is core.ErrNotFound.
func (s *Service) Create(
	ctx context.Context,
	p *middleware.Principal,
	movieID int64,
	rating int,
	comment string,
) (*Review, error) {
	if !p.IsAuthenticated() {
		return nil, fmt.Errorf("create review: %w", core.ErrSessionRequired)
	}
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("create review: rating %d outside [0,5]: %w", rating, core.ErrInvalidInput)
	}

	review := &Review{
		UserID:   p.UserID,
		MovieID:  movieID,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
		Username: p.Username,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *Service) ListForMovie(ctx context.Context, movieID int64) ([]Review, error) {
	return s.repo.ListForMovie(ctx, movieID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
