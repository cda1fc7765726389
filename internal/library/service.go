// AngelaMos | 2026
// service.go

package library

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/eightspots/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Purchase adds movieID to the user's library as unwatched.
func (s *Service) Purchase(ctx context.Context, userID, movieID int64) error {
	if userID == 0 {
		return fmt.Errorf("purchase: %w", core.ErrSessionRequired)
	}
	return s.repo.Insert(ctx, userID, movieID)
}

// ToggleStatus flips watched/unwatched and returns the new status.
func (s *Service) ToggleStatus(ctx context.Context, userID, movieID int64) (status bool, err error) {
	ctx, span := core.StartSpan(ctx, "library.ToggleStatus",
		attribute.Int64("user_id", userID),
		attribute.Int64("movie_id", movieID),
	)
	defer func() { core.EndSpan(span, err) }()

	if userID == 0 {
		return false, fmt.Errorf("toggle status: %w", core.ErrSessionRequired)
	}

	status, err = s.repo.Toggle(ctx, userID, movieID)
	if err != nil {
		return false, err
	}

	span.SetAttributes(attribute.Bool("status", status))
	return status, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Item, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Shelves splits the library into unwatched and watched, each keeping the
// order ListForUser returned.
func (s *Service) Shelves(ctx context.Context, userID int64) (*Shelves, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	shelves := &Shelves{Unwatched: []Item{}, Watched: []Item{}}
	for _, item := range items {
		if item.Status {
			shelves.Watched = append(shelves.Watched, item)
		} else {
			shelves.Unwatched = append(shelves.Unwatched, item)
		}
	}
	return shelves, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
