// AngelaMos | 2026
// service.go

package location

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

func (s *Service) Create(
	ctx context.Context,
	p *middleware.Principal,
	phone, city, address string,
) (*Location, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("create location: %w", core.ErrPermissionDenied)
	}

	loc := &Location{
		PhoneNum: strings.TrimSpace(phone),
		City:     strings.TrimSpace(city),
		Address:  strings.TrimSpace(address),
	}
	if loc.PhoneNum == "" || loc.City == "" || loc.Address == "" {
		return nil, fmt.Errorf("create location: %w", core.ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *Service) List(ctx context.Context) ([]Location, error) {
	return s.repo.List(ctx)
}
