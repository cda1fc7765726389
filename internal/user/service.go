// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/eightspots/internal/auth"
	"github.com/carterperez-dev/eightspots/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	username, passwordHash string,
) (*auth.UserInfo, error) {
	user := &User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.repo.ExistsByUsername(ctx, username)
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("get profile: %w", core.ErrSessionRequired)
	}
	return s.repo.GetByID(ctx, userID)
}

// ChangeUsername follows the same uniqueness contract as registration: the
// unique constraint decides, and a lost race is auth.ErrDuplicateUsername.
func (s *Service) ChangeUsername(
	ctx context.Context,
	userID int64,
	username string,
) (*User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("change username: %w", core.ErrSessionRequired)
	}
	if username == "" {
		return nil, fmt.Errorf("change username: %w", core.ErrInvalidInput)
	}

	user, err := s.repo.UpdateUsername(ctx, userID, username)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, auth.ErrDuplicateUsername
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
	}
}

var _ auth.UserProvider = (*Service)(nil)
