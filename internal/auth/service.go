// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/eightspots/internal/core"
	"github.com/carterperez-dev/eightspots/internal/middleware"
	"github.com/carterperez-dev/eightspots/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already taken")
)

type UserInfo struct {
	ID           int64
	Username     string
	PasswordHash string
}

// UserProvider is the credential store. Lookups return core.ErrNotFound for
// missing accounts; Create returns core.ErrDuplicateKey when the unique
// constraint on username rejects the insert.
type UserProvider interface {
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	Create(ctx context.Context, username, passwordHash string) (*UserInfo, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type Service struct {
	users  UserProvider
	store  session.Store
	hasher core.PasswordHasher
	roles  RolePolicy
}

func NewService(
	users UserProvider,
	store session.Store,
	hasher core.PasswordHasher,
	roles RolePolicy,
) *Service {
	return &Service{
		users:  users,
		store:  store,
		hasher: hasher,
		roles:  roles,
	}
}

// Register creates an account. It does not sign the caller in.
func (s *Service) Register(
	ctx context.Context,
	username, password string,
) (*UserInfo, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("register: %w", core.ErrInvalidInput)
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	return user, nil
}

// Authenticate answers ErrInvalidCredentials for an unknown username and for
// a wrong password alike, and spends the same hashing work on both paths.
func (s *Service) Authenticate(
	ctx context.Context,
	username, password string,
) (*UserInfo, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.BurnVerify(s.hasher, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) EstablishSession(ctx context.Context, userID int64) (string, error) {
	token, err := core.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	if err := s.store.Put(ctx, token, userID); err != nil {
		return "", fmt.Errorf("establish session: %w", err)
	}

	return token, nil
}

// Login is Authenticate followed by EstablishSession.
func (s *Service) Login(
	ctx context.Context,
	username, password string,
) (*UserInfo, string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.EstablishSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Resolve maps a session token to a principal. Unknown tokens, expired
// sessions and sessions whose account has vanished are all anonymous.
func (s *Service) Resolve(ctx context.Context, token string) (*middleware.Principal, error) {
	anonymous := &middleware.Principal{}
	if token == "" {
		return anonymous, nil
	}

	userID, err := s.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return anonymous, nil
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return anonymous, nil
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	return &middleware.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     s.roles.RoleFor(user.ID),
	}, nil
}

// TerminateSession is idempotent.
func (s *Service) TerminateSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("terminate session: %w", err)
	}
	return nil
}

var _ middleware.PrincipalResolver = (*Service)(nil)
