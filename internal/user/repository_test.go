// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/eightspots/internal/auth"
	"github.com/carterperez-dev/eightspots/internal/core"
)

var userColumns = []string{"id", "username", "password_hash", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, password_hash)")).
		WithArgs("alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), now, now))

	u := &User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(7), u.ID)
}

func TestRepositoryCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Create(context.Background(), &User{Username: "alice", PasswordHash: "h"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRepositoryGetByUsername(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username = \\$1").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(2), "alice", "h", now, now))

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.ID)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username = \\$1").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryGetByIDStoreOutage(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnError(errors.New("driver: bad connection"))

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryUpdateUsername(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("UPDATE users SET username = \\$2").
		WithArgs(int64(2), "alicia").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(2), "alicia", "h", now, now))

	u, err := repo.UpdateUsername(context.Background(), 2, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "alicia", u.Username)

	mock.ExpectQuery("UPDATE users SET username = \\$2").
		WithArgs(int64(2), "bob").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.UpdateUsername(context.Background(), 2, "bob")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRepositoryList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE username ILIKE \\$1").
		WithArgs("%al\\_%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY id ASC").
		WithArgs("%al\\_%", 20, 0).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(2), "al_ice", "h", now, now))

	users, total, err := repo.List(context.Background(), ListUsersParams{Search: "al_"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "al_ice", users[0].Username)
}

func TestServiceChangeUsernameDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewService(repo)

	mock.ExpectQuery("UPDATE users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.ChangeUsername(context.Background(), 2, "taken")
	assert.ErrorIs(t, err, auth.ErrDuplicateUsername)

	_, err = svc.ChangeUsername(context.Background(), 0, "x")
	assert.ErrorIs(t, err, core.ErrSessionRequired)
}

func TestServiceProvidesCredentials(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewService(repo)
	now := time.Now()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))

	exists, err := svc.UsernameExists(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	info, err := svc.Create(context.Background(), "alice", "hash")
	require.NoError(t, err)
	assert.Equal(t, &auth.UserInfo{ID: 1, Username: "alice", PasswordHash: "hash"}, info)
}
