// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/eightspots/internal/core"
)

func TestServiceRejectsAnonymousAndBlank(t *testing.T) {
	repo, _ := newMockRepo(t)
	svc := NewService(repo)

	_, err := svc.ChangeUsername(context.Background(), 0, "x")
	assert.ErrorIs(t, err, core.ErrSessionRequired)

	_, err = svc.ChangeUsername(context.Background(), 2, "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.GetProfile(context.Background(), 0)
	assert.ErrorIs(t, err, core.ErrSessionRequired)
}
