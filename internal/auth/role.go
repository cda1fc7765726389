// AngelaMos | 2026
// role.go

package auth

import (
	"github.com/carterperez-dev/eightspots/internal/middleware"
)

type RolePolicy interface {
	RoleFor(userID int64) string
}

// AdminIDs grants the admin role to a fixed set of account ids.
type AdminIDs map[int64]struct{}

func NewAdminIDs(ids []int64) AdminIDs {
	set := make(AdminIDs, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (a AdminIDs) RoleFor(userID int64) string {
	if _, ok := a[userID]; ok {
		return middleware.RoleAdmin
	}
	return middleware.RoleUser
}
