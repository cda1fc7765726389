// AngelaMos | 2026
// entity.go

package location

type Location struct {
	ID       int64  `db:"id"        json:"id"`
	PhoneNum string `db:"phone_num" json:"phone_num"`
	City     string `db:"city"      json:"city"`
	Address  string `db:"address"   json:"address"`
}
