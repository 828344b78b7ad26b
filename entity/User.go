package entity

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"` // bcrypt hash
	Name     string `json:"name"`
	Role     string `gorm:"not null;default:cashier" json:"role"`

	// สิทธิ์แบบ csv เช่น "pos,reports" — เช็คผ่าน HasScope
	Scopes string `gorm:"default:pos" json:"scopes"`
}

func (u *User) HasScope(scope string) bool {
	for _, s := range strings.Split(u.Scopes, ",") {
		if strings.TrimSpace(s) == scope {
			return true
		}
	}
	return false
}

func (u *User) ScopeList() []string {
	out := make([]string, 0, 4)
	for _, s := range strings.Split(u.Scopes, ",") {
		if v := strings.TrimSpace(s); v != "" {
			out = append(out, v)
		}
	}
	return out
}
