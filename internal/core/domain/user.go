package domain

import "time"

// User models a registered account.
type User struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	FullName       string    `json:"full_name,omitempty"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserPatch carries the optional fields of a profile update. Nil means
// "leave unchanged".
type UserPatch struct {
	Username       *string
	Email          *string
	FullName       *string
	HashedPassword *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.FullName == nil && p.HashedPassword == nil
}
