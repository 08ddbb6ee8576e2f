package domain

import "time"

// Project is a resource owned by exactly one User.
type Project struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     uint      `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectPatch carries the optional fields of a project update.
type ProjectPatch struct {
	Name        *string
	Description *string
	OwnerID     *uint
}

func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.OwnerID == nil
}

// Page bounds a list query.
type Page struct {
	Skip  int
	Limit int
}
