package model

import (
	"database/sql"
	"time"
)

// Role names are data, not an enum: roles live in the roles table and are
// resolved by name at registration time. These constants only name the two
// rows the migrations seed.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID           int           `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	Password     string        `json:"-"` // bcrypt hash, never serialized
	CompanyID    sql.NullInt64 `json:"-"` // users registered without a join code have no company
	Roles        []string      `json:"roles"`
	LastActiveAt sql.NullTime  `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
}

// UserView is the safe projection of a User returned by auth endpoints.
type UserView struct {
	ID        int      `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CompanyID *int64   `json:"company_id,omitempty"`
}

func (u *User) View() UserView {
	view := UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    u.Roles,
	}
	if u.CompanyID.Valid {
		id := u.CompanyID.Int64
		view.CompanyID = &id
	}
	return view
}
