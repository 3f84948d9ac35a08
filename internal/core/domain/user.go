package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User models a storefront customer or administrator.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Session is a server-side login. Its ID travels in the signed session cookie
// and must still be registered for the cookie to be honoured.
type Session struct {
	ID        string
	UserID    string
	Role      string
	ExpiresAt time.Time
}
