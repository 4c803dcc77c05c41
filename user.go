package maney

import "time"

// User is the authenticated principal as returned by the backend on login or
// registration.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// IsZero reports whether u carries no identity at all.
func (u User) IsZero() bool {
	return u.ID == 0 && u.Username == "" && u.Email == ""
}

// Name returns the best display name for u.
func (u User) Name() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
