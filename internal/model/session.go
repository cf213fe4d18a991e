package model

import "time"

// Session records which user is currently authenticated.
// It holds a value copy of the user taken at login time; later edits to the
// credential store do not propagate into an existing session.
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession builds a session snapshot for the given user.
func NewSession(u *User) *Session {
	return &Session{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: time.Now().UTC(),
	}
}
