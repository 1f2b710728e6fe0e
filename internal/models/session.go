package models

// Session is the client-held record of the authenticated identity
type Session struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
	Token     string `json:"token,omitempty"`
}

// Valid reports whether the session has the expected shape
func (s *Session) Valid() bool {
	return s != nil && s.Username != "" && ValidRoles[s.Role]
}

// IsAdmin reports whether the session holds the admin role
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role.IsAdmin()
}

// SessionFromUser builds a session from the login response
func SessionFromUser(u User, token string) *Session {
	return &Session{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		Token:     token,
	}
}
