package models

// Role is the access level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRoles defines allowed user roles
var ValidRoles = map[Role]bool{
	RoleUser:  true,
	RoleAdmin: true,
}

// IsAdmin reports whether r grants administrative capabilities
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User represents an account as listed in the admin screen
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Stats are the dashboard counters
type Stats struct {
	Users  int64 `json:"users"`
	Docs   int64 `json:"docs"`
	Audits int64 `json:"audits"`
}
