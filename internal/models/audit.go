package models

// AuditEntry is a server-produced record of a user action
type AuditEntry struct {
	ID        int    `json:"id"`
	CreatedAt string `json:"created_at"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// Audit actions recorded by the server
const (
	ActionRegister   = "REGISTER"
	ActionLogin      = "LOGIN"
	ActionCreateDoc  = "CREATE_DOC"
	ActionDeleteDoc  = "DELETE_DOC"
	ActionComment    = "COMMENT"
	ActionUpdateUser = "UPDATE_USER"
	ActionDeleteUser = "DELETE_USER"
)

// MaxAuditDetails is the length at which the server truncates details
const MaxAuditDetails = 500
