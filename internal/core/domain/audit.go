package domain

import "time"

// Audit actions.
const (
	AuditLogin          = "login"
	AuditTokenRejected  = "token_rejected"
	AuditUserCreated    = "user_created"
	AuditUserUpdated    = "user_updated"
	AuditUserDeleted    = "user_deleted"
	AuditProjectCreated = "project_created"
	AuditProjectUpdated = "project_updated"
	AuditProjectDeleted = "project_deleted"
)

// AuditEvent records a security-relevant action.
type AuditEvent struct {
	Action    string
	Username  string
	UserID    uint
	Success   bool
	IP        string
	RequestID string
	Detail    string
	At        time.Time
}
