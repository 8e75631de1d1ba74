package domain

import "time"

// AuditAction identifies the kind of mutation recorded in the audit trail.
type AuditAction string

const (
	AuditAccountCreate  AuditAction = "account.create"
	AuditAccountBlock   AuditAction = "account.block"
	AuditAccountUnblock AuditAction = "account.unblock"
	AuditRoleChange     AuditAction = "account.role_change"
	AuditAccountDelete  AuditAction = "account.delete"
	AuditGroupAdd       AuditAction = "group.add"
	AuditGroupRemove    AuditAction = "group.remove"
)

// AuditEvent records a single mutating account or group action.
// Events are written asynchronously; a lost event never fails the request
// that produced it.
type AuditEvent struct {
	ActorID   string      `json:"actorId"`
	ActorRole Role        `json:"actorRole"`
	Action    AuditAction `json:"action"`
	TargetID  string      `json:"targetId"`
	Detail    string      `json:"detail,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
