package domain

import (
	"errors"
	"time"
)

// AuditAction represents a type-safe action identifier for the audit log.
type AuditAction string

// System Audit Actions
const (
	ActionLogin       AuditAction = "LOGIN"
	ActionLogout      AuditAction = "LOGOUT"
	ActionLinkCreate  AuditAction = "LINK_CREATED"
	ActionLinkUpdate  AuditAction = "LINK_UPDATED"
	ActionLinkDelete  AuditAction = "LINK_DELETED"
	ActionScan        AuditAction = "SCAN_COMPLETED"
	ActionAssetDelete AuditAction = "ASSET_DELETED"
	ActionVulnDelete  AuditAction = "VULN_DELETED"
	ActionUserCreate  AuditAction = "USER_CREATED"
	ActionInfo        AuditAction = "INFO"
)

// Domain Errors
var (
	ErrInvalidAction = errors.New("invalid audit action")
	ErrMissingUser   = errors.New("user identification is required for auditing")
)

// AuditLog represents a record of a critical system action.
type AuditLog struct {
	ID        uint        `json:"id"`
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"` // Denormalized for display/reporting
	Action    AuditAction `json:"action"`
	Target    string      `json:"target"` // The resource affected (asset id, link id, username)
	Details   string      `json:"details"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewAuditLog is the designated factory for creating valid AuditLog entities.
func NewAuditLog(userID, username string, action AuditAction, target, details string) (*AuditLog, error) {
	if userID == "" && username == "" {
		return nil, ErrMissingUser
	}

	if !isValidAction(action) {
		return nil, ErrInvalidAction
	}

	return &AuditLog{
		UserID:    userID,
		Username:  username,
		Action:    action,
		Target:    target,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, nil
}

func isValidAction(action AuditAction) bool {
	switch action {
	case ActionLogin, ActionLogout, ActionLinkCreate, ActionLinkUpdate,
		ActionLinkDelete, ActionScan, ActionAssetDelete, ActionVulnDelete,
		ActionUserCreate, ActionInfo:
		return true
	}
	return false
}
