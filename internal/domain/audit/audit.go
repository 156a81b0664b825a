// Package audit defines append-only audit log entries.
package audit

import "time"

// Action is the kind of activity being recorded.
type Action string

const (
	ActionCreate       Action = "CREATE"
	ActionUpdate       Action = "UPDATE"
	ActionDelete       Action = "DELETE"
	ActionAccessDenied Action = "ACCESS_DENIED"
	ActionImport       Action = "IMPORT"
	ActionExport       Action = "EXPORT"
	ActionLogin        Action = "LOGIN"
	ActionLogout       Action = "LOGOUT"
)

// Entry is one audit log record. Entries are written once and never changed.
type Entry struct {
	ID           string
	ActorID      string
	Action       Action
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}

// Filter holds optional criteria for reading the audit log.
type Filter struct {
	ActorID    string
	Action     Action
	ResourceID string
}

// Matches reports whether e satisfies the filter.
func (f Filter) Matches(e *Entry) bool {
	if f.ActorID != "" && e.ActorID != f.ActorID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.ResourceID != "" && e.ResourceID != f.ResourceID {
		return false
	}
	return true
}
