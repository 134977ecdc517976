package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEventType names a user-visible data change.
type AuditEventType string

const (
	AuditRecordAdded       AuditEventType = "record_added"
	AuditRecordDeleted     AuditEventType = "record_deleted"
	AuditReminderScheduled AuditEventType = "reminder_scheduled"
	AuditReminderCompleted AuditEventType = "reminder_completed"
	AuditReminderDeleted   AuditEventType = "reminder_deleted"
	AuditDataCleared       AuditEventType = "data_cleared"
	AuditCountriesImported AuditEventType = "countries_imported"
	AuditGameFinished      AuditEventType = "game_finished"
)

// AuditEvent is one line of the audit trail.
type AuditEvent struct {
	Timestamp int64                  `json:"ts"` // Unix milliseconds
	EventType AuditEventType         `json:"event"`
	Category  string                 `json:"cat"`
	Target    string                 `json:"target,omitempty"`
	Success   bool                   `json:"success"`
	Error     string                 `json:"error,omitempty"`
	Message   string                 `json:"msg,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// =============================================================================
// AUDIT LOGGER
// =============================================================================

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// AuditLogger writes audit events for one category.
type AuditLogger struct {
	category Category
}

// InitAudit opens <home>/logs/<date>_audit.jsonl. A no-op outside debug mode.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	cfgMu.RLock()
	dir := logsDir
	cfgMu.RUnlock()

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_audit.jsonl", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit returns an audit logger for category.
func Audit(category Category) *AuditLogger {
	return &AuditLogger{category: category}
}

// Log writes an event as a JSON line.
func (a *AuditLogger) Log(event AuditEvent) {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.Category == "" {
		event.Category = string(a.category)
	}

	data, err := json.Marshal(event)
	if err == nil {
		auditFile.Write(append(data, '\n'))
	}
}

// =============================================================================
// CONVENIENCE METHODS
// =============================================================================

// Change records a mutation of target; err is nil on success.
func (a *AuditLogger) Change(event AuditEventType, target string, err error, fields map[string]interface{}) {
	e := AuditEvent{
		EventType: event,
		Target:    target,
		Success:   err == nil,
		Fields:    fields,
	}
	if err != nil {
		e.Error = err.Error()
	}
	a.Log(e)
}

// GameFinished records the outcome of a quiz round.
func (a *AuditLogger) GameFinished(correct, answered, score int) {
	a.Log(AuditEvent{
		EventType: AuditGameFinished,
		Success:   true,
		Fields: map[string]interface{}{
			"correct":  correct,
			"answered": answered,
			"score":    score,
		},
	})
}
