package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"shieldkit/internal/logging"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record or reminder id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMissingField is returned when a required input field is empty.
	ErrMissingField = errors.New("missing required field")
)

const (
	// A record with a next dose date yields the second dose of a two-dose series.
	reminderDoseNumber = 2
	reminderTotalDoses = 2
)

// Persistence is the storage port for the two tracked collections.
// Malformed data loads as an empty collection; a storage read failure is
// returned as an error.
type Persistence interface {
	LoadRecords(ctx context.Context) ([]Record, error)
	SaveRecords(ctx context.Context, records []Record) error
	LoadReminders(ctx context.Context) ([]Reminder, error)
	SaveReminders(ctx context.Context, reminders []Reminder) error
	Clear(ctx context.Context) error
}

// Tracker owns the in-memory record and reminder collections and writes
// every change through to Persistence.
type Tracker struct {
	mu        sync.RWMutex
	store     Persistence
	records   []Record
	reminders []Reminder
	now       func() time.Time
	newID     func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) { t.newID = gen }
}

// New loads both collections and returns a ready Tracker. A load failure is
// returned rather than starting from empty collections that the next write
// would persist over the unread data.
func New(ctx context.Context, store Persistence, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	records, err := store.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	reminders, err := store.LoadReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	t.records, t.reminders = records, reminders
	logging.Tracker("loaded %d records, %d reminders", len(t.records), len(t.reminders))
	return t, nil
}

// AddRecord validates and stores a new record. When NextDoseDate is set, a
// reminder for that date is created and returned as well.
func (t *Tracker) AddRecord(ctx context.Context, in NewRecord) (Record, *Reminder, error) {
	if strings.TrimSpace(in.VaccineName) == "" {
		return Record{}, nil, fmt.Errorf("%w: vaccine name", ErrMissingField)
	}
	if in.DateAdministered.IsZero() {
		return Record{}, nil, fmt.Errorf("%w: date administered", ErrMissingField)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	record := Record{
		ID:               t.newID(),
		VaccineName:      strings.TrimSpace(in.VaccineName),
		DateAdministered: in.DateAdministered,
		NextDoseDate:     in.NextDoseDate,
		LotNumber:        in.LotNumber,
		Location:         in.Location,
		Notes:            in.Notes,
	}

	audit := logging.Audit(logging.CategoryTracker)
	records := append(append([]Record(nil), t.records...), record)
	if err := t.store.SaveRecords(ctx, records); err != nil {
		err = fmt.Errorf("failed to save records: %w", err)
		audit.Change(logging.AuditRecordAdded, record.ID, err, nil)
		return Record{}, nil, err
	}

	if record.NextDoseDate == nil {
		t.records = records
		logging.Tracker("record %s added: %s", record.ID, record.VaccineName)
		audit.Change(logging.AuditRecordAdded, record.ID, nil, map[string]interface{}{"vaccine": record.VaccineName})
		return record, nil, nil
	}

	reminder := Reminder{
		ID:                  "reminder-" + t.newID(),
		VaccinationRecordID: record.ID,
		VaccineName:         record.VaccineName,
		ScheduledDate:       *record.NextDoseDate,
		DoseNumber:          reminderDoseNumber,
		TotalDoses:          reminderTotalDoses,
	}
	reminders := append(append([]Reminder(nil), t.reminders...), reminder)
	if err := t.store.SaveReminders(ctx, reminders); err != nil {
		err = fmt.Errorf("failed to save reminders: %w", err)
		// The record is only committed alongside its reminder.
		if rbErr := t.store.SaveRecords(ctx, t.records); rbErr != nil {
			logging.TrackerError("rollback of record %s failed: %v", record.ID, rbErr)
			err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		audit.Change(logging.AuditRecordAdded, record.ID, err, nil)
		return Record{}, nil, err
	}
	t.records = records
	t.reminders = reminders
	logging.Tracker("record %s added: %s", record.ID, record.VaccineName)
	audit.Change(logging.AuditRecordAdded, record.ID, nil, map[string]interface{}{"vaccine": record.VaccineName})
	logging.TrackerDebug("reminder %s scheduled for %s", reminder.ID, FormatISO(reminder.ScheduledDate))
	audit.Change(logging.AuditReminderScheduled, reminder.ID, nil, map[string]interface{}{"record": record.ID})

	return record, &reminder, nil
}

// DeleteRecord removes a record and every reminder that references it.
func (t *Tracker) DeleteRecord(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	records := make([]Record, 0, len(t.records))
	found := false
	for _, r := range t.records {
		if r.ID == id {
			found = true
			continue
		}
		records = append(records, r)
	}
	if !found {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}

	reminders := make([]Reminder, 0, len(t.reminders))
	for _, r := range t.reminders {
		if r.VaccinationRecordID != id {
			reminders = append(reminders, r)
		}
	}

	// Reminders go first so a failure never leaves one pointing at a
	// deleted record.
	audit := logging.Audit(logging.CategoryTracker)
	if err := t.store.SaveReminders(ctx, reminders); err != nil {
		err = fmt.Errorf("failed to save reminders: %w", err)
		audit.Change(logging.AuditRecordDeleted, id, err, nil)
		return err
	}
	if err := t.store.SaveRecords(ctx, records); err != nil {
		err = fmt.Errorf("failed to save records: %w", err)
		if rbErr := t.store.SaveReminders(ctx, t.reminders); rbErr != nil {
			logging.TrackerError("rollback of reminders for record %s failed: %v", id, rbErr)
			err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		audit.Change(logging.AuditRecordDeleted, id, err, nil)
		return err
	}
	removed := len(t.reminders) - len(reminders)
	t.records = records
	t.reminders = reminders

	logging.Tracker("record %s deleted with %d reminders", id, removed)
	audit.Change(logging.AuditRecordDeleted, id, nil, map[string]interface{}{"reminders_removed": removed})
	return nil
}

// CompleteReminder marks a reminder as done.
func (t *Tracker) CompleteReminder(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.reminderIndex(id)
	if idx < 0 {
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}

	reminders := append([]Reminder(nil), t.reminders...)
	reminders[idx].Completed = true
	if err := t.store.SaveReminders(ctx, reminders); err != nil {
		err = fmt.Errorf("failed to save reminders: %w", err)
		logging.Audit(logging.CategoryTracker).Change(logging.AuditReminderCompleted, id, err, nil)
		return err
	}
	t.reminders = reminders
	logging.Tracker("reminder %s completed", id)
	logging.Audit(logging.CategoryTracker).Change(logging.AuditReminderCompleted, id, nil, nil)
	return nil
}

// DeleteReminder removes one reminder; its record is untouched.
func (t *Tracker) DeleteReminder(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.reminderIndex(id)
	if idx < 0 {
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}

	reminders := make([]Reminder, 0, len(t.reminders)-1)
	reminders = append(reminders, t.reminders[:idx]...)
	reminders = append(reminders, t.reminders[idx+1:]...)
	if err := t.store.SaveReminders(ctx, reminders); err != nil {
		err = fmt.Errorf("failed to save reminders: %w", err)
		logging.Audit(logging.CategoryTracker).Change(logging.AuditReminderDeleted, id, err, nil)
		return err
	}
	t.reminders = reminders
	logging.Tracker("reminder %s deleted", id)
	logging.Audit(logging.CategoryTracker).Change(logging.AuditReminderDeleted, id, nil, nil)
	return nil
}

func (t *Tracker) reminderIndex(id string) int {
	for i, r := range t.reminders {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Records returns the records in insertion order.
func (t *Tracker) Records() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Record(nil), t.records...)
}

// Reminders returns the reminders in insertion order.
func (t *Tracker) Reminders() []Reminder {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Reminder(nil), t.reminders...)
}

// Buckets classifies the current reminders against the tracker's clock.
func (t *Tracker) Buckets() Buckets {
	return Classify(t.Reminders(), t.now())
}

// Export writes all records as an indented JSON array.
func (t *Tracker) Export(w io.Writer) error {
	records := t.Records()
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportFileName is the suggested name for an export taken at now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("vaccination-records-%d.json", now.UnixMilli())
}

// ClearAll removes every record and reminder from memory and storage.
func (t *Tracker) ClearAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Clear(ctx); err != nil {
		err = fmt.Errorf("failed to clear storage: %w", err)
		logging.Audit(logging.CategoryTracker).Change(logging.AuditDataCleared, "", err, nil)
		return err
	}
	t.records = nil
	t.reminders = nil
	logging.Tracker("all data cleared")
	logging.Audit(logging.CategoryTracker).Change(logging.AuditDataCleared, "", nil, nil)
	return nil
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time { return t.now() }
