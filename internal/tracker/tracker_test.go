package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shieldkit/internal/config"
	"shieldkit/internal/logging"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records      []Record
	reminders    []Reminder
	loadErr      error
	saveErr      error
	recordErr    error // fails SaveRecords only
	reminderErr  error // fails SaveReminders only
	recordSaves  int
	reminderSave int
	cleared      bool
}

func (f *fakeStore) LoadRecords(context.Context) ([]Record, error)     { return f.records, f.loadErr }
func (f *fakeStore) LoadReminders(context.Context) ([]Reminder, error) { return f.reminders, f.loadErr }

func (f *fakeStore) SaveRecords(_ context.Context, r []Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recordSaves++
	f.records = append([]Record(nil), r...)
	return nil
}

func (f *fakeStore) SaveReminders(_ context.Context, r []Reminder) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.reminderErr != nil {
		return f.reminderErr
	}
	f.reminderSave++
	f.reminders = append([]Reminder(nil), r...)
	return nil
}

func (f *fakeStore) Clear(context.Context) error {
	f.cleared = true
	f.records, f.reminders = nil, nil
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTracker(t *testing.T, fs *fakeStore) *Tracker {
	t.Helper()
	tr, err := New(context.Background(), fs, WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return date(2025, time.March, 1) }))
	require.NoError(t, err)
	return tr
}

func TestAddRecordWithoutNextDose(t *testing.T) {
	fs := &fakeStore{}
	tr := newTracker(t, fs)

	rec, rem, err := tr.AddRecord(context.Background(), NewRecord{
		VaccineName:      "Typhoid",
		DateAdministered: date(2025, time.January, 10),
	})
	require.NoError(t, err)
	assert.Nil(t, rem)
	assert.Equal(t, "id-1", rec.ID)
	assert.Len(t, tr.Records(), 1)
	assert.Empty(t, tr.Reminders())
	assert.Equal(t, 1, fs.recordSaves)
	assert.Equal(t, 0, fs.reminderSave)
}

func TestAddRecordCreatesReminder(t *testing.T) {
	fs := &fakeStore{}
	tr := newTracker(t, fs)

	next := date(2025, time.July, 10)
	rec, rem, err := tr.AddRecord(context.Background(), NewRecord{
		VaccineName:      "Hepatitis A",
		DateAdministered: date(2025, time.January, 10),
		NextDoseDate:     &next,
	})
	require.NoError(t, err)
	require.NotNil(t, rem)

	want := Reminder{
		ID:                  "reminder-id-2",
		VaccinationRecordID: rec.ID,
		VaccineName:         "Hepatitis A",
		ScheduledDate:       next,
		DoseNumber:          2,
		TotalDoses:          2,
	}
	if diff := cmp.Diff(want, *rem); diff != "" {
		t.Fatalf("reminder mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Reminder{want}, fs.reminders)
}

func TestAddRecordValidation(t *testing.T) {
	fs := &fakeStore{}
	tr := newTracker(t, fs)

	_, _, err := tr.AddRecord(context.Background(), NewRecord{VaccineName: "  ", DateAdministered: date(2025, 1, 1)})
	assert.ErrorIs(t, err, ErrMissingField)

	_, _, err = tr.AddRecord(context.Background(), NewRecord{VaccineName: "Rabies"})
	assert.ErrorIs(t, err, ErrMissingField)

	assert.Empty(t, tr.Records())
	assert.Equal(t, 0, fs.recordSaves, "invalid input must not touch storage")
}

func TestAddRecordSaveFailureLeavesStateUnchanged(t *testing.T) {
	fs := &fakeStore{saveErr: errors.New("disk full")}
	tr := newTracker(t, fs)

	_, _, err := tr.AddRecord(context.Background(), NewRecord{VaccineName: "Rabies", DateAdministered: date(2025, 1, 1)})
	require.Error(t, err)
	assert.Empty(t, tr.Records())
}

func TestAddRecordRollsBackWhenReminderSaveFails(t *testing.T) {
	existing := Record{ID: "r0", VaccineName: "Typhoid", DateAdministered: date(2024, 12, 1)}
	fs := &fakeStore{records: []Record{existing}, reminderErr: errors.New("disk full")}
	tr := newTracker(t, fs)

	next := date(2025, time.July, 10)
	_, rem, err := tr.AddRecord(context.Background(), NewRecord{
		VaccineName:      "Hepatitis A",
		DateAdministered: date(2025, time.January, 10),
		NextDoseDate:     &next,
	})
	require.Error(t, err)
	assert.Nil(t, rem)
	assert.Equal(t, []Record{existing}, tr.Records())
	assert.Equal(t, []Record{existing}, fs.records, "persisted records must be restored")
	assert.Empty(t, fs.reminders)
	assert.Equal(t, 2, fs.recordSaves)
}

func TestDeleteRecordKeepsBothCollectionsOnFailure(t *testing.T) {
	ctx := context.Background()
	next := date(2025, time.June, 1)

	t.Run("reminder save fails", func(t *testing.T) {
		fs := &fakeStore{}
		tr := newTracker(t, fs)
		rec, _, err := tr.AddRecord(ctx, NewRecord{VaccineName: "Rabies", DateAdministered: date(2025, 1, 1), NextDoseDate: &next})
		require.NoError(t, err)

		fs.reminderErr = errors.New("disk full")
		require.Error(t, tr.DeleteRecord(ctx, rec.ID))
		assert.Len(t, tr.Records(), 1)
		assert.Len(t, tr.Reminders(), 1)
		assert.Len(t, fs.records, 1)
		assert.Len(t, fs.reminders, 1)
	})

	t.Run("record save fails", func(t *testing.T) {
		fs := &fakeStore{}
		tr := newTracker(t, fs)
		rec, _, err := tr.AddRecord(ctx, NewRecord{VaccineName: "Rabies", DateAdministered: date(2025, 1, 1), NextDoseDate: &next})
		require.NoError(t, err)

		fs.recordErr = errors.New("disk full")
		require.Error(t, tr.DeleteRecord(ctx, rec.ID))
		assert.Len(t, tr.Records(), 1)
		assert.Len(t, tr.Reminders(), 1)
		assert.Len(t, fs.records, 1)
		require.Len(t, fs.reminders, 1, "reminders must be restored")
		assert.Equal(t, rec.ID, fs.reminders[0].VaccinationRecordID)
	})
}

func TestNewReturnsLoadError(t *testing.T) {
	fs := &fakeStore{loadErr: errors.New("database is locked")}
	tr, err := New(context.Background(), fs)
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.ErrorIs(t, err, fs.loadErr)
}

func TestFailedChangesAreAudited(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, logging.Initialize(home, config.LoggingConfig{DebugMode: true}))
	t.Cleanup(logging.CloseAll)

	fs := &fakeStore{}
	tr := newTracker(t, fs)
	ctx := context.Background()
	next := date(2025, time.June, 1)
	_, rem, err := tr.AddRecord(ctx, NewRecord{VaccineName: "Rabies", DateAdministered: date(2025, 1, 1), NextDoseDate: &next})
	require.NoError(t, err)

	fs.saveErr = errors.New("disk full")
	require.Error(t, tr.CompleteReminder(ctx, rem.ID))
	logging.CloseAll()

	data, err := os.ReadFile(filepath.Join(home, "logs", time.Now().Format("2006-01-02")+"_audit.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var last logging.AuditEvent
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	assert.Equal(t, logging.AuditReminderCompleted, last.EventType)
	assert.Equal(t, rem.ID, last.Target)
	assert.False(t, last.Success)
	assert.Contains(t, last.Error, "disk full")
}

func TestDeleteRecordCascades(t *testing.T) {
	fs := &fakeStore{}
	tr := newTracker(t, fs)
	ctx := context.Background()

	next := date(2025, time.June, 1)
	keep, _, err := tr.AddRecord(ctx, NewRecord{VaccineName: "Rabies", DateAdministered: date(2025, 1, 1), NextDoseDate: &next})
	require.NoError(t, err)
	drop, _, err := tr.AddRecord(ctx, NewRecord{VaccineName: "Japanese Encephalitis", DateAdministered: date(2025, 1, 2), NextDoseDate: &next})
	require.NoError(t, err)

	require.NoError(t, tr.DeleteRecord(ctx, drop.ID))

	require.Len(t, tr.Records(), 1)
	assert.Equal(t, keep.ID, tr.Records()[0].ID)
	for _, r := range tr.Reminders() {
		assert.NotEqual(t, drop.ID, r.VaccinationRecordID)
	}
	assert.Len(t, tr.Reminders(), 1)
	assert.Len(t, fs.reminders, 1)

	assert.ErrorIs(t, tr.DeleteRecord(ctx, "missing"), ErrNotFound)
}

func TestCompleteAndDeleteReminder(t *testing.T) {
	fs := &fakeStore{}
	tr := newTracker(t, fs)
	ctx := context.Background()

	next := date(2025, time.June, 1)
	rec, rem, err := tr.AddRecord(ctx, NewRecord{VaccineName: "Rabies", DateAdministered: date(2025, 1, 1), NextDoseDate: &next})
	require.NoError(t, err)

	require.NoError(t, tr.CompleteReminder(ctx, rem.ID))
	got := tr.Reminders()[0]
	assert.True(t, got.Completed)
	assert.Equal(t, next, got.ScheduledDate, "completion changes nothing else")
	assert.True(t, fs.reminders[0].Completed)

	assert.ErrorIs(t, tr.CompleteReminder(ctx, "nope"), ErrNotFound)

	require.NoError(t, tr.DeleteReminder(ctx, rem.ID))
	assert.Empty(t, tr.Reminders())
	assert.Len(t, tr.Records(), 1, "deleting a reminder keeps its record")
	assert.Equal(t, rec.ID, tr.Records()[0].ID)

	assert.ErrorIs(t, tr.DeleteReminder(ctx, rem.ID), ErrNotFound)
}

func TestExport(t *testing.T) {
	fs := &fakeStore{}
	tr := newTracker(t, fs)
	ctx := context.Background()

	var empty bytes.Buffer
	require.NoError(t, tr.Export(&empty))
	assert.Equal(t, "[]", empty.String())

	_, _, err := tr.AddRecord(ctx, NewRecord{
		VaccineName:      "Yellow Fever",
		DateAdministered: time.Date(2025, 2, 3, 10, 30, 0, 0, time.UTC),
		Location:         "City Clinic",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tr.Export(&buf))

	want := `[
  {
    "id": "id-1",
    "vaccineName": "Yellow Fever",
    "dateAdministered": "2025-02-03T10:30:00.000Z",
    "location": "City Clinic"
  }
]`
	assert.Equal(t, want, buf.String())

	var decoded []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Nil(t, decoded[0].NextDoseDate)
}

func TestExportFileName(t *testing.T) {
	now := time.UnixMilli(1736899200123)
	assert.Equal(t, "vaccination-records-1736899200123.json", ExportFileName(now))
}

func TestClearAll(t *testing.T) {
	fs := &fakeStore{}
	tr := newTracker(t, fs)
	ctx := context.Background()

	_, _, err := tr.AddRecord(ctx, NewRecord{VaccineName: "Rabies", DateAdministered: date(2025, 1, 1)})
	require.NoError(t, err)

	require.NoError(t, tr.ClearAll(ctx))
	assert.True(t, fs.cleared)
	assert.Empty(t, tr.Records())
	assert.Empty(t, tr.Reminders())
}

func TestNewLoadsExistingData(t *testing.T) {
	fs := &fakeStore{
		records:   []Record{{ID: "r1", VaccineName: "Rabies", DateAdministered: date(2024, 5, 1)}},
		reminders: []Reminder{{ID: "reminder-1", VaccinationRecordID: "r1", ScheduledDate: date(2024, 6, 1)}},
	}
	tr := newTracker(t, fs)
	assert.Len(t, tr.Records(), 1)
	assert.Len(t, tr.Buckets().Overdue, 1)
}
