package store

import (
	"context"
	"encoding/json"
	"fmt"

	"shieldkit/internal/logging"
	"shieldkit/internal/tracker"
)

// Storage keys for the tracked collections.
const (
	RecordsKey   = "vaccination_records"
	RemindersKey = "vaccination_reminders"
)

// Collections persists the tracker's records and reminders as JSON documents
// in a KV. It satisfies tracker.Persistence.
type Collections struct {
	kv KV
}

var _ tracker.Persistence = (*Collections)(nil)

// NewCollections wraps kv.
func NewCollections(kv KV) *Collections {
	return &Collections{kv: kv}
}

// LoadRecords returns the persisted records. Missing or malformed data
// yields an empty collection; a KV read failure is returned so callers never
// overwrite data they could not read.
func (c *Collections) LoadRecords(ctx context.Context) ([]tracker.Record, error) {
	var records []tracker.Record
	ok, err := c.load(ctx, RecordsKey, &records)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []tracker.Record{}, nil
	}
	return records, nil
}

// SaveRecords replaces the persisted records.
func (c *Collections) SaveRecords(ctx context.Context, records []tracker.Record) error {
	if records == nil {
		records = []tracker.Record{}
	}
	return c.save(ctx, RecordsKey, records)
}

// LoadReminders returns the persisted reminders, with the same failure
// semantics as LoadRecords.
func (c *Collections) LoadReminders(ctx context.Context) ([]tracker.Reminder, error) {
	var reminders []tracker.Reminder
	ok, err := c.load(ctx, RemindersKey, &reminders)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []tracker.Reminder{}, nil
	}
	return reminders, nil
}

// SaveReminders replaces the persisted reminders.
func (c *Collections) SaveReminders(ctx context.Context, reminders []tracker.Reminder) error {
	if reminders == nil {
		reminders = []tracker.Reminder{}
	}
	return c.save(ctx, RemindersKey, reminders)
}

// Clear removes both collections.
func (c *Collections) Clear(ctx context.Context) error {
	for _, key := range []string{RecordsKey, RemindersKey} {
		if err := c.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	logging.Store("cleared tracker collections")
	return nil
}

// load decodes key into dst. It reports false for a missing or malformed
// document and returns an error only when the KV itself fails.
func (c *Collections) load(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		logging.StoreError("error loading %s: %v", key, err)
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logging.StoreWarn("discarding malformed %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (c *Collections) save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.kv.Set(ctx, key, string(data)); err != nil {
		logging.StoreError("error saving %s: %v", key, err)
		return err
	}
	return nil
}
