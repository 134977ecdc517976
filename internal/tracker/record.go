// Package tracker manages vaccination records and the dose reminders derived
// from them.
package tracker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the persisted and exported date format (UTC, millisecond precision).
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Record is one administered vaccination. Dates are persisted in ISOLayout,
// so a JSON round trip yields the same instant in UTC truncated to the
// millisecond; compare decoded dates with time.Time.Equal.
type Record struct {
	ID               string
	VaccineName      string
	DateAdministered time.Time
	NextDoseDate     *time.Time
	LotNumber        string
	Location         string
	Notes            string
}

// NewRecord is the user input for a record; the id is assigned by the Tracker.
type NewRecord struct {
	VaccineName      string
	DateAdministered time.Time
	NextDoseDate     *time.Time
	LotNumber        string
	Location         string
	Notes            string
}

// Reminder is a scheduled follow-up dose for a record.
type Reminder struct {
	ID                  string
	VaccinationRecordID string
	VaccineName         string
	ScheduledDate       time.Time
	Completed           bool
	DoseNumber          int
	TotalDoses          int
}

type recordJSON struct {
	ID               string `json:"id"`
	VaccineName      string `json:"vaccineName"`
	DateAdministered string `json:"dateAdministered"`
	NextDoseDate     string `json:"nextDoseDate,omitempty"`
	LotNumber        string `json:"lotNumber,omitempty"`
	Location         string `json:"location,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

type reminderJSON struct {
	ID                  string `json:"id"`
	VaccinationRecordID string `json:"vaccinationRecordId"`
	VaccineName         string `json:"vaccineName"`
	ScheduledDate       string `json:"scheduledDate"`
	Completed           bool   `json:"completed"`
	DoseNumber          int    `json:"doseNumber"`
	TotalDoses          int    `json:"totalDoses"`
}

// FormatISO renders t in ISOLayout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseDate accepts ISO-8601 timestamps (with or without fractional seconds)
// and plain YYYY-MM-DD dates, which are read as local midnight.
func ParseDate(s string) (time.Time, error) {
	return ParseDateIn(s, time.Local)
}

// ParseDateIn is ParseDate with plain dates anchored to midnight in loc, so
// calendar-day comparisons against a clock in loc land on the entered day.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// MarshalJSON encodes the record with ISO dates and omits empty optional fields.
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		ID:               r.ID,
		VaccineName:      r.VaccineName,
		DateAdministered: FormatISO(r.DateAdministered),
		LotNumber:        r.LotNumber,
		Location:         r.Location,
		Notes:            r.Notes,
	}
	if r.NextDoseDate != nil {
		out.NextDoseDate = FormatISO(*r.NextDoseDate)
	}
	return json.Marshal(out)
}

// UnmarshalJSON rehydrates ISO date strings.
func (r *Record) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	administered, err := ParseDate(in.DateAdministered)
	if err != nil {
		return fmt.Errorf("record %s dateAdministered: %w", in.ID, err)
	}
	*r = Record{
		ID:               in.ID,
		VaccineName:      in.VaccineName,
		DateAdministered: administered,
		LotNumber:        in.LotNumber,
		Location:         in.Location,
		Notes:            in.Notes,
	}
	if in.NextDoseDate != "" {
		next, err := ParseDate(in.NextDoseDate)
		if err != nil {
			return fmt.Errorf("record %s nextDoseDate: %w", in.ID, err)
		}
		r.NextDoseDate = &next
	}
	return nil
}

// MarshalJSON encodes the reminder with an ISO scheduled date.
func (r Reminder) MarshalJSON() ([]byte, error) {
	return json.Marshal(reminderJSON{
		ID:                  r.ID,
		VaccinationRecordID: r.VaccinationRecordID,
		VaccineName:         r.VaccineName,
		ScheduledDate:       FormatISO(r.ScheduledDate),
		Completed:           r.Completed,
		DoseNumber:          r.DoseNumber,
		TotalDoses:          r.TotalDoses,
	})
}

// UnmarshalJSON rehydrates the ISO scheduled date.
func (r *Reminder) UnmarshalJSON(data []byte) error {
	var in reminderJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	scheduled, err := ParseDate(in.ScheduledDate)
	if err != nil {
		return fmt.Errorf("reminder %s scheduledDate: %w", in.ID, err)
	}
	*r = Reminder{
		ID:                  in.ID,
		VaccinationRecordID: in.VaccinationRecordID,
		VaccineName:         in.VaccineName,
		ScheduledDate:       scheduled,
		Completed:           in.Completed,
		DoseNumber:          in.DoseNumber,
		TotalDoses:          in.TotalDoses,
	}
	return nil
}
