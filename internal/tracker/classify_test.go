package tracker

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	reminders := []Reminder{
		{ID: "future-late", ScheduledDate: now.AddDate(0, 1, 0)},
		{ID: "past", ScheduledDate: now.AddDate(0, 0, -3)},
		{ID: "done-late", ScheduledDate: now.AddDate(0, 0, 5), Completed: true},
		{ID: "exact-now", ScheduledDate: now},
		{ID: "past-earlier", ScheduledDate: now.AddDate(0, -1, 0)},
		{ID: "done-early", ScheduledDate: now.AddDate(0, 0, -20), Completed: true},
	}

	b := Classify(reminders, now)

	check := func(name string, got []Reminder, want ...string) {
		t.Helper()
		if len(got) != len(want) {
			t.Fatalf("%s: got %d reminders, want %d", name, len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Errorf("%s[%d] = %s, want %s", name, i, got[i].ID, want[i])
			}
		}
	}
	check("overdue", b.Overdue, "past-earlier", "past")
	check("upcoming", b.Upcoming, "exact-now", "future-late")
	check("completed", b.Completed, "done-early", "done-late")

	if b.Len() != len(reminders) {
		t.Errorf("buckets hold %d reminders, want %d", b.Len(), len(reminders))
	}
}

func TestIsUrgent(t *testing.T) {
	now := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		scheduled time.Time
		want      bool
	}{
		{"later today", now.Add(2 * time.Hour), true},
		{"tomorrow morning", time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC), true},
		{"seventh day", time.Date(2025, 3, 17, 23, 0, 0, 0, time.UTC), true},
		{"eighth day", time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), false},
		{"yesterday", now.AddDate(0, 0, -1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUrgent(tt.scheduled, now); got != tt.want {
				t.Errorf("IsUrgent(%v) = %v, want %v", tt.scheduled, got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)
	if got := DaysUntil(time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC), now); got != 1 {
		t.Errorf("DaysUntil across midnight = %d, want 1", got)
	}
	if got := DaysUntil(time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), now); got != -2 {
		t.Errorf("DaysUntil past = %d, want -2", got)
	}
}

func TestCalendarDaysInNonUTCZone(t *testing.T) {
	eastern := time.FixedZone("EDT", -4*60*60)
	now := time.Date(2026, time.October, 17, 10, 0, 0, 0, eastern)
	mustParse := func(s string) time.Time {
		t.Helper()
		d, err := ParseDateIn(s, eastern)
		if err != nil {
			t.Fatalf("ParseDateIn(%q): %v", s, err)
		}
		return d
	}

	tests := []struct {
		in     string
		days   int
		urgent bool
	}{
		{"2026-10-17", 0, true},
		{"2026-10-20", 3, true},
		{"2026-10-24", 7, true},
		{"2026-10-25", 8, false},
		{"2026-10-16", -1, false},
	}
	for _, tt := range tests {
		scheduled := mustParse(tt.in)
		if got := DaysUntil(scheduled, now); got != tt.days {
			t.Errorf("DaysUntil(%s) = %d, want %d", tt.in, got, tt.days)
		}
		if got := IsUrgent(scheduled, now); got != tt.urgent {
			t.Errorf("IsUrgent(%s) = %v, want %v", tt.in, got, tt.urgent)
		}
	}
}
