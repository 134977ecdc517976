package tracker

import (
	"sort"
	"time"
)

// urgentWindowDays is how many calendar days ahead an upcoming reminder counts as urgent.
const urgentWindowDays = 7

// Buckets holds reminders split for display, each sorted by scheduled date.
// Display order is Overdue, Upcoming, Completed.
type Buckets struct {
	Overdue   []Reminder
	Upcoming  []Reminder
	Completed []Reminder
}

// Classify splits reminders relative to now. Every reminder lands in exactly one bucket.
func Classify(reminders []Reminder, now time.Time) Buckets {
	var b Buckets
	for _, r := range reminders {
		switch {
		case r.Completed:
			b.Completed = append(b.Completed, r)
		case r.ScheduledDate.Before(now):
			b.Overdue = append(b.Overdue, r)
		default:
			b.Upcoming = append(b.Upcoming, r)
		}
	}
	byDate := func(list []Reminder) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].ScheduledDate.Before(list[j].ScheduledDate)
		})
	}
	byDate(b.Overdue)
	byDate(b.Upcoming)
	byDate(b.Completed)
	return b
}

// Len is the total number of reminders across buckets.
func (b Buckets) Len() int {
	return len(b.Overdue) + len(b.Upcoming) + len(b.Completed)
}

// IsUrgent reports whether scheduled falls on today or one of the next seven
// calendar days, in now's location.
func IsUrgent(scheduled, now time.Time) bool {
	days := calendarDaysBetween(now, scheduled.In(now.Location()))
	return days >= 0 && days <= urgentWindowDays
}

// DaysUntil returns the number of calendar days from now to scheduled; negative when past.
func DaysUntil(scheduled, now time.Time) int {
	return calendarDaysBetween(now, scheduled.In(now.Location()))
}

func calendarDaysBetween(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
