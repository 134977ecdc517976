package main

import (
	"fmt"
	"strings"
	"time"

	"shieldkit/internal/tracker"

	"github.com/spf13/cobra"
)

func newRemindersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"reminder"},
		Short:   "Show and manage dose reminders",
	}
	cmd.AddCommand(newRemindersListCmd(a), newRemindersCompleteCmd(a), newRemindersDeleteCmd(a))
	return cmd
}

func newRemindersListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List reminders: overdue, upcoming, then completed",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			tr, err := a.openTracker(ctx)
			if err != nil {
				return err
			}

			now := tr.Now()
			b := tr.Buckets()
			if b.Len() == 0 {
				a.println(a.styles.Muted.Render("No reminders. Add a record with --next to schedule one."))
				return nil
			}
			a.printf("%s", renderReminders(a, b, now))
			return nil
		},
	}
}

func renderReminders(a *app, b tracker.Buckets, now time.Time) string {
	var sb strings.Builder

	section := func(title string, list []tracker.Reminder, line func(tracker.Reminder) string) {
		if len(list) == 0 {
			return
		}
		sb.WriteString(a.styles.Title.Render(fmt.Sprintf("%s (%d)", title, len(list))))
		sb.WriteString("\n")
		for _, r := range list {
			sb.WriteString("  " + line(r) + "\n")
		}
		sb.WriteString("\n")
	}

	dose := func(r tracker.Reminder) string {
		return fmt.Sprintf("%s, dose %d of %d", r.VaccineName, r.DoseNumber, r.TotalDoses)
	}

	section("Overdue", b.Overdue, func(r tracker.Reminder) string {
		return a.styles.Error.Render("! "+a.formatDay(r.ScheduledDate)) + "  " + dose(r) +
			"  " + a.styles.Muted.Render(r.ID)
	})
	section("Upcoming", b.Upcoming, func(r tracker.Reminder) string {
		when := a.formatDay(r.ScheduledDate)
		if tracker.IsUrgent(r.ScheduledDate, now) {
			days := tracker.DaysUntil(r.ScheduledDate, now)
			when = a.styles.Warning.Render(fmt.Sprintf("%s (in %d days)", when, days))
		}
		return when + "  " + dose(r) + "  " + a.styles.Muted.Render(r.ID)
	})
	section("Completed", b.Completed, func(r tracker.Reminder) string {
		return a.styles.Success.Render("✓ "+a.formatDay(r.ScheduledDate)) + "  " + dose(r)
	})

	return sb.String()
}

func newRemindersCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "complete <id>",
		Aliases: []string{"done"},
		Short:   "Mark a reminder as completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			tr, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			if err := tr.CompleteReminder(ctx, args[0]); err != nil {
				return err
			}
			a.println(a.styles.Success.Render("✓ Reminder completed"))
			return nil
		},
	}
}

func newRemindersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a reminder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			tr, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			if err := tr.DeleteReminder(ctx, args[0]); err != nil {
				return err
			}
			a.println(a.styles.Success.Render("✓ Reminder deleted"))
			return nil
		},
	}
}
