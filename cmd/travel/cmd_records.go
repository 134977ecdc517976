package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shieldkit/internal/tracker"
	"shieldkit/internal/ui"

	"github.com/spf13/cobra"
)

func newRecordsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record", "r"},
		Short:   "Manage vaccination records",
	}
	cmd.AddCommand(newRecordsAddCmd(a), newRecordsListCmd(a), newRecordsDeleteCmd(a), newRecordsExportCmd(a))
	return cmd
}

func newRecordsAddCmd(a *app) *cobra.Command {
	var (
		name, administered, next string
		lot, location, notes     string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a vaccination record",
		Long: `Adds a vaccination record. Dates are YYYY-MM-DD or ISO-8601.

When --next is given, a reminder for the next dose is scheduled.

Example:
  travel records add --name "Hepatitis A" --date 2025-01-10 --next 2025-07-10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := tracker.NewRecord{
				VaccineName: name,
				LotNumber:   lot,
				Location:    location,
				Notes:       notes,
			}
			if administered != "" {
				d, err := tracker.ParseDateIn(administered, a.loc)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				in.DateAdministered = d
			}
			if next != "" {
				d, err := tracker.ParseDateIn(next, a.loc)
				if err != nil {
					return fmt.Errorf("--next: %w", err)
				}
				in.NextDoseDate = &d
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			tr, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			rec, rem, err := tr.AddRecord(ctx, in)
			if err != nil {
				return err
			}

			a.println(a.styles.Success.Render("✓ Record added") + " " + a.styles.Muted.Render(rec.ID))
			if rem != nil {
				a.printf("  Reminder scheduled for %s (dose %d of %d)\n",
					a.formatDay(rem.ScheduledDate), rem.DoseNumber, rem.TotalDoses)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Vaccine name (required)")
	f.StringVar(&administered, "date", "", "Date administered (required)")
	f.StringVar(&next, "next", "", "Next dose date")
	f.StringVar(&lot, "lot", "", "Lot number")
	f.StringVar(&location, "location", "", "Where it was administered")
	f.StringVar(&notes, "notes", "", "Notes")
	return cmd
}

func newRecordsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List vaccination records",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			tr, err := a.openTracker(ctx)
			if err != nil {
				return err
			}

			records := tr.Records()
			if len(records) == 0 {
				a.println(a.styles.Muted.Render("No vaccination records yet. Add one with `travel records add`."))
				return nil
			}

			table := ui.NewSimpleTable(fmt.Sprintf("Vaccination Records (%d)", len(records)),
				[]string{"ID", "Vaccine", "Administered", "Next Dose", "Location", "Lot"})
			for _, r := range records {
				nextDose := "-"
				if r.NextDoseDate != nil {
					nextDose = a.formatDay(*r.NextDoseDate)
				}
				table.AddRow(r.ID, r.VaccineName, a.formatDay(r.DateAdministered), nextDose, r.Location, r.LotNumber)
			}
			a.printf("%s", table.View(a.styles))
			return nil
		},
	}
}

func newRecordsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record and its reminders",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			tr, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			if err := tr.DeleteRecord(ctx, args[0]); err != nil {
				return err
			}
			a.println(a.styles.Success.Render("✓ Record deleted"))
			return nil
		},
	}
}

func newRecordsExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as JSON",
		Long: `Writes all records as a JSON array. By default the file is named
vaccination-records-<unix-millis>.json in the current directory; use --out -
for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			tr, err := a.openTracker(ctx)
			if err != nil {
				return err
			}

			if out == "-" {
				if err := tr.Export(a.out); err != nil {
					return err
				}
				a.println()
				return nil
			}

			path := out
			if path == "" {
				path = tracker.ExportFileName(a.now())
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create export: %w", err)
			}
			if err := tr.Export(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			a.printf("%s %s\n", a.styles.Success.Render("✓ Exported"), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, or - for stdout")
	return cmd
}

// formatDay renders the calendar day of t in the app's zone.
func (a *app) formatDay(t time.Time) string {
	return t.In(a.loc).Format("2006-01-02")
}
