package main

import (
	"fmt"
	"path/filepath"

	"shieldkit/internal/config"

	"github.com/spf13/cobra"
)

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all records and reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear all data without --yes")
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			tr, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			if err := tr.ClearAll(ctx); err != nil {
				return err
			}
			a.println(a.styles.Success.Render("✓ All records and reminders deleted"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.opts.configPath
			if path == "" {
				path = filepath.Join(a.home, "config.yaml")
			}
			if fileExists(path) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			a.printf("%s %s\n", a.styles.Success.Render("✓ Wrote"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf("home:      %s\n", a.home)
			a.printf("database:  %s (%s)\n", a.cfg.ResolveDatabasePath(a.home), a.cfg.Storage.Driver)
			a.printf("geocoding: %s\n", a.cfg.Geocoding.BaseURL)
			a.printf("places:    %s (key set: %s)\n", a.cfg.Places.BaseURL, yesNo(a.cfg.HasPlacesKey()))
			if a.cfg.HasHomeLocation() {
				a.printf("location:  %.4f, %.4f\n", *a.cfg.Location.Lat, *a.cfg.Location.Lng)
			} else {
				a.printf("location:  default\n")
			}
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
