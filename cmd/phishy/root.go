package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"shieldkit/cmd/phishy/game"
	"shieldkit/internal/config"
	"shieldkit/internal/logging"
	"shieldkit/internal/quiz"
	"shieldkit/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	verbose bool
	home    string
	dataset string
	watch   bool
	seed    int64
}

type app struct {
	opts   options
	out    io.Writer
	styles ui.Styles
	logger *zap.Logger
	cfg    *config.Config
}

func newApp(out io.Writer) *app {
	return &app{out: out, styles: ui.DefaultStyles()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "phishy",
		Short: "Spot the phishing email",
		Long: `phishy deals a shuffled round of emails. Mark each one safe or phishing,
learn from the explanation, and get rated at the end.

Use --dataset to play with your own YAML email set and --watch to pick up
edits to it between rounds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
			logging.CloseAll()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd)
		},
	}
	root.SetOut(a.out)

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVar(&a.opts.home, "home", "", "Data directory (default: $SHIELDKIT_HOME or ~/.shieldkit)")
	pf.StringVarP(&a.opts.dataset, "dataset", "d", "", "YAML email dataset (default: built-in emails)")

	f := root.Flags()
	f.BoolVarP(&a.opts.watch, "watch", "w", false, "Reload the dataset when the file changes")
	f.Int64Var(&a.opts.seed, "seed", 0, "Shuffle seed for a reproducible round")

	root.AddCommand(newEmailsCmd(a), newValidateCmd(a))
	return root
}

func (a *app) setup() error {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	if a.opts.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	home := a.opts.home
	if home == "" {
		home = config.DefaultHome()
	}
	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.opts.dataset == "" {
		a.opts.dataset = cfg.Quiz.DatasetPath
	}
	if !a.opts.watch {
		a.opts.watch = cfg.Quiz.Watch
	}

	if err := logging.Initialize(home, cfg.Logging); err != nil {
		a.logger.Warn("file logging disabled", zap.Error(err))
	}
	return nil
}

// dataset returns the configured emails, or the built-in set.
func (a *app) dataset() ([]quiz.Email, error) {
	if a.opts.dataset == "" {
		return quiz.DefaultEmails(), nil
	}
	emails, err := quiz.LoadEmails(a.opts.dataset)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("dataset loaded", zap.String("path", a.opts.dataset), zap.Int("emails", len(emails)))
	return emails, nil
}

func (a *app) play(cmd *cobra.Command) error {
	emails, err := a.dataset()
	if err != nil {
		return err
	}

	var opts []quiz.Option
	if cmd.Flags().Changed("seed") {
		opts = append(opts, quiz.WithSeed(a.opts.seed))
	}
	g, err := quiz.NewGame(emails, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(game.New(g, a.styles), tea.WithAltScreen())

	if a.opts.watch && a.opts.dataset != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		w, err := quiz.NewDatasetWatcher(a.opts.dataset, func(emails []quiz.Email) {
			p.Send(game.DatasetReloadedMsg{Emails: emails})
		})
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", a.opts.dataset, err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch %s: %w", a.opts.dataset, err)
		}
		defer w.Stop()
	}

	_, err = p.Run()
	return err
}

func newEmailsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "emails",
		Short: "List the emails in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emails, err := a.dataset()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(emails)
			}

			phishing := 0
			table := ui.NewSimpleTable("", []string{"ID", "Kind", "Sender Domain", "Subject"})
			for _, e := range emails {
				kind := "safe"
				if e.IsPhishing {
					kind = "phishing"
					phishing++
				}
				domain, err := quiz.SenderDomain(e)
				if err != nil {
					domain = "?"
				}
				table.AddRow(strconv.Itoa(e.ID), kind, domain, e.Subject)
			}
			table.Title = fmt.Sprintf("Emails (%d, %d phishing)", len(emails), phishing)
			fmt.Fprint(a.out, table.View(a.styles))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dataset as JSON")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.yaml>",
		Short: "Check a YAML email dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emails, err := quiz.LoadEmails(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s: %d emails\n", a.styles.Success.Render("✓"), args[0], len(emails))
			return nil
		},
	}
}
