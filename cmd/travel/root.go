package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"shieldkit/internal/config"
	"shieldkit/internal/geo"
	"shieldkit/internal/health"
	"shieldkit/internal/logging"
	"shieldkit/internal/places"
	"shieldkit/internal/store"
	"shieldkit/internal/tracker"
	"shieldkit/internal/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// options are the global flags.
type options struct {
	verbose    bool
	home       string
	configPath string
	dbPath     string
	ephemeral  bool
	timeout    time.Duration
}

// app carries the resolved configuration and lazily opened services for one run.
type app struct {
	opts   options
	out    io.Writer
	now    func() time.Time
	loc    *time.Location // calendar days are entered and shown in this zone
	styles ui.Styles

	logger *zap.Logger
	cfg    *config.Config
	home   string

	kv       store.KV
	tracker  *tracker.Tracker
	registry *health.Registry

	// Overridable in tests.
	position geo.PositionSource
	geocoder *geo.Geocoder
	places   *places.Client
}

func newApp(out io.Writer) *app {
	return &app{
		out:    out,
		now:    time.Now,
		loc:    time.Local,
		styles: ui.DefaultStyles(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "travel",
		Short: "Travel vaccination tracker",
		Long: `travel keeps a local record of your vaccinations, reminds you of upcoming
doses, and shows destination health guidance and nearby travel clinics.

Data is stored in a local SQLite database under $SHIELDKIT_HOME (default ~/.shieldkit).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.SetOut(a.out)

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVar(&a.opts.home, "home", "", "Data directory (default: $SHIELDKIT_HOME or ~/.shieldkit)")
	pf.StringVar(&a.opts.configPath, "config", "", "Config file (default: <home>/config.yaml)")
	pf.StringVar(&a.opts.dbPath, "db", "", "Database path override")
	pf.BoolVar(&a.opts.ephemeral, "ephemeral", false, "Keep data in memory only")
	pf.DurationVar(&a.opts.timeout, "timeout", 30*time.Second, "Network operation timeout")

	root.AddCommand(
		newRecordsCmd(a),
		newRemindersCmd(a),
		newHealthCmd(a),
		newCountriesCmd(a),
		newDestinationCmd(a),
		newClinicsCmd(a),
		newLocateCmd(a),
		newClearCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
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

	a.home = a.opts.home
	if a.home == "" {
		a.home = config.DefaultHome()
	}
	path := a.opts.configPath
	if path == "" {
		path = filepath.Join(a.home, "config.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.opts.dbPath != "" {
		cfg.Storage.DatabasePath = a.opts.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	a.cfg = cfg

	if err := logging.Initialize(a.home, cfg.Logging); err != nil {
		a.logger.Warn("file logging disabled", zap.Error(err))
	}
	logging.Boot("travel %s: home=%s driver=%s", cmd.Name(), a.home, cfg.Storage.Driver)
	a.logger.Debug("config loaded", zap.String("path", path), zap.String("home", a.home))
	return nil
}

func (a *app) close() {
	if a.kv != nil {
		if err := a.kv.Close(); err != nil && a.logger != nil {
			a.logger.Warn("closing store", zap.Error(err))
		}
		a.kv = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	logging.CloseAll()
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.opts.timeout)
}

// openTracker opens the store and loads the tracker on first use.
func (a *app) openTracker(ctx context.Context) (*tracker.Tracker, error) {
	if a.tracker != nil {
		return a.tracker, nil
	}
	if a.kv == nil {
		if a.opts.ephemeral {
			a.kv = store.NewMemoryKV()
		} else {
			kv, err := store.OpenSQLite(a.cfg.Storage.Driver, a.cfg.ResolveDatabasePath(a.home))
			if err != nil {
				return nil, err
			}
			a.kv = kv
		}
	}
	tr, err := tracker.New(ctx, store.NewCollections(a.kv), tracker.WithClock(a.now))
	if err != nil {
		return nil, err
	}
	a.tracker = tr
	return a.tracker, nil
}

// countriesDir holds imported country guidance files.
func (a *app) countriesDir() string {
	return filepath.Join(a.home, "countries")
}

// healthRegistry returns the built-in countries plus any imported files.
func (a *app) healthRegistry() *health.Registry {
	if a.registry != nil {
		return a.registry
	}
	r := health.NewMockRegistry(a.now)
	files, _ := filepath.Glob(filepath.Join(a.countriesDir(), "*.yaml"))
	for _, f := range files {
		n, err := r.Import(f)
		if err != nil {
			a.logger.Warn("skipping country file", zap.String("file", f), zap.Error(err))
			continue
		}
		logging.HealthDebug("imported %d countries from %s", n, f)
	}
	a.registry = r
	return r
}

func (a *app) positionSource() geo.PositionSource {
	if a.position != nil {
		return a.position
	}
	return geo.StaticPosition{Lat: a.cfg.Location.Lat, Lng: a.cfg.Location.Lng}
}

func (a *app) geocoderClient() *geo.Geocoder {
	if a.geocoder == nil {
		a.geocoder = geo.NewGeocoder(a.cfg.Geocoding.BaseURL, a.cfg.Geocoding.UserAgent, a.cfg.GetGeocodingTimeout())
	}
	return a.geocoder
}

func (a *app) placesClient() *places.Client {
	if a.places == nil {
		a.places = places.NewClient(a.cfg.Places.APIKey, a.cfg.Places.BaseURL, a.cfg.GetPlacesTimeout())
	}
	return a.places
}

// userLocation resolves where the user is, falling back to the default location.
func (a *app) userLocation(ctx context.Context) geo.Location {
	var rg geo.ReverseGeocoder
	if a.cfg.HasHomeLocation() || a.position != nil {
		rg = a.geocoderClient()
	}
	return geo.ResolveUserLocation(ctx, a.positionSource(), rg)
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
