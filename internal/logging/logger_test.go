package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shieldkit/internal/config"
)

func readCategoryLog(t *testing.T, home string, category Category) string {
	t.Helper()
	name := time.Now().Format("2006-01-02") + "_" + string(category) + ".log"
	data, err := os.ReadFile(filepath.Join(home, "logs", name))
	if err != nil {
		t.Fatalf("read %s log: %v", category, err)
	}
	return string(data)
}

func TestInitialize_RequiresHome(t *testing.T) {
	if err := Initialize("", config.LoggingConfig{}); err == nil {
		t.Fatal("expected error for empty home")
	}
}

func TestProductionModeWritesNothing(t *testing.T) {
	home := t.TempDir()
	if err := Initialize(home, config.LoggingConfig{DebugMode: false}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(CloseAll)

	Store("should not be written")

	if _, err := os.Stat(filepath.Join(home, "logs")); !os.IsNotExist(err) {
		t.Fatalf("logs directory must not exist in production mode, stat err=%v", err)
	}
	if IsDebugMode() {
		t.Fatal("IsDebugMode should be false")
	}
}

func TestCategoryFilesAndLevels(t *testing.T) {
	home := t.TempDir()
	lc := config.LoggingConfig{
		DebugMode:  true,
		Level:      "info",
		Format:     "json",
		Categories: map[string]bool{"places": false},
	}
	if err := Initialize(home, lc); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(CloseAll)

	Store("saved %d records", 3)
	StoreDebug("debug line is below the level")
	Places("disabled category")
	CloseAll()

	content := readCategoryLog(t, home, CategoryStore)
	if !strings.Contains(content, "saved 3 records") {
		t.Errorf("store log missing info line: %q", content)
	}
	if strings.Contains(content, "debug line") {
		t.Errorf("debug line written at info level: %q", content)
	}
	if !strings.Contains(content, `"logger":"store"`) {
		t.Errorf("expected named logger field in JSON output: %q", content)
	}

	name := time.Now().Format("2006-01-02") + "_places.log"
	if _, err := os.Stat(filepath.Join(home, "logs", name)); !os.IsNotExist(err) {
		t.Errorf("disabled category produced a log file")
	}
}

func TestWithAddsContext(t *testing.T) {
	home := t.TempDir()
	if err := Initialize(home, config.LoggingConfig{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(CloseAll)

	Get(CategoryTracker).With("record_id", "r-1").Info("record deleted")
	CloseAll()

	content := readCategoryLog(t, home, CategoryTracker)
	if !strings.Contains(content, `"record_id":"r-1"`) {
		t.Errorf("context field missing: %q", content)
	}
}

func TestNoopLoggerIsSafe(t *testing.T) {
	var l Logger
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	if l.With("k", "v") != &l {
		t.Fatal("With on a no-op logger should return the same logger")
	}
	if d := StartTimer(CategoryQuiz, "noop").Stop(); d < 0 {
		t.Fatalf("negative duration %v", d)
	}
}
