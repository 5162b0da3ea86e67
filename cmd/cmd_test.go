package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/repcount/internal/history"
	"github.com/fakeyudi/repcount/internal/workout"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	return executeWithInput(root, "", args...)
}

// executeWithInput is executeCommand with stdin set to input.
func executeWithInput(root *cobra.Command, input string, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// isolate points HOME, XDG_DATA_HOME and the working directory at fresh temp
// dirs and resets package-level flag state between runs.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", filepath.Join(tmp, "home"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	work := filepath.Join(tmp, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(work)

	resetRunFlags()
	historyPlain = false
	plainOutput = false
	verbose = false
	logFormat = "text"
	return tmp
}

func loadHistory(t *testing.T) []workout.Record {
	t.Helper()
	store, err := history.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	records, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestHistoryEmpty(t *testing.T) {
	isolate(t)
	out, err := executeCommand(rootCmd, "history", "--plain")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "no sessions recorded") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestHistoryListsNewestFirst(t *testing.T) {
	isolate(t)
	store, err := history.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	older := workout.Record{ID: uuid.New(), RepsCompleted: 4, Goal: 10, TimeTakenSeconds: 40, Date: now.Add(-48 * time.Hour)}
	newer := workout.Record{ID: uuid.New(), RepsCompleted: 10, Goal: 10, TimeTakenSeconds: 65, Date: now}
	for _, r := range []workout.Record{older, newer} {
		if err := store.Append(r); err != nil {
			t.Fatal(err)
		}
	}

	out, err := executeCommand(rootCmd, "history", "--plain")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	for _, want := range []string{"Streak: 1 day(s)", "Sessions: 2", "Total reps: 14", "Goals met: 1", "Fastest: 1:05"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "10/10") > strings.Index(out, "4/10") {
		t.Errorf("want newest first:\n%s", out)
	}
}

func TestHistoryDirFromProjectConfig(t *testing.T) {
	tmp := isolate(t)
	dir := filepath.Join(tmp, "elsewhere")
	if err := os.WriteFile(".repcountconfig", []byte(`{"history_dir": "`+dir+`"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := history.NewStoreAt(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Append(workout.Record{ID: uuid.New(), RepsCompleted: 3, Goal: 3, Date: time.Now()}); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "history", "--plain")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "Sessions: 1") {
		t.Errorf("history_dir ignored:\n%s", out)
	}
}

func TestInvalidProjectConfigFails(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(".repcountconfig", []byte(`{"goal": -4}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := executeCommand(rootCmd, "history", "--plain")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Fatalf("want invalid configuration error, got %v", err)
	}
}

func TestSetupSavesProfile(t *testing.T) {
	isolate(t)
	out, err := executeWithInput(rootCmd, "Sam\n15\njson\nreports\n", "setup")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !strings.Contains(out, "Profile saved") {
		t.Errorf("unexpected output:\n%s", out)
	}

	// The profile goal now fills the config gap.
	if _, err := executeCommand(rootCmd, "history", "--plain"); err != nil {
		t.Fatal(err)
	}
	if GetProfile() == nil || GetProfile().Name != "Sam" {
		t.Fatalf("profile not loaded: %+v", GetProfile())
	}
	if c := GetConfig(); c.Goal != 15 || c.DefaultFormat != "json" || c.OutputDir != "reports" {
		t.Errorf("profile did not fill config: %+v", c)
	}
}

func TestUnknownLogFormat(t *testing.T) {
	isolate(t)
	if _, err := executeCommand(rootCmd, "history", "--plain", "--log-format", "xml"); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}
