package profile

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunSetupAcceptsDefaults(t *testing.T) {
	var out bytes.Buffer
	prof, err := RunSetup(nil, strings.NewReader("Sam\n\n\n\n"), &out)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	want := Profile{Name: "Sam", DefaultGoal: 10, DefaultFormat: "markdown", OutputDir: "."}
	if *prof != want {
		t.Errorf("got %+v, want %+v", *prof, want)
	}
	if !strings.Contains(out.String(), "first-time setup") {
		t.Errorf("banner missing from output:\n%s", out.String())
	}
}

func TestRunSetupRepromptsBadGoal(t *testing.T) {
	var out bytes.Buffer
	prof, err := RunSetup(nil, strings.NewReader("Ana\nlots\n-3\n12\njson\nreports\n"), &out)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if prof.DefaultGoal != 12 || prof.DefaultFormat != "json" || prof.OutputDir != "reports" {
		t.Errorf("unexpected profile %+v", *prof)
	}
	if n := strings.Count(out.String(), "whole number above zero"); n != 2 {
		t.Errorf("want 2 re-prompts, got %d", n)
	}
}

func TestRunSetupEditKeepsExisting(t *testing.T) {
	existing := &Profile{Name: "Lee", DefaultGoal: 20, DefaultFormat: "json", OutputDir: "/tmp"}
	// Input ends early; remaining prompts keep their defaults.
	prof, err := RunSetup(existing, strings.NewReader("\n"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if *prof != *existing {
		t.Errorf("got %+v, want %+v", *prof, *existing)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if Exists() {
		t.Fatal("profile should not exist in a fresh HOME")
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load should fail before setup")
	}

	prof := &Profile{Name: "Sam", DefaultGoal: 8, DefaultFormat: "json", OutputDir: "out"}
	if err := Save(prof); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists: want true after Save")
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *prof {
		t.Errorf("got %+v, want %+v", *got, *prof)
	}
}
