package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aicf-dev/aicf/internal/permission"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestRunInit_Automatic_CreatesSkeletonAndGrantsAllSources(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	initAutomatic, initManual, initForce = true, false, false
	defer func() { initAutomatic, initManual, initForce = false, false, false }()

	var out bytes.Buffer
	initCmd.SetOut(&out)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	for _, dir := range []string{"sessions", "medium", "old", "archive", "recent"} {
		if _, err := os.Stat(filepath.Join(tmp, ".aicf", dir)); err != nil {
			t.Errorf(".aicf/%s not created: %v", dir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(tmp, ".ai")); err != nil {
		t.Errorf(".ai not created: %v", err)
	}

	store := permission.Open(filepath.Join(tmp, ".aicf"))
	records, err := store.List()
	if err != nil {
		t.Fatalf("listing permissions: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("expected 4 grant records, got %d", len(records))
	}
}

func TestRunInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	if err := os.MkdirAll(filepath.Join(tmp, ".aicf"), 0o755); err != nil {
		t.Fatal(err)
	}

	initAutomatic, initManual, initForce = true, false, false
	defer func() { initAutomatic, initManual, initForce = false, false, false }()

	var out bytes.Buffer
	initCmd.SetOut(&out)

	err := runInit(initCmd, nil)
	if err == nil {
		t.Fatal("expected error when .aicf already exists without --force")
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("expected error to mention --force, got: %v", err)
	}
}

func TestRunInit_ForceReinitializesExistingProject(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	if err := os.MkdirAll(filepath.Join(tmp, ".aicf"), 0o755); err != nil {
		t.Fatal(err)
	}

	initAutomatic, initManual, initForce = true, false, true
	defer func() { initAutomatic, initManual, initForce = false, false, false }()

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit with --force failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, ".aicf", "sessions")); err != nil {
		t.Errorf("sessions dir not created after forced re-init: %v", err)
	}
}
