package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd_PrintsVersion(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)

	if err := versionCmd.RunE(versionCmd, nil); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	if !strings.Contains(out.String(), version) {
		t.Errorf("expected output to contain %q, got %q", version, out.String())
	}
}

func TestRootCmd_HasAllSubcommands(t *testing.T) {
	want := []string{"init", "migrate", "watch", "permissions", "import", "recall", "version"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("rootCmd is missing subcommand %q", name)
		}
	}
}
