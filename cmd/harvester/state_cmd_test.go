package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStateCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"state", "--state", path, "--config", writeConfig(t, dir)})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "No categories parsed yet.") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("state file should be created: %v", err)
	}

	raw := `{"last_parsed_pages": {"https://example.test/rpg": 7},
		"page_ranges": {"https://example.test/rpg": {"start_page": 5, "end_page": 7}}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"state", "--state", path, "--config", writeConfig(t, dir)})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"https://example.test/rpg", "5-7"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "harvester.json5")
	if err := os.WriteFile(path, []byte(`{base_url: "https://example.test"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
