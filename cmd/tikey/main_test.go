// Package main provides tests for the tikey CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/tikey/internal/cli"
	"github.com/leapstack-labs/tikey/internal/cli/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := run(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "tikey") {
		t.Errorf("version output should contain 'tikey', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := run(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}
	for _, expected := range []string{"check", "rules", "repl", "completion"} {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestCheckFileCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql")
	if err := os.WriteFile(path, []byte("create procedure p() select 1;\nselect 1;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	output, err := run(t, "check", "file", "-i", path, "--format", "text")
	if err != nil {
		t.Fatalf("check file command error = %v", err)
	}
	if !strings.Contains(output, "h4") {
		t.Errorf("check output should report h4, got: %s", output)
	}
}

func TestCheckReportFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.sql"), []byte("xa start 'x';\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	report := filepath.Join(t.TempDir(), "report.txt")

	if _, err := run(t, "check", "dir", "-i", dir, "--out="+report); err != nil {
		t.Fatalf("check dir command error = %v", err)
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "h7") {
		t.Errorf("report should contain h7, got: %s", data)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := run(t, "unknown-command"); err == nil {
		t.Error("unknown command should return an error")
	}
}
