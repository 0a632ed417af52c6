package main

import (
	"bytes"
	"strings"
	"testing"
)

// executeCommand runs the root command with the given arguments and
// returns its combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// TestRootCmdSubcommands tests that all subcommands are registered.
func TestRootCmdSubcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	want := map[string]bool{
		"scan":    false,
		"compare": false,
		"rules":   false,
		"init":    false,
		"version": false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}

// TestRootCmdHelp tests that help output renders.
func TestRootCmdHelp(t *testing.T) {
	t.Parallel()

	out, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	if !strings.Contains(out, "seclog") || !strings.Contains(out, "scan") {
		t.Errorf("unexpected help output: %s", out)
	}
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"seclog version", "commit:", "built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q: %s", want, out)
		}
	}
}
