package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	// rootCmd is shared across tests; the help flag sticks after Execute.
	t.Cleanup(func() {
		rootCmd.Flags().Lookup("help").Value.Set("false")
	})
	rootCmd.SetArgs([]string{"--help"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	if output == "" {
		t.Error("expected help output, got empty string")
	}
	if !strings.Contains(output, "monover") {
		t.Error("expected help to contain 'monover'")
	}
	for _, name := range []string{"check", "apply", "defer", "status"} {
		if !strings.Contains(output, name) {
			t.Errorf("expected help to list the %s command", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	rootCmd.SetArgs([]string{"--version"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(buf.String(), "1.2.3") {
		t.Errorf("expected version output, got %q", buf.String())
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	rootCmd.SetArgs([]string{"invalid-command"})
	var buf bytes.Buffer
	rootCmd.SetErr(&buf)

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestApplyPrereleaseFlagDefault(t *testing.T) {
	flag := applyCmd.Flags().Lookup("prerelease")
	if flag == nil {
		t.Fatal("apply is missing the --prerelease flag")
	}
	if flag.NoOptDefVal != "rc.%n" {
		t.Errorf("NoOptDefVal = %q, want rc.%%n", flag.NoOptDefVal)
	}
}
