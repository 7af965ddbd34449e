// Package installer refreshes the package manager state after manifests
// change, so lockfiles and node_modules do not drift from the rewritten
// version ranges.
package installer

import (
	"fmt"
	"os"
	"os/exec"
)

// Installer re-runs the project's install step with the configured command.
type Installer interface {
	Install(root string, command []string) error
}

// ExecInstaller runs the install command in the project root, inheriting the
// terminal so the package manager's own output stays visible.
type ExecInstaller struct{}

// NewExecInstaller creates an ExecInstaller.
func NewExecInstaller() *ExecInstaller {
	return &ExecInstaller{}
}

// Install runs command, e.g. ["yarn", "install"], in root.
func (i *ExecInstaller) Install(root string, command []string) error {
	if len(command) == 0 {
		return nil
	}
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = root
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("install command failed: %w", err)
	}
	return nil
}

// InstallCall records one Install invocation.
type InstallCall struct {
	Root    string
	Command []string
}

// FakeInstaller records install calls for testing.
type FakeInstaller struct {
	// Calls lists the recorded invocations.
	Calls []InstallCall

	// Err is returned from every Install call when set.
	Err error
}

// Install records the call.
func (i *FakeInstaller) Install(root string, command []string) error {
	i.Calls = append(i.Calls, InstallCall{Root: root, Command: command})
	return i.Err
}
