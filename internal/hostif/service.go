// Package hostif queries the host system for jukebox service state.
package hostif

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/logging"
)

// DefaultServices are the systemd user units that hold the jukebox config open.
var DefaultServices = []string{"jukebox-daemon"}

// Runner runs a command and returns its exit code. A non-nil error means
// the command could not be run at all.
type Runner func(ctx context.Context, name string, args ...string) (int, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) (int, error) {
	err := exec.CommandContext(ctx, name, args...).Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Checker reports whether any jukebox service is running.
type Checker struct {
	services []string
	run      Runner
}

// NewChecker returns a Checker for services (DefaultServices when empty)
// using run (ExecRunner when nil).
func NewChecker(run Runner, services ...string) *Checker {
	if run == nil {
		run = ExecRunner
	}
	if len(services) == 0 {
		services = DefaultServices
	}
	return &Checker{services: services, run: run}
}

// Services returns the units the checker inspects.
func (c *Checker) Services() []string {
	out := make([]string, len(c.services))
	copy(out, c.services)
	return out
}

// IsServiceActive reports whether the systemd user unit is active.
func (c *Checker) IsServiceActive(ctx context.Context, service string) (bool, error) {
	code, err := c.run(ctx, "systemctl", "--user", "is-active", "--quiet", service)
	if err != nil {
		return false, fmt.Errorf("failed to query service %s: %w", service, err)
	}
	logging.Debug("Service %s is-active exit code %d", service, code)
	return code == 0, nil
}

// IsAnyServiceActive reports whether at least one configured service is active.
func (c *Checker) IsAnyServiceActive(ctx context.Context) (bool, error) {
	for _, service := range c.services {
		active, err := c.IsServiceActive(ctx, service)
		if err != nil {
			return false, err
		}
		if active {
			return true, nil
		}
	}
	return false, nil
}
