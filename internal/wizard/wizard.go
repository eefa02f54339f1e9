// Package wizard registers PulseAudio sinks as the jukebox's primary and
// secondary audio outputs. It can be re-run at any time to change the
// assignment.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/audio"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/cfghandler"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/cfgtree"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/logging"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/prompt"
)

// ConfigName is the registry name of the jukebox configuration.
const ConfigName = "juke"

const (
	primaryAlias   = "Speakers"
	secondaryAlias = "Bluetooth Headset"
	volumeLimit    = 100
)

// ErrNoSinks is returned when the system reports no audio outputs.
var ErrNoSinks = errors.New("no audio outputs found")

// Selection is the operator's choice of outputs.
type Selection struct {
	Primary string
	// Secondary is empty when no secondary output was chosen.
	Secondary       string
	ToggleOnConnect bool
}

// serviceChecker reports whether a consumer of the config file is running.
type serviceChecker interface {
	IsAnyServiceActive(ctx context.Context) (bool, error)
}

// Wizard runs the interactive audio configuration.
type Wizard struct {
	out      io.Writer
	registry *cfghandler.Registry
	prompter prompt.Prompter
	sinks    audio.Lister
	services serviceChecker
}

// New returns a wizard writing its dialog to out.
func New(out io.Writer, registry *cfghandler.Registry, prompter prompt.Prompter, sinks audio.Lister, services serviceChecker) *Wizard {
	return &Wizard{
		out:      out,
		registry: registry,
		prompter: prompter,
		sinks:    sinks,
		services: services,
	}
}

// Run shows the welcome text, refuses to continue while a jukebox service
// is active, queries the outputs and writes them to the config at confPath.
func (w *Wizard) Run(ctx context.Context, confPath string) error {
	Welcome(w.out, confPath)

	active, err := w.services.IsAnyServiceActive(ctx)
	if err != nil {
		return err
	}
	if active {
		prompt.Highlight(w.out, "Jukebox service is running!")
		fmt.Fprintln(w.out, "Please stop jukebox-daemon service and restart tool")
		fmt.Fprintln(w.out, "$ systemctl --user stop jukebox-daemon")
		fmt.Fprintln(w.out)
		fmt.Fprintln(w.out, "Don't forget to start the service again :-)")
		return nil
	}

	sinks, err := w.sinks.ListSinks()
	if err != nil {
		return err
	}
	sel, err := w.QuerySinks(sinks)
	if err != nil {
		return err
	}
	if err := w.Configure(confPath, sel); err != nil {
		return err
	}
	Goodbye(w.out, confPath)
	return nil
}

// QuerySinks lists sinks and asks for the primary and, when there is more
// than one sink, the optional secondary output.
func (w *Wizard) QuerySinks(sinks []audio.Sink) (Selection, error) {
	if len(sinks) == 0 {
		return Selection{}, ErrNoSinks
	}

	prompt.Highlight(w.out, "Available audio outputs")
	for i, s := range sinks {
		note := ""
		if s.Description != "" && s.Description != s.Name {
			note = s.Description
		}
		if s.IsDefault {
			note += " (default)"
		}
		fmt.Fprintln(w.out, prompt.Entry(i, s.Name, strings.TrimSpace(note)))
	}
	fmt.Fprintln(w.out)

	var sel Selection
	idx, err := w.prompter.Int("Primary audio output (no bluetooth)?", 0, len(sinks)-1, 0)
	if err != nil {
		return Selection{}, err
	}
	sel.Primary = sinks[idx].Name
	fmt.Fprintf(w.out, "Primary audio output = %s\n\n", sel.Primary)

	if len(sinks) < 2 {
		return sel, nil
	}

	idx, err = w.prompter.Int("Secondary audio output (typically bluetooth)? Set to -1 for empty.", -1, len(sinks)-1, -1)
	if err != nil {
		return Selection{}, err
	}
	if idx < 0 {
		return sel, nil
	}
	sel.Secondary = sinks[idx].Name
	fmt.Fprintf(w.out, "Secondary audio output = %s\n\n", sel.Secondary)

	sel.ToggleOnConnect, err = w.prompter.YesNo("Automatically toggle output on connection of secondary device?", true)
	if err != nil {
		return Selection{}, err
	}
	return sel, nil
}

const (
	togglePath  = "pulse.toggle_on_connect"
	outputsPath = "pulse.outputs"
)

type setting struct {
	value *cfgtree.Node
	path  cfgtree.Path
}

func outputSettings(role, alias, sink string) []setting {
	at := func(key string) cfgtree.Path {
		return cfgtree.ParsePath(outputsPath + "." + role + "." + key)
	}
	return []setting{
		{cfgtree.String(alias), at("alias")},
		{cfgtree.Int(volumeLimit), at("volume_limit")},
		{cfgtree.String(sink), at("pulse_sink_name")},
	}
}

// Configure loads the jukebox config from confPath, replaces its output
// assignment with sel and saves it back.
func (w *Wizard) Configure(confPath string, sel Selection) error {
	cfg := w.registry.GetHandler(ConfigName)
	if err := cfg.Load(confPath); err != nil {
		return fmt.Errorf("failed to load jukebox config: %w", err)
	}

	settings := []setting{
		{cfgtree.Bool(sel.ToggleOnConnect), cfgtree.ParsePath(togglePath)},
		{cfgtree.EmptyMap(), cfgtree.ParsePath(outputsPath)},
	}
	settings = append(settings, outputSettings("primary", primaryAlias, sel.Primary)...)
	if sel.Secondary != "" {
		settings = append(settings, outputSettings("secondary", secondaryAlias, sel.Secondary)...)
	}

	for _, s := range settings {
		if err := cfg.Set(s.path, s.value); err != nil {
			return fmt.Errorf("failed to set %s: %w", s.path, err)
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save jukebox config: %w", err)
	}
	logging.Info("Audio outputs saved: primary=%s secondary=%s toggle=%t",
		sel.Primary, sel.Secondary, sel.ToggleOnConnect)
	return nil
}
