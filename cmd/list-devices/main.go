// ABOUTME: CLI tool to list available audio output sinks.
// ABOUTME: Used to find sink names for the pulse.outputs section of jukebox.yaml.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/audio"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/prompt"
)

func main() {
	if err := printSinks(os.Stdout, audio.System{}); err != nil {
		fmt.Fprintf(os.Stderr, "Error listing audio sinks: %v\n", err)
		os.Exit(1)
	}
}

func printSinks(w io.Writer, lister audio.Lister) error {
	sinks, err := lister.ListSinks()
	if err != nil {
		return err
	}

	if len(sinks) == 0 {
		fmt.Fprintln(w, "No audio output sinks found.")
		return nil
	}

	fmt.Fprintln(w, "Available audio output sinks:")
	fmt.Fprintln(w)

	for i, s := range sinks {
		note := s.Description
		if s.IsDefault {
			note += " (default)"
		}
		fmt.Fprintln(w, prompt.Entry(i, s.Name, note))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "To assign outputs, run configure-audio or edit jukebox.yaml:")
	fmt.Fprintln(w, "  pulse.outputs.primary.pulse_sink_name: SINK_NAME")
	return nil
}
