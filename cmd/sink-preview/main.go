// ABOUTME: CLI tool for playing a test sound on a chosen PulseAudio sink.
// ABOUTME: Helps tell sinks apart before assigning them with configure-audio.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/audio"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/platform"
)

type playFunc func(sink string, volume float64, path string) error

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, playOnSink))
}

func playOnSink(sink string, volume float64, path string) error {
	player, err := audio.NewPlayer(sink, volume)
	if err != nil {
		return fmt.Errorf("creating audio player: %w", err)
	}
	defer player.Close()
	return player.Play(path)
}

func run(args []string, stdout, stderr io.Writer, play playFunc) int {
	flags := pflag.NewFlagSet("sink-preview", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	volume := flags.Float64("volume", 1.0, "Volume level (0.0 to 1.0)")
	sink := flags.StringP("device", "d", "", "PulseAudio sink name (empty = system default)")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sink-preview [options] <path-to-audio-file>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nSupported formats: %s\n\n", strings.Join(audio.SupportedFormats(), " "))
		fmt.Fprintf(stderr, "Examples:\n")
		fmt.Fprintf(stderr, "  sink-preview /usr/share/sounds/alsa/Front_Center.wav\n")
		fmt.Fprintf(stderr, "  sink-preview --volume 0.3 /usr/share/sounds/alsa/Front_Center.wav\n")
		fmt.Fprintf(stderr, "  sink-preview --device bluez_sink.AA_BB_CC_DD_EE_FF.a2dp_sink beep.mp3\n")
		fmt.Fprintf(stderr, "\nList available sinks:\n")
		fmt.Fprintf(stderr, "  list-devices\n")
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *volume < 0.0 || *volume > 1.0 {
		fmt.Fprintf(stderr, "Error: Volume must be between 0.0 and 1.0 (got %.2f)\n", *volume)
		return 1
	}

	if flags.NArg() < 1 {
		flags.Usage()
		return 1
	}

	soundPath := flags.Arg(0)
	if !platform.FileExists(soundPath) {
		fmt.Fprintf(stderr, "Error: Sound file not found: %s\n", soundPath)
		return 1
	}

	volumePercent := int(*volume * 100)
	if *sink != "" {
		fmt.Fprintf(stdout, "Playing: %s (volume: %d%%, sink: %s)\n", filepath.Base(soundPath), volumePercent, *sink)
	} else {
		fmt.Fprintf(stdout, "Playing: %s (volume: %d%%)\n", filepath.Base(soundPath), volumePercent)
	}

	if err := play(*sink, *volume, soundPath); err != nil {
		fmt.Fprintf(stderr, "Error playing sound: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Playback completed")
	return 0
}
