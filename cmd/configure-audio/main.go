// ABOUTME: Interactive tool that registers PulseAudio sinks as jukebox outputs.
// ABOUTME: Writes pulse.outputs and pulse.toggle_on_connect into jukebox.yaml.
package main

import (
	"os"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/errorhandler"
)

func main() {
	errorhandler.Init(true, false, true)
	defer errorhandler.HandlePanic()

	if err := newRootCmd(systemDeps()).Execute(); err != nil {
		errorhandler.HandleCriticalError(err, "Audio configuration failed")
		os.Exit(1)
	}
}
