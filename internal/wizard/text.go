package wizard

import (
	"fmt"
	"io"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/prompt"
)

// Welcome prints the introduction and the precautions for re-running the tool.
func Welcome(w io.Writer, confPath string) {
	prompt.Highlight(w, "The Jukebox audio output configuration tool")
	fmt.Fprint(w, `Please note:
 - Primary output must be available on system boot - i.e. not a bluetooth device
 - Secondary output is typically a bluetooth device
 - Connect your bluetooth device before running this script (or run it again later)
`)
	fmt.Fprintf(w, " - Will replace your audio output configuration in\n   '%s'\n", confPath)
	fmt.Fprint(w, ` - Exit all running Jukeboxes (including services) before continuing
     $ systemctl --user stop jukebox-daemon
 - Checkout the documentation page 'Audio Configuration'
 - If you are not sure which device is which, you can try them with
     $ sink-preview --device sink_name /usr/share/sounds/alsa/Front_Center.wav
 - To get a list of all sinks, check out below list or use
     $ list-devices
`)
}

// Goodbye points the operator at the settings worth adjusting by hand.
func Goodbye(w io.Writer, confPath string) {
	fmt.Fprintf(w, "Audio configuration saved to '%s'\n", confPath)
	fmt.Fprintln(w, "Adjust aliases and volume limits in the config file (pulse.outputs) if needed.")
}
