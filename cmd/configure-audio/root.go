package main

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/audio"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/cfghandler"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/hostif"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/logging"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/platform"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/prompt"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/wizard"
)

const envPrefix = "JUKEBOX"

type serviceChecker interface {
	IsAnyServiceActive(ctx context.Context) (bool, error)
}

// deps are the host collaborators of the wizard.
type deps struct {
	fs          afero.Fs
	sinks       audio.Lister
	services    serviceChecker
	prompter    func(accessible bool, in io.Reader, out io.Writer) prompt.Prompter
	defaultConf func() string
}

func systemDeps() deps {
	return deps{
		fs:       afero.NewOsFs(),
		sinks:    audio.System{},
		services: hostif.NewChecker(nil),
		prompter: func(accessible bool, in io.Reader, out io.Writer) prompt.Prompter {
			return prompt.NewForm(prompt.WithAccessible(accessible), prompt.WithIO(in, out))
		},
		defaultConf: platform.DefaultJukeboxConfig,
	}
}

func newRootCmd(d deps) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "configure-audio",
		Short: "Configure the jukebox audio outputs",
		Long: `Register PulseAudio sinks as the jukebox's primary and secondary outputs.

The primary output must be available on boot. The secondary output is
typically a bluetooth headset. Run the tool again after pairing a new device.

Settings may also be given as environment variables:
  JUKEBOX_CONF        config file
  JUKEBOX_ACCESSIBLE  line based prompts
  JUKEBOX_VERBOSE     debug logging`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.InitLogger(cmd.ErrOrStderr(), v.GetBool("verbose"))
			logging.SetPrefix(cmd.Name())

			confPath := platform.ExpandEnv(v.GetString("conf"))
			logging.Debug("Using config file %s", confPath)

			registry := cfghandler.NewRegistry(cfghandler.WithFs(d.fs))
			p := d.prompter(v.GetBool("accessible"), cmd.InOrStdin(), cmd.OutOrStdout())
			w := wizard.New(cmd.OutOrStdout(), registry, p, d.sinks, d.services)
			return w.Run(cmd.Context(), confPath)
		},
	}

	flags := cmd.Flags()
	flags.StringP("conf", "c", d.defaultConf(), "jukebox configuration file")
	flags.Bool("accessible", false, "use line based prompts instead of the interactive form")
	flags.Bool("verbose", false, "enable debug logging")
	for _, name := range []string{"conf", "accessible", "verbose"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	return cmd
}
