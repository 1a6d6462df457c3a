package cmd

import (
	"log"

	"github.com/josephlewis42/myshell/core"
	"github.com/josephlewis42/myshell/core/config"
	"github.com/josephlewis42/myshell/core/logger"
	"github.com/josephlewis42/myshell/core/proc"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath   string
	colorMode string
	runLine   string

	// Overridden in tests.
	configFs   afero.Fs = afero.NewOsFs()
	shellStdio          = proc.DefaultStdio
)

func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.LoadOrDefault(configFs, cfgPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("color") {
		cfg.Color = colorMode
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "myshell",
	Short: "A minimal interactive command interpreter.",
	Long: `A minimal interactive command interpreter.

Lines are split on whitespace, a trailing & runs the command in the
background and a single | connects two commands.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		log.SetOutput(cmd.ErrOrStderr())
		log.SetPrefix("[myshell] ")
		log.SetFlags(0)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		events := logger.NewNopLogger()
		if cfg.HasEventLog() {
			fd, err := cfg.OpenEventLog()
			if err != nil {
				return err
			}
			defer fd.Close()
			events = logger.NewJsonLinesLogRecorder(fd)
		}

		stdio := shellStdio()
		if cmd.Flags().Changed("command") {
			// The line comes from the flag; stdin belongs to the command.
			sessionStdio := stdio
			sessionStdio.In = nil

			s, err := core.NewShell(cfg, sessionStdio, events.NewSession())
			if err != nil {
				return err
			}
			s.Launcher.Stdio.In = stdio.In
			s.RunLine(runLine)
			return nil
		}

		s, err := core.NewShell(cfg, stdio, events.NewSession())
		if err != nil {
			return err
		}

		// Sessions always end with status zero.
		s.Run()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.Flags().StringVar(&colorMode, "color", config.ColorAuto, "color the error prefix: always, auto or never")
	rootCmd.Flags().StringVarP(&runLine, "command", "c", "", "run a single line and exit")
}
