package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	cfg    *viper.Viper
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: viper.New(), logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "hackvm",
		Short: "Translate stack-machine VM code into Hack assembly",
		Long: `hackvm translates programs written for the stack-based virtual machine
into assembly for the Hack computer. It supports push and pop over the eight
memory segments and the nine arithmetic and logical commands.

The translated code can also be assembled and executed on a built-in
emulator, which is useful for checking what a program leaves on the stack.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			return a.processGlobalFlags(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.hackvm.yaml)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	a.cfg.BindPFlag("no-color", flags.Lookup("no-color"))
	a.cfg.BindPFlag("log-level", flags.Lookup("log-level"))

	cmd.AddCommand(
		newTranslateCmd(a),
		newCheckCmd(a),
		newDisCmd(a),
		newRunCmd(a),
		newFmtCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// initConfig reads the config file and environment. An explicit --config
// file must exist; the default one is optional.
func (a *app) initConfig(cmd *cobra.Command) error {
	a.cfg.SetEnvPrefix("hackvm")
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv()

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		a.cfg.SetConfigFile(cfgFile)
		return a.cfg.ReadInConfig()
	}
	home, err := homedir.Dir()
	if err != nil {
		return nil
	}
	a.cfg.AddConfigPath(home)
	a.cfg.SetConfigName(".hackvm")
	a.cfg.SetConfigType("yaml")
	if err := a.cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Reads global flags and adjusts colors and logging accordingly.
func (a *app) processGlobalFlags(stderr io.Writer) error {
	noColor := a.cfg.GetBool("no-color") || os.Getenv("NO_COLOR") != ""
	if noColor {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(a.cfg.GetString("log-level"))
	if err != nil {
		return err
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: noColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
	if used := a.cfg.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("file", used).Msg("loaded config")
	}
	return nil
}
