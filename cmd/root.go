package cmd

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shireesh.com/starter/internal/logging"
	"shireesh.com/starter/internal/tui"
)

var version = "0.1.0"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	templates  fs.FS
	configFile string
	config     *viper.Viper
	log        *logrus.Logger

	// interactive hooks, replaced in tests
	prompt tui.Prompter
	choose func([]string) (string, error)
}

func (a *app) prompter() tui.Prompter {
	if a.prompt == nil {
		return tui.Terminal{}
	}
	return a.prompt
}

func (a *app) selectTemplate(names []string) (string, error) {
	if a.choose == nil {
		return tui.SelectTemplate(names)
	}
	return a.choose(names)
}

// NewRootCmd builds the command tree over the given templates directory,
// which holds one sub-directory per template.
func NewRootCmd(templates fs.FS) *cobra.Command {
	return newRootCmd(&app{templates: templates})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "starter",
		Short:         "Scaffold Kedro pipeline projects from templates with hooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default $HOME/.starter/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(
		newNewCmd(a),
		newHookCmd(a),
		newTemplatesCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := newConfig(a.configFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := v.BindPFlag("log.level", cmd.Flag("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.format", cmd.Flag("log-format")); err != nil {
		return err
	}
	log, err := logging.New(v.GetString("log.level"), v.GetString("log.format"), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.config, a.log = v, log
	if used := v.ConfigFileUsed(); used != "" {
		log.WithField("file", used).Debug("loaded config")
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the starter version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "starter", version)
		},
	}
}

func Execute(templates fs.FS) {
	err := NewRootCmd(templates).Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
