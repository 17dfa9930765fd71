// Package cmd implements the mcest command line, which estimates the
// values of a target policy from recorded episodes
package cmd

import (
	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/utils/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCommand returns the mcest command with all its subcommands
func RootCommand() *cobra.Command {
	v := viper.New()
	defaults := DefaultFlags()
	var configFile string

	cmd := &cobra.Command{
		Use:          "mcest",
		Short:        "Monte Carlo value estimation from recorded episodes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v, cmd, configFile); err != nil {
				return err
			}

			_, err := logging.Setup(logging.Options{
				Level:    v.GetString("log-level"),
				Encoding: logging.Encoding(v.GetString("log-encoding")),
				Name:     "mcest",
				Stderr:   true,
			})
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML file of flag values, overridden by flags")
	AddLogFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(
		EstimateCommand(v),
		VersionCommand(),
	)
	return cmd
}

// readConfig binds the flags of cmd to v and reads the config file, if
// one is given. Flags which are set take precedence over the file.
func readConfig(v *viper.Viper, cmd *cobra.Command, configFile string) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "readConfig: could not bind flags")
	}

	if configFile == "" {
		return nil
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "readConfig: could not read config %v",
			configFile)
	}
	return nil
}
