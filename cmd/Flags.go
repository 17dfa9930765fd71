package cmd

import (
	"github.com/samuelfneumann/gomontecarlo/episode"
	"github.com/samuelfneumann/gomontecarlo/experiment"
	"github.com/samuelfneumann/gomontecarlo/utils/logging"
	"github.com/spf13/pflag"
)

// Flags holds the options of the estimate command. Each option can be
// given as a flag or as a key of the same name in the config file.
type Flags struct {
	Data            string  `mapstructure:"data"`
	Visit           string  `mapstructure:"visit"`
	Correction      string  `mapstructure:"correction"`
	Estimator       string  `mapstructure:"estimator"`
	Kind            string  `mapstructure:"kind"`
	Discount        float64 `mapstructure:"discount"`
	Workers         int     `mapstructure:"workers"`
	MaxEpisodes     int     `mapstructure:"max-episodes"`
	Out             string  `mapstructure:"out"`
	CheckpointEvery int     `mapstructure:"checkpoint-every"`
	Progress        bool    `mapstructure:"progress"`
	Verify          bool    `mapstructure:"verify"`

	LogLevel    string `mapstructure:"log-level"`
	LogEncoding string `mapstructure:"log-encoding"`
}

// DefaultFlags returns the default options
func DefaultFlags() *Flags {
	return &Flags{
		Visit:       string(episode.EveryVisit),
		Correction:  string(episode.Importance),
		Estimator:   weighted,
		Kind:        string(experiment.StateValues),
		Discount:    1,
		Workers:     1,
		LogLevel:    logging.DefaultOptions().Level,
		LogEncoding: string(logging.DefaultOptions().Encoding),
	}
}

// AddLogFlags adds the logging flags, shared by all commands
func AddLogFlags(fs *pflag.FlagSet, defaults *Flags) {
	fs.String("log-level", defaults.LogLevel, "Minimum level of logged messages (debug|info|warn|error)")
	fs.String("log-encoding", defaults.LogEncoding, "Encoding of logged messages (console|json)")
}

// AddEstimateFlags adds the flags of the estimate command
func AddEstimateFlags(fs *pflag.FlagSet, defaults *Flags) {
	fs.String("data", defaults.Data, "Dataset of recorded episodes (YAML or JSON)")
	fs.String("visit", defaults.Visit, "Visits which produce samples (first|every)")
	fs.String("correction", defaults.Correction, "Off-policy correction (onpolicy|importance|discount-aware|per-decision)")
	fs.String("estimator", defaults.Estimator, "Estimator to fold samples into (weighted|ordinary)")
	fs.String("kind", defaults.Kind, "Values to estimate, state values (v) or action values (q)")
	fs.Float64("discount", defaults.Discount, "Discount factor in [0, 1]")
	fs.Int("workers", defaults.Workers, "Number of goroutines processing episodes")
	fs.Int("max-episodes", defaults.MaxEpisodes, "Maximum number of episodes to read, 0 for all")
	fs.String("out", defaults.Out, "File to save the estimator to")
	fs.Int("checkpoint-every", defaults.CheckpointEvery, "Save the estimator to --out every N episodes, 0 to disable")
	fs.Bool("progress", defaults.Progress, "Display a progress bar on standard error")
	fs.Bool("verify", defaults.Verify, "Check the estimates against batch weighted means")
}
