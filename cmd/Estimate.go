package cmd

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/dataset"
	"github.com/samuelfneumann/gomontecarlo/episode"
	"github.com/samuelfneumann/gomontecarlo/estimator"
	"github.com/samuelfneumann/gomontecarlo/experiment"
	"github.com/samuelfneumann/gomontecarlo/experiment/checkpointer"
	"github.com/samuelfneumann/gomontecarlo/experiment/tracker"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
	"github.com/samuelfneumann/gomontecarlo/utils/logging"
	"github.com/samuelfneumann/gomontecarlo/utils/progressbar"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

const (
	weighted = "weighted"
	ordinary = "ordinary"

	progressWidth = 40
)

// table is an estimator which can be saved to disk
type table[K comparable] interface {
	estimator.Estimator[K]
	checkpointer.Serializable
}

func newTable[K comparable](name string) (table[K], error) {
	switch name {
	case weighted:
		return estimator.NewWeighted[K](), nil
	case ordinary:
		return estimator.NewOrdinary[K](), nil
	default:
		return nil, errors.Errorf("newTable: unknown estimator %q", name)
	}
}

// EstimateCommand returns the command which estimates values from a
// dataset and prints them, one key per line sorted by key, as
//
//	key value weight
func EstimateCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "estimate the values of a target policy from a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := DefaultFlags()
			if err := v.Unmarshal(flags); err != nil {
				return errors.Wrap(err, "estimate: could not read flags")
			}
			return Estimate(cmd.Context(), flags, cmd.OutOrStdout(),
				cmd.ErrOrStderr())
		},
	}
	AddEstimateFlags(cmd.Flags(), DefaultFlags())
	return cmd
}

// Estimate runs the estimation described by f, writing the estimates to
// out and the progress bar, if any, to progress
func Estimate(ctx context.Context, f *Flags, out,
	progress io.Writer) error {
	if f.Data == "" {
		return errors.New("estimate: no dataset given")
	}
	if f.CheckpointEvery > 0 && f.Out == "" {
		return errors.New("estimate: checkpoints require an output file")
	}
	if f.Verify && f.Estimator != weighted {
		return errors.Errorf("estimate: only the %v estimator can be "+
			"verified", weighted)
	}

	d, err := dataset.LoadFile(f.Data)
	if err != nil {
		return errors.Wrap(err, "estimate")
	}
	target, behaviour, err := d.Policies()
	if err != nil {
		return errors.Wrap(err, "estimate")
	}

	p, err := episode.New(episode.Config{
		Visit:      episode.Visit(f.Visit),
		Correction: episode.Correction(f.Correction),
		Discount:   f.Discount,
	}, target, behaviour)
	if err != nil {
		return errors.Wrap(err, "estimate")
	}

	c := experiment.Config{
		Workers:     f.Workers,
		MaxEpisodes: f.MaxEpisodes,
		Kind:        experiment.ValueKind(f.Kind),
	}
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "estimate")
	}

	episodes := d.Episodes()
	if f.MaxEpisodes > 0 && f.MaxEpisodes < len(episodes) {
		episodes = episodes[:f.MaxEpisodes]
	}

	logging.Named("estimate").Infow("estimating",
		"data", f.Data,
		"episodes", len(episodes),
		"kind", c.Kind,
		"visit", f.Visit,
		"correction", f.Correction,
		"estimator", f.Estimator,
		"discount", f.Discount,
	)

	if c.Kind == experiment.ActionValues {
		est, err := newTable[ts.StateAction[string, string]](f.Estimator)
		if err != nil {
			return errors.Wrap(err, "estimate")
		}
		return run[ts.StateAction[string, string]](ctx, f, c, episodes,
			p.ActionSamples, est, out, progress,
			ts.StateAction[string, string].String)
	}

	est, err := newTable[string](f.Estimator)
	if err != nil {
		return errors.Wrap(err, "estimate")
	}
	return run[string](ctx, f, c, episodes, p.StateSamples, est, out, progress,
		func(s string) string { return s })
}

// run evaluates the episodes, saves the estimator if requested, and
// prints the estimates
func run[K comparable](ctx context.Context, f *Flags, c experiment.Config,
	episodes []ts.Episode[string, string],
	sample experiment.Sampler[string, string, K], est table[K],
	out, progress io.Writer, name func(K) string) error {
	e, err := experiment.New[string, string, K](c,
		experiment.NewSliceSource(episodes), sample, est)
	if err != nil {
		return errors.Wrap(err, "estimate")
	}

	if f.Progress {
		bar := progressbar.NewManualProgressBar(progress, progressWidth,
			len(episodes))
		e.Register(tracker.NewProgress[string, string](bar))
	}

	if f.CheckpointEvery > 0 {
		cp, err := checkpointer.NewNStep(f.CheckpointEvery, est,
			checkpointer.Filename(f.Out))
		if err != nil {
			return errors.Wrap(err, "estimate")
		}
		e.RegisterCheckpointer(cp)
	}

	if _, err := e.Run(ctx); err != nil {
		return errors.Wrap(err, "estimate")
	}
	if err := e.Save(); err != nil {
		return errors.Wrap(err, "estimate")
	}

	if f.Verify {
		if err := verify[K](episodes, sample, est); err != nil {
			return errors.Wrap(err, "estimate")
		}
	}

	if f.Out != "" {
		if err := est.Save(f.Out); err != nil {
			return errors.Wrap(err, "estimate")
		}
	}

	return write[K](out, est, name)
}

// write prints the estimate and cumulative weight of each key, sorted
// by the key's name. Keys whose names coincide are ordered by estimate.
func write[K comparable](w io.Writer, est estimator.Estimator[K],
	name func(K) string) error {
	type line struct {
		name          string
		value, weight float64
	}

	keys := est.Keys()
	lines := make([]line, len(keys))
	for i, key := range keys {
		lines[i] = line{name(key), est.ValueOf(key), est.WeightOf(key)}
	}

	slices.SortFunc(lines, func(a, b line) int {
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		return cmp.Compare(a.value, b.value)
	})

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%v %v %v\n", l.name, l.value,
			l.weight); err != nil {
			return errors.Wrap(err, "write")
		}
	}
	return nil
}
