package experiment

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gomontecarlo/episode"
	"github.com/samuelfneumann/gomontecarlo/estimator"
	"github.com/samuelfneumann/gomontecarlo/experiment/checkpointer"
	"github.com/samuelfneumann/gomontecarlo/experiment/tracker"
	ts "github.com/samuelfneumann/gomontecarlo/timestep"
	"github.com/samuelfneumann/gomontecarlo/utils/logging"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
)

// Sampler turns an episode into samples keyed by K
type Sampler[S, A, K comparable] func(ts.Episode[S, A]) ([]episode.Sample[K], error)

// Evaluation is an Experiment which estimates the values of a target
// policy from episodes supplied by a Source.
//
// Each episode is turned into samples by a Sampler, usually the
// StateSamples or ActionSamples method of an episode.Processor, and the
// samples are folded into an estimator. Episodes which cannot be turned
// into samples are logged and skipped. Samples which the estimator
// rejects stop the evaluation, since they indicate a bug upstream.
//
// Turning episodes into samples may be spread over several worker
// goroutines. Folding, tracking, and checkpointing always happen on the
// goroutine calling Run, so Trackers and Checkpointers need not be safe
// for concurrent use.
type Evaluation[S, A, K comparable] struct {
	config        Config
	source        Source[S, A]
	sample        Sampler[S, A, K]
	est           estimator.Estimator[K]
	trackers      []tracker.Tracker[S, A]
	checkpointers []checkpointer.Checkpointer

	logger *zap.SugaredLogger
	scope  tally.Scope
}

// New creates and returns a new Evaluation which folds the samples
// produced by sampler from the episodes of source into est. The t
// parameter is a slice of tracker.Tracker which determine what data is
// saved.
func New[S, A, K comparable](c Config, source Source[S, A],
	sampler Sampler[S, A, K], est estimator.Estimator[K],
	t ...tracker.Tracker[S, A]) (*Evaluation[S, A, K], error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "new")
	}

	return &Evaluation[S, A, K]{
		config:   c,
		source:   source,
		sample:   sampler,
		est:      est,
		trackers: t,
		logger:   logging.Named("experiment"),
		scope:    tally.NoopScope,
	}, nil
}

// NewStateEvaluation returns an Evaluation estimating state values with
// the Processor p
func NewStateEvaluation[S, A comparable](c Config, source Source[S, A],
	p *episode.Processor[S, A], est estimator.Estimator[S],
	t ...tracker.Tracker[S, A]) (*Evaluation[S, A, S], error) {
	if c.Kind != StateValues {
		return nil, errors.Errorf("newStateEvaluation: config is for value "+
			"kind %q", c.Kind)
	}
	return New(c, source, p.StateSamples, est, t...)
}

// NewActionEvaluation returns an Evaluation estimating action values
// with the Processor p
func NewActionEvaluation[S, A comparable](c Config, source Source[S, A],
	p *episode.Processor[S, A], est estimator.Estimator[ts.StateAction[S, A]],
	t ...tracker.Tracker[S, A]) (*Evaluation[S, A, ts.StateAction[S, A]],
	error) {
	if c.Kind != ActionValues {
		return nil, errors.Errorf("newActionEvaluation: config is for value "+
			"kind %q", c.Kind)
	}
	return New(c, source, p.ActionSamples, est, t...)
}

// Register registers a tracker.Tracker with an Evaluation so that data
// generated during the experiment can be tracked and saved
func (e *Evaluation[S, A, K]) Register(t tracker.Tracker[S, A]) {
	e.trackers = append(e.trackers, t)
}

// RegisterCheckpointer registers a checkpointer.Checkpointer, which is
// called after each episode is folded
func (e *Evaluation[S, A, K]) RegisterCheckpointer(c checkpointer.Checkpointer) {
	e.checkpointers = append(e.checkpointers, c)
}

// SetLogger sets the logger of the Evaluation
func (e *Evaluation[S, A, K]) SetLogger(l *zap.SugaredLogger) {
	e.logger = l
}

// SetScope sets the scope the Evaluation reports metrics to
func (e *Evaluation[S, A, K]) SetScope(s tally.Scope) {
	e.scope = s
}

// Estimator returns the estimator the Evaluation folds samples into
func (e *Evaluation[S, A, K]) Estimator() estimator.Estimator[K] {
	return e.est
}

// processed is an episode together with its samples, or the error
// which prevented computing them
type processed[S, A, K comparable] struct {
	number  int
	episode ts.Episode[S, A]
	samples []episode.Sample[K]
	err     error
}

// Run runs the entire experiment. The returned Result counts the work
// done even when an error is returned.
//
// If the Source fails, every episode read before the failure is folded
// before the error is returned. A sequential Run has already folded
// them when the failure occurs, a parallel Run drains its workers
// first. No episode is read after the failure.
func (e *Evaluation[S, A, K]) Run(ctx context.Context) (Result, error) {
	var (
		result Result
		err    error
	)

	if e.config.Workers > 1 {
		result, err = e.runParallel(ctx)
	} else {
		result, err = e.runSequential(ctx)
	}

	e.logger.Infow("evaluation finished",
		"episodes", result.Episodes,
		"rejected", result.Rejected,
		"samples", result.Samples,
		"keys", e.est.Len(),
	)
	return result, err
}

// runSequential reads, processes, and folds episodes one at a time
func (e *Evaluation[S, A, K]) runSequential(ctx context.Context) (Result,
	error) {
	var result Result

	for n := 0; e.config.MaxEpisodes == 0 || n < e.config.MaxEpisodes; n++ {
		ep, err := e.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return result, errors.Wrapf(err, "run: could not read episode %d", n)
		}

		samples, sampleErr := e.sample(ep)
		p := processed[S, A, K]{n, ep, samples, sampleErr}
		if err := e.fold(&result, p); err != nil {
			return result, err
		}
	}
	return result, nil
}

// runParallel reads episodes on one goroutine, processes them on
// Workers goroutines, and folds them on the calling goroutine
func (e *Evaluation[S, A, K]) runParallel(parent context.Context) (Result,
	error) {
	var result Result

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	type job struct {
		number  int
		episode ts.Episode[S, A]
	}
	jobs := make(chan job)
	results := make(chan processed[S, A, K])

	// Read episodes
	var readErr error
	go func() {
		defer close(jobs)
		for n := 0; e.config.MaxEpisodes == 0 || n < e.config.MaxEpisodes; n++ {
			ep, err := e.source.Next(ctx)
			if err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil {
					readErr = errors.Wrapf(err, "run: could not read "+
						"episode %d", n)
				}
				return
			}

			select {
			case jobs <- job{n, ep}:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process episodes
	var wg sync.WaitGroup
	for i := 0; i < e.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				samples, err := e.sample(j.episode)
				select {
				case results <- processed[S, A, K]{j.number, j.episode, samples, err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Fold samples
	for p := range results {
		if err := e.fold(&result, p); err != nil {
			return result, err
		}
	}

	if err := parent.Err(); err != nil {
		return result, errors.Wrap(err, "run")
	}
	return result, readErr
}

// fold folds the samples of a processed episode into the estimator and
// notifies trackers and checkpointers
func (e *Evaluation[S, A, K]) fold(result *Result,
	p processed[S, A, K]) error {
	if p.err != nil {
		result.Rejected++
		e.scope.Counter("episodes_rejected").Inc(1)
		e.logger.Warnw("rejected episode", "episode", p.number,
			"error", p.err)
		return nil
	}

	if err := episode.Fold(e.est, p.samples); err != nil {
		return errors.Wrapf(err, "run: episode %d", p.number)
	}

	result.Episodes++
	result.Samples += len(p.samples)
	e.scope.Counter("episodes").Inc(1)
	e.scope.Counter("samples").Inc(int64(len(p.samples)))
	e.scope.Gauge("keys").Update(float64(e.est.Len()))
	e.logger.Debugw("folded episode", "episode", p.number,
		"length", len(p.episode), "samples", len(p.samples))

	for _, t := range e.trackers {
		t.Track(p.episode)
	}

	for _, c := range e.checkpointers {
		if err := c.Checkpoint(result.Episodes); err != nil {
			return errors.Wrap(err, "run")
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (e *Evaluation[S, A, K]) Save() error {
	for _, t := range e.trackers {
		if err := t.Save(); err != nil {
			return errors.Wrap(err, "save")
		}
	}
	return nil
}
