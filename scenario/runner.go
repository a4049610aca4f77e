package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rfielding/kripke-del/internal/logging"
	"github.com/rfielding/kripke-del/kripke"
	"github.com/rfielding/kripke-del/store"
)

// ErrTooManyWorlds is returned when an announcement would have to search the
// power set of a structure larger than the runner allows.
var ErrTooManyWorlds = errors.New("structure too large to solve")

// Recorder persists runs; *store.Store implements it.
type Recorder interface {
	CreateRun(ctx context.Context, scenario string) (store.Run, error)
	SaveSnapshot(ctx context.Context, snap store.Snapshot) error
}

// Runner executes compiled scenarios.
type Runner struct {
	logger         *bolt.Logger
	tracer         trace.Tracer
	recorder       Recorder
	maxSolveWorlds int
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *bolt.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithTracer sets the tracer. Defaults to a no-op tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// WithRecorder persists every step through rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithMaxSolveWorlds bounds the size of structures an announcement may
// search. Zero means no bound.
func WithMaxSolveWorlds(n int) Option {
	return func(r *Runner) { r.maxSolveWorlds = n }
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: logging.Discard(),
		tracer: noop.NewTracerProvider().Tracer("scenario"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index     int
	Kind      StepKind
	Label     string
	Structure *kripke.Structure
	Duration  time.Duration

	// Announce only.
	Candidates int
	Removed    []string

	// Check only.
	Holds   bool
	Failing []string
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Scenario string
	Initial  *kripke.Structure
	Final    *kripke.Structure
	Steps    []StepResult
}

// Passed reports whether every check held.
func (r *Result) Passed() bool {
	for _, s := range r.Steps {
		if s.Kind == KindCheck && !s.Holds {
			return false
		}
	}
	return true
}

// Run executes the steps in order, threading the structure through them. The
// compiled scenario is not modified.
func (r *Runner) Run(ctx context.Context, c *Compiled) (res *Result, err error) {
	ctx, span := r.tracer.Start(ctx, "scenario.run", trace.WithAttributes(
		attribute.String("scenario.name", c.Name),
		attribute.Int("scenario.steps", len(c.Steps)),
		attribute.Int("kripke.worlds", c.Structure.Len()),
	))
	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logging.NewEvent(r.logger.Error()).
				Add(logging.Scenario(c.Name), logging.ErrorField(err)).
				Msg("scenario failed")
		}
		span.End()
	}()

	res = &Result{
		Scenario: c.Name,
		Initial:  c.Structure.Clone(),
		Final:    c.Structure.Clone(),
	}

	if r.recorder != nil {
		run, err := r.recorder.CreateRun(ctx, c.Name)
		if err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
		res.RunID = run.ID
		span.SetAttributes(attribute.String("scenario.run_id", run.ID))
		if err := r.recorder.SaveSnapshot(ctx, store.Snapshot{
			RunID: run.ID, Step: 0, Kind: "initial", Label: c.Name, Structure: res.Initial,
		}); err != nil {
			return nil, fmt.Errorf("save initial snapshot: %w", err)
		}
	}

	logging.NewEvent(r.logger.Info()).
		Add(logging.Scenario(c.Name), logging.RunID(res.RunID), logging.Worlds(res.Initial.Len())).
		Msg("scenario started")

	for i, step := range c.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sr, err := r.runStep(ctx, i+1, step, res.Final)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Kind, err)
		}
		res.Steps = append(res.Steps, sr)
		res.Final = sr.Structure

		if r.recorder != nil {
			if err := r.recorder.SaveSnapshot(ctx, store.Snapshot{
				RunID: res.RunID, Step: sr.Index, Kind: string(sr.Kind), Label: sr.Label, Structure: sr.Structure,
			}); err != nil {
				return nil, fmt.Errorf("save snapshot %d: %w", sr.Index, err)
			}
		}
	}

	logging.NewEvent(r.logger.Info()).
		Add(
			logging.Scenario(c.Name),
			logging.RunID(res.RunID),
			logging.Worlds(res.Final.Len()),
			logging.Holds(res.Passed()),
			logging.Duration(time.Since(start)),
		).
		Msg("scenario finished")
	span.SetAttributes(attribute.Bool("scenario.passed", res.Passed()))
	return res, nil
}

func (r *Runner) runStep(ctx context.Context, index int, step Step, ks *kripke.Structure) (StepResult, error) {
	_, span := r.tracer.Start(ctx, "scenario."+string(step.Kind), trace.WithAttributes(
		attribute.Int("scenario.step", index),
		attribute.String("scenario.label", step.Label),
		attribute.Int("kripke.worlds.before", ks.Len()),
	))
	defer span.End()

	start := time.Now()
	sr := StepResult{Index: index, Kind: step.Kind, Label: step.Label}

	switch step.Kind {
	case KindAnnounce:
		if r.maxSolveWorlds > 0 && ks.Len() > r.maxSolveWorlds {
			err := fmt.Errorf("%w: %d worlds, limit %d", ErrTooManyWorlds, ks.Len(), r.maxSolveWorlds)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return sr, err
		}
		next, stats := kripke.SolveWithStats(ks, step.Formula)
		sr.Structure = next
		sr.Candidates = stats.Candidates
		sr.Removed = stats.Removed
		span.SetAttributes(attribute.Int("kripke.candidates", stats.Candidates))
	case KindUpdate:
		sr.Structure = kripke.ApplyActionModel(ks, step.Actions, step.Agents)
	case KindCheck:
		sr.Structure = ks
		sr.Failing = ks.NodesNotFollowFormula(step.Formula)
		sr.Holds = len(sr.Failing) == 0
		span.SetAttributes(attribute.Bool("kripke.holds", sr.Holds))
	default:
		return sr, fmt.Errorf("unknown step kind %q", step.Kind)
	}
	sr.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("kripke.worlds.after", sr.Structure.Len()),
		attribute.Int("kripke.pairs", sr.Structure.Relations().Len()),
	)

	fields := []logging.Field{
		logging.Component("runner"),
		logging.Step(index, string(step.Kind)),
		logging.Formula(step.Label),
		logging.Worlds(sr.Structure.Len()),
		logging.Pairs(sr.Structure.Relations().Len()),
		logging.Duration(sr.Duration),
	}
	switch step.Kind {
	case KindAnnounce:
		fields = append(fields, logging.Candidates(sr.Candidates))
	case KindCheck:
		fields = append(fields, logging.Holds(sr.Holds))
	}
	logging.NewEvent(r.logger.Info()).Add(fields...).Msg("step complete")
	return sr, nil
}
