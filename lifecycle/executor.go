// Package lifecycle runs a command invocation end to end: checks, argument validation, the body,
// then cooldown and usage bookkeeping. It is also where resolved requests re-enter.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/infinitybotlist/eureka/crypto"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/checks"
	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/cooldown"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/metrics"
	"github.com/anti-raid/cmdgate/requests"
	"github.com/anti-raid/cmdgate/types"
)

type State string

const (
	StateCreated             State = "created"
	StateChecking            State = "checking"
	StateValidatingArguments State = "validating_arguments"
	StateExecuting           State = "executing"
	StateFinalizing          State = "finalizing"
	StateDone                State = "done"
	StateErrored             State = "errored"
)

// ArgumentValidator turns raw arguments into typed values. Bad input is reported as a
// *checks.Failure.
type ArgumentValidator interface {
	Validate(ctx context.Context, desc *command.Descriptor, raw map[string]string) (map[string]any, error)
}

// UsageCounter counts successful executions per command
type UsageCounter interface {
	IncrementUsage(ctx context.Context, commandName string) error
}

// Outcome is what the transport reports back to the user
type Outcome struct {
	Command string
	State   State
	Result  any

	// Failure is set when a check or the body failed in an expected way
	Failure *checks.Failure

	// CorrelationID is set for unexpected errors. The error itself is only logged.
	CorrelationID string

	Timings map[State]time.Duration

	// Request is the resolved request when the outcome comes from a request hook
	Request *types.Request
}

// Silent reports whether nothing at all should be sent back
func (o *Outcome) Silent() bool {
	return o.Failure != nil && o.Failure.Silent
}

type Executor struct {
	Registry  *Registry
	Pipeline  *checks.Pipeline
	Arguments ArgumentValidator
	Cooldowns *cooldown.Tracker
	Requests  *requests.Workflow
	Usage     UsageCounter
	Resolver  invocation.Resolver
	Transport invocation.Transport
	Logger    *zap.Logger
}

// run tracks the state and phase timings of one execution
type run struct {
	e       *Executor
	outcome *Outcome
	phase   time.Time
}

func (e *Executor) newRun(name string) *run {
	return &run{
		e:       e,
		outcome: &Outcome{Command: name, State: StateCreated, Timings: map[State]time.Duration{}},
		phase:   time.Now(),
	}
}

func (r *run) enter(s State) {
	now := time.Now()

	if r.outcome.State != StateCreated {
		r.outcome.Timings[r.outcome.State] += now.Sub(r.phase)
	}

	r.outcome.State = s
	r.phase = now
}

func (r *run) finish(outcome string) *Outcome {
	for phase, d := range r.outcome.Timings {
		metrics.ObservePhase(r.outcome.Command, string(phase), d)
	}

	metrics.CountInvocation(r.outcome.Command, outcome)
	return r.outcome
}

func (r *run) done() *Outcome {
	r.enter(StateDone)
	return r.finish("done")
}

// fail ends the run with an expected failure
func (r *run) fail(f *checks.Failure) *Outcome {
	r.enter(StateErrored)
	r.outcome.Failure = f

	if f.Silent {
		return r.finish("silent")
	}

	return r.finish("failed")
}

// errored ends the run with an unexpected error. Expected failures wrapped in err are unwrapped.
func (r *run) errored(err error) *Outcome {
	var f *checks.Failure
	if errors.As(err, &f) {
		return r.fail(f)
	}

	failedIn := r.outcome.State
	r.enter(StateErrored)
	r.outcome.CorrelationID = crypto.RandString(16)

	r.e.Logger.Error(
		"Command errored",
		zap.String("command", r.outcome.Command),
		zap.String("state", string(failedIn)),
		zap.String("correlation_id", r.outcome.CorrelationID),
		zap.Error(err),
	)

	return r.finish("errored")
}

// catch turns a panic into an errored outcome. Must be deferred.
func (r *run) catch(out **Outcome) {
	if rec := recover(); rec != nil {
		r.e.Logger.Error("Panic", zap.String("command", r.outcome.Command), zap.Any("err", rec), zap.Stack("stack"))
		*out = r.errored(fmt.Errorf("panic: %v", rec))
	}
}

// Execute runs the named command. It never panics and never returns nil.
func (e *Executor) Execute(ctx context.Context, name string, p invocation.Params) (out *Outcome) {
	r := e.newRun(name)
	defer r.catch(&out)

	cmd, ok := e.Registry.Get(name)

	if !ok {
		return r.errored(fmt.Errorf("unknown command %s", name))
	}

	p.Command = cmd.Descriptor
	inv := invocation.New(p, e.Resolver, e.Transport)

	r.enter(StateChecking)

	failure, err := e.Pipeline.RunPriority(ctx, inv)

	if err != nil {
		return r.errored(err)
	}

	if failure != nil {
		return r.fail(failure)
	}

	// Resource gates resolve and check the targets the arguments reference, so they belong to
	// argument validation
	r.enter(StateValidatingArguments)

	inv.Values, err = e.Arguments.Validate(ctx, cmd.Descriptor, inv.Arguments)

	if err != nil {
		return r.errored(err)
	}

	failure, err = e.Pipeline.RunResource(ctx, inv)

	if err != nil {
		return r.errored(err)
	}

	if failure != nil {
		return r.fail(failure)
	}

	r.enter(StateExecuting)

	call := &Call{Invocation: inv, executor: e}

	r.outcome.Result, err = cmd.Body.Execute(ctx, call)

	if err != nil {
		return r.errored(err)
	}

	r.enter(StateFinalizing)

	if err := e.finalize(ctx, call); err != nil {
		return r.errored(err)
	}

	return r.done()
}

func (e *Executor) finalize(ctx context.Context, call *Call) error {
	inv := call.Invocation

	if !call.skipCooldown && !inv.Command.Skips(command.CheckCooldown) && e.Cooldowns != nil {
		setting := inv.Command.Defines().CooldownDuration.Default
		if inv.Decision != nil {
			setting = inv.Decision.CooldownDuration
		}

		if _, err := e.Cooldowns.Commit(ctx, inv, setting, inv.StartedAt); err != nil {
			return err
		}
	}

	if e.Usage != nil {
		if err := e.Usage.IncrementUsage(ctx, inv.Command.Name()); err != nil {
			return fmt.Errorf("failed to increment usage: %w", err)
		}
	}

	return nil
}
