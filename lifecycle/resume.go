package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/arguments"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/metrics"
	"github.com/anti-raid/cmdgate/types"
)

// Respond answers the request behind ref on behalf of the responder and re-enters the command
// that created it.
//
// An accept only becomes final once the resume gates pass, so a request whose target went away
// stays pending and can be answered again later. A decline is final at once.
func (e *Executor) Respond(ctx context.Context, ref, responderDiscordID string) (out *Outcome) {
	r := e.newRun("respond")
	defer r.catch(&out)

	responder, err := e.Resolver.ResolveActor(ctx, responderDiscordID)

	if err != nil {
		return r.errored(fmt.Errorf("failed to resolve responder: %w", err))
	}

	req, accepted, err := e.Requests.Find(ctx, ref, responder)

	if err != nil {
		return r.errored(err)
	}

	return e.resume(ctx, req, accepted, func(ctx context.Context) error {
		if err := e.Requests.Commit(ctx, req, accepted, responder); err != nil {
			return err
		}

		metrics.CountResolution(req.CommandName, accepted)
		return nil
	})
}

// ResumeRequest rebuilds the call that created a resolved request and runs the matching hook.
// Registration and permission gates are not re-run; a declined request resets the requestor's
// cooldown for the command's scope before anything else.
func (e *Executor) ResumeRequest(ctx context.Context, req *types.Request) (out *Outcome) {
	if req.Pending() {
		r := e.newRun(req.CommandName)
		r.outcome.Request = req
		return r.errored(fmt.Errorf("request %s is still pending", req.ID))
	}

	return e.resume(ctx, req, *req.Accepted, nil)
}

// resume runs a request hook. commit, when set, makes the resolution durable: for accepts after
// the resume gates and argument validation passed, for declines before the cooldown reset.
func (e *Executor) resume(ctx context.Context, req *types.Request, accepted bool, commit func(context.Context) error) (out *Outcome) {
	r := e.newRun(req.CommandName)
	r.outcome.Request = req
	defer r.catch(&out)

	cmd, ok := e.Registry.Get(req.CommandName)

	if !ok {
		return r.errored(fmt.Errorf("request %s references unknown command %s", req.ID, req.CommandName))
	}

	handler, ok := cmd.Body.(RequestHandler)

	if !ok {
		return r.errored(fmt.Errorf("command %s does not handle requests", req.CommandName))
	}

	requestor, err := e.Resolver.ActorByID(ctx, req.RequestorID)

	if err != nil {
		return r.errored(fmt.Errorf("failed to resolve requestor: %w", err))
	}

	if requestor == nil {
		return r.errored(fmt.Errorf("requestor %s of request %s no longer exists", req.RequestorID, req.ID))
	}

	inv := invocation.New(invocation.Params{
		Command:        cmd.Descriptor,
		ActorDiscordID: requestor.DiscordID,
		ChannelID:      req.CreatedFromChannelID,
		GuildID:        req.CreatedFromGuildID,
		Arguments:      arguments.Raw(req.Arguments),
	}, e.Resolver, e.Transport)
	inv.SeedActor(requestor)

	if accepted {
		r.enter(StateChecking)

		failure, err := e.Pipeline.Run(ctx, inv, e.Pipeline.ResumeGates())

		if err != nil {
			return r.errored(err)
		}

		if failure != nil {
			return r.fail(failure)
		}

		r.enter(StateValidatingArguments)

		inv.Values, err = e.Arguments.Validate(ctx, cmd.Descriptor, inv.Arguments)

		if err != nil {
			return r.errored(err)
		}
	}

	if commit != nil {
		if err := commit(ctx); err != nil {
			return r.errored(err)
		}
	}

	if !accepted {
		// The key only needs the stored arguments; target gates do not apply to a decline
		if e.Cooldowns != nil {
			if err := e.Cooldowns.Reset(ctx, inv); err != nil {
				return r.errored(err)
			}
		}

		r.enter(StateValidatingArguments)

		inv.Values, err = e.Arguments.Validate(ctx, cmd.Descriptor, inv.Arguments)

		if err != nil {
			return r.errored(err)
		}
	}

	call := &Call{Invocation: inv, Request: req, executor: e}

	r.enter(StateExecuting)

	if accepted {
		r.outcome.Result, err = handler.OnRequestAccepted(ctx, call)
	} else {
		r.outcome.Result, err = handler.OnRequestDeclined(ctx, call)
	}

	if err != nil {
		return r.errored(err)
	}

	r.enter(StateFinalizing)

	if accepted && e.Usage != nil {
		if err := e.Usage.IncrementUsage(ctx, req.CommandName); err != nil {
			return r.errored(fmt.Errorf("failed to increment usage: %w", err))
		}
	}

	e.Logger.Debug("Request handled", zap.String("request_id", req.ID), zap.String("command", req.CommandName), zap.Bool("accepted", accepted))

	return r.done()
}
