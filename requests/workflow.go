// Package requests implements the confirmation workflow: one actor asks another (or themselves)
// to confirm an action, and the answer arrives in a later, independent invocation.
package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/checks"
	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/types"
)

// Store persists requests. CreateRequest must fail with types.ErrDuplicate when a pending
// request with the same requestee, command and fingerprint exists, and ResolveRequest must only
// succeed on pending requests (types.ErrAlreadyResolved otherwise).
type Store interface {
	CreateRequest(ctx context.Context, r *types.Request) error
	FindPendingRequest(ctx context.Context, requesteeID, commandName, fingerprint string) (*types.Request, error)
	FindRequestByRef(ctx context.Context, ref string) (*types.Request, error)
	RequestByID(ctx context.Context, id string) (*types.Request, error)
	ResolveRequest(ctx context.Context, id string, accepted bool, at time.Time) error
}

type Workflow struct {
	Store  Store
	Logger *zap.Logger
	Now    func() time.Time
}

func NewWorkflow(store Store, logger *zap.Logger) *Workflow {
	return &Workflow{Store: store, Logger: logger, Now: time.Now}
}

func pendingFailure(inv *invocation.Context, requestee *types.Actor) *checks.Failure {
	return checks.Fail(command.CheckPendingRequest, checks.KindPendingRequest, checks.Params{
		Mention: requestee.Mention(),
		Command: inv.Command.Name(),
	}).Failure()
}

// Create persists a pending request from the invoking actor to requestee and prompts the
// requestee. Expected failures are returned as *checks.Failure.
func (w *Workflow) Create(ctx context.Context, inv *invocation.Context, requestee *types.Actor, arguments map[string]any) (*types.Request, error) {
	if requestee == nil {
		return nil, errors.New("request has no requestee")
	}

	requestor, err := inv.Actor(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to resolve requestor: %w", err)
	}

	fingerprint, err := Fingerprint(arguments)

	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint arguments: %w", err)
	}

	res, err := checks.PendingRequest(ctx, w.Store, inv, requestee, fingerprint)

	if err != nil {
		return nil, fmt.Errorf("failed to look up pending request: %w", err)
	}

	if !res.IsOk() {
		return nil, res.Failure()
	}

	req := &types.Request{
		RequestorID:          requestor.ID,
		RequesteeID:          requestee.ID,
		CommandName:          inv.Command.Name(),
		ArgumentsFingerprint: fingerprint,
		Arguments:            arguments,
		CreatedFromChannelID: inv.ChannelID,
		CreatedFromGuildID:   inv.GuildID,
		AcceptRef:            uuid.NewString(),
		DeclineRef:           uuid.NewString(),
		CreatedAt:            w.Now(),
	}

	err = w.Store.CreateRequest(ctx, req)

	if errors.Is(err, types.ErrDuplicate) {
		// Lost the race against a concurrent creation
		return nil, pendingFailure(inv, requestee)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	err = inv.Transport().DeliverPrompt(ctx, requestor, requestee, req)

	if err != nil {
		// An undeliverable request would block new ones forever
		if rerr := w.Store.ResolveRequest(ctx, req.ID, false, w.Now()); rerr != nil {
			w.Logger.Error("Failed to decline undeliverable request", zap.String("request_id", req.ID), zap.Error(rerr))
		}

		return nil, fmt.Errorf("failed to deliver prompt: %w", err)
	}

	w.Logger.Debug("Request created", zap.String("request_id", req.ID), zap.String("command", req.CommandName), zap.String("requestee_id", requestee.ID))

	return req, nil
}

// Resolve accepts or declines the request behind ref on behalf of the responder. Only the
// requestee may respond and only once. The returned request reflects the new state.
func (w *Workflow) Resolve(ctx context.Context, ref string, responder *types.Actor) (*types.Request, error) {
	req, accepted, err := w.Find(ctx, ref, responder)

	if err != nil {
		return nil, err
	}

	err = w.Commit(ctx, req, accepted, responder)

	if err != nil {
		return nil, err
	}

	return req, nil
}

// Find looks up the pending request behind ref and reports whether ref accepts it. It fails
// with not_requestee, request_not_found or request_already_resolved without changing anything.
func (w *Workflow) Find(ctx context.Context, ref string, responder *types.Actor) (*types.Request, bool, error) {
	params := checks.Params{Mention: responder.Mention()}

	req, err := w.Store.FindRequestByRef(ctx, ref)

	if errors.Is(err, types.ErrNotFound) {
		// Buttons outlive the requests they point to
		return nil, false, checks.Fail(command.CheckPendingRequest, checks.KindRequestNotFound, params).Failure()
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to find request: %w", err)
	}

	params.Command = req.CommandName

	if responder == nil || responder.ID != req.RequesteeID {
		return nil, false, checks.Fail(command.CheckPendingRequest, checks.KindNotRequestee, params).Failure()
	}

	if !req.Pending() {
		return nil, false, checks.Fail(command.CheckPendingRequest, checks.KindRequestAlreadyResolved, params).Failure()
	}

	return req, ref == req.AcceptRef, nil
}

// Commit moves a pending request found by Find to its terminal state. Losing a concurrent
// resolution fails with request_already_resolved.
func (w *Workflow) Commit(ctx context.Context, req *types.Request, accepted bool, responder *types.Actor) error {
	at := w.Now()

	err := w.Store.ResolveRequest(ctx, req.ID, accepted, at)

	if errors.Is(err, types.ErrAlreadyResolved) {
		return checks.Fail(command.CheckPendingRequest, checks.KindRequestAlreadyResolved, checks.Params{
			Mention: responder.Mention(),
			Command: req.CommandName,
		}).Failure()
	}

	if err != nil {
		return fmt.Errorf("failed to resolve request: %w", err)
	}

	req.Accepted = &accepted
	req.ResolvedAt = &at

	w.Logger.Debug("Request resolved", zap.String("request_id", req.ID), zap.Bool("accepted", accepted))

	return nil
}
