package checks

import (
	"context"

	"golang.org/x/exp/slices"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/permissions"
	"github.com/anti-raid/cmdgate/types"
)

func (p *Pipeline) devOnly(_ context.Context, inv *invocation.Context) (Result, error) {
	if !inv.Command.DevOnly() || slices.Contains(p.Config.DevUserIDs, inv.ActorDiscordID) {
		return Pass(), nil
	}

	return FailSilently(command.CheckDevOnly, KindDevOnly), nil
}

func (p *Pipeline) registrationRequired(ctx context.Context, inv *invocation.Context) (Result, error) {
	if !inv.Command.RequiresRegistration() {
		return Pass(), nil
	}

	actor, err := inv.Actor(ctx)

	if err != nil {
		return Pass(), err
	}

	if actor.Registered() {
		return Pass(), nil
	}

	return Fail(command.CheckRegistrationRequired, KindRegistrationRequired, Params{Mention: inv.Mention()}), nil
}

func (p *Pipeline) textOnly(_ context.Context, inv *invocation.Context) (Result, error) {
	if inv.Command.ChannelRestriction() != command.ChannelTextOnly || inv.IsText() {
		return Pass(), nil
	}

	return Fail(command.CheckTextOnly, KindTextOnly, Params{Mention: inv.Mention(), Command: inv.Command.Name()}), nil
}

func (p *Pipeline) dmOnly(ctx context.Context, inv *invocation.Context) (Result, error) {
	if inv.Command.ChannelRestriction() != command.ChannelDMOnly || inv.IsDirect() {
		return Pass(), nil
	}

	current, err := inv.Deployment(ctx)

	if err != nil {
		return Pass(), err
	}

	// Player mode lets dm-only commands run in the deployment's text channels
	if current != nil && current.PlayerModeEnabled {
		return Pass(), nil
	}

	return Fail(command.CheckDMOnly, KindDMOnly, Params{Mention: inv.Mention(), Command: inv.Command.Name()}), nil
}

func (p *Pipeline) playerMode(ctx context.Context, inv *invocation.Context) (Result, error) {
	if !inv.IsText() || inv.Command.ChannelRestriction() == command.ChannelDMOnly {
		return Pass(), nil
	}

	current, err := inv.Deployment(ctx)

	if err != nil {
		return Pass(), err
	}

	if current == nil || !current.PlayerModeEnabled || inv.Command.Kind() != command.KindAdmin {
		return Pass(), nil
	}

	target, err := inv.TargetDeployment(ctx)

	if err != nil {
		return Pass(), err
	}

	if target == nil || target.Same(current) {
		return Pass(), nil
	}

	return Fail(command.CheckPlayerMode, KindPlayerMode, Params{Mention: inv.Mention(), Community: target.PublicID}), nil
}

func (p *Pipeline) permissions(ctx context.Context, inv *invocation.Context) (Result, error) {
	cfg, err := permissions.Lookup(ctx, p.Scopes, inv)

	if err != nil {
		return Pass(), err
	}

	decision, err := p.Permissions.Resolve(ctx, inv.Command, cfg, inv)

	if err != nil {
		return Pass(), err
	}

	inv.ScopeConfiguration = cfg
	inv.Decision = &decision

	params := Params{Mention: inv.Mention(), Command: inv.Command.Name()}

	switch {
	case !decision.Enabled:
		if !decision.NotifyWhenDisabled && inv.IsText() {
			return FailSilently(command.CheckPermissions, KindCommandDisabled), nil
		}
		return Fail(command.CheckPermissions, KindCommandDisabled, params), nil
	case !decision.Whitelisted:
		return Fail(command.CheckPermissions, KindNotWhitelisted, params), nil
	case !decision.AllowedInChannel:
		return Fail(command.CheckPermissions, KindNotAllowedInTextChannels, params), nil
	}

	return Pass(), nil
}

func (p *Pipeline) nilTargetServer(ctx context.Context, inv *invocation.Context) (Result, error) {
	raw, ok := inv.Supplied(command.ArgServer)

	if !ok {
		return Pass(), nil
	}

	resource, err := inv.TargetResource(ctx)

	if err != nil || resource != nil {
		return Pass(), err
	}

	suggestions, err := inv.Resolver().SuggestResources(ctx, raw)

	if err != nil {
		return Pass(), err
	}

	return Fail(command.CheckNilTargetServer, KindNilTargetServer, Params{Mention: inv.Mention(), Value: raw, Suggestions: suggestions}), nil
}

func (p *Pipeline) nilTargetCommunity(ctx context.Context, inv *invocation.Context) (Result, error) {
	raw, ok := inv.Supplied(command.ArgCommunity)

	if !ok {
		return Pass(), nil
	}

	target, err := inv.TargetDeployment(ctx)

	if err != nil || target != nil {
		return Pass(), err
	}

	suggestions, err := inv.Resolver().SuggestDeployments(ctx, raw)

	if err != nil {
		return Pass(), err
	}

	return Fail(command.CheckNilTargetCommunity, KindNilTargetCommunity, Params{Mention: inv.Mention(), Value: raw, Suggestions: suggestions}), nil
}

func (p *Pipeline) nilTargetUser(ctx context.Context, inv *invocation.Context) (Result, error) {
	raw, ok := inv.Supplied(command.ArgUser)

	if !ok {
		return Pass(), nil
	}

	target, err := inv.TargetActor(ctx)

	if err != nil || target != nil {
		return Pass(), err
	}

	return Fail(command.CheckNilTargetUser, KindNilTargetUser, Params{Mention: inv.Mention(), Value: raw}), nil
}

func (p *Pipeline) connectedServer(ctx context.Context, inv *invocation.Context) (Result, error) {
	if p.Connectivity == nil {
		return Pass(), nil
	}

	resource, err := inv.TargetResource(ctx)

	if err != nil || resource == nil {
		return Pass(), err
	}

	connected, err := p.Connectivity.IsConnected(ctx, resource.ID)

	if err != nil {
		return Pass(), err
	}

	if connected {
		return Pass(), nil
	}

	return Fail(command.CheckConnectedServer, KindServerNotConnected, Params{Mention: inv.Mention(), Value: resource.PublicID}), nil
}

func (p *Pipeline) cooldown(ctx context.Context, inv *invocation.Context) (Result, error) {
	if p.Config.TestMode || p.Cooldowns == nil {
		return Pass(), nil
	}

	current, err := p.Cooldowns.Current(ctx, inv)

	if err != nil {
		return Pass(), err
	}

	inv.CurrentCooldown = current

	if !p.Cooldowns.IsActive(current, inv.StartedAt) {
		return Pass(), nil
	}

	params := Params{Mention: inv.Mention(), Command: inv.Command.Name()}

	if current.Type == types.CooldownTypeCount {
		params.Uses = current.Quantity
	} else {
		params.Remaining = current.Remaining(inv.StartedAt)
	}

	return Fail(command.CheckCooldown, KindCooldownActive, params), nil
}

func (p *Pipeline) differentCommunity(ctx context.Context, inv *invocation.Context) (Result, error) {
	if !inv.IsText() {
		return Pass(), nil
	}

	current, err := inv.Deployment(ctx)

	if err != nil {
		return Pass(), err
	}

	if current == nil || current.PlayerModeEnabled {
		return Pass(), nil
	}

	if p.Config.OperatorDeploymentID != "" && current.ID == p.Config.OperatorDeploymentID {
		return Pass(), nil
	}

	target, err := inv.TargetDeployment(ctx)

	if err != nil {
		return Pass(), err
	}

	if target == nil || target.Same(current) {
		return Pass(), nil
	}

	return Fail(command.CheckDifferentCommunity, KindDifferentCommunity, Params{Mention: inv.Mention(), Community: target.PublicID}), nil
}

// PendingRequest fails when the requestee already has a pending request for the command with the
// same arguments. It is not part of the fixed pipeline: the request workflow runs it before
// creating a request.
func PendingRequest(ctx context.Context, store PendingRequests, inv *invocation.Context, requestee *types.Actor, fingerprint string) (Result, error) {
	existing, err := store.FindPendingRequest(ctx, requestee.ID, inv.Command.Name(), fingerprint)

	if err != nil {
		return Pass(), err
	}

	if existing == nil {
		return Pass(), nil
	}

	return Fail(command.CheckPendingRequest, KindPendingRequest, Params{Mention: requestee.Mention(), Command: inv.Command.Name()}), nil
}
