package commands

import (
	"context"
	"fmt"

	"github.com/anti-raid/cmdgate/checks"
	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/lifecycle"
	"github.com/anti-raid/cmdgate/types"
)

var AddDescriptor = command.New("add").
	Description("Invite a player to one of your territories").
	RequiresRegistration().
	TextOnly().
	Argument(command.ArgumentSpec{
		Name:        "territory_id",
		Description: "The territory to invite the player to",
		Type:        command.ArgString,
		Required:    true,
		Rules:       "alphanum,max=32",
	}).
	Argument(command.ArgumentSpec{
		Name:        "target",
		Description: "The player to invite",
		Type:        command.ArgUser,
		Required:    true,
	}).
	Cooldown(command.Define[types.CooldownDuration]{Modifiable: true, Default: types.Seconds(300)}).
	MustBuild()

// Add asks the target to join a territory and adds them once they accept
type Add struct {
	Territories TerritoryService
}

func (a *Add) Execute(ctx context.Context, call *lifecycle.Call) (any, error) {
	target, err := call.Invocation.TargetActor(ctx)

	if err != nil {
		return nil, err
	}

	req, err := call.AddRequest(ctx, target)

	if err != nil {
		return nil, err
	}

	return lifecycle.RequestSent{Request: req, Requestee: target}, nil
}

func (a *Add) OnRequestAccepted(ctx context.Context, call *lifecycle.Call) (any, error) {
	deployment, err := call.Invocation.Deployment(ctx)

	if err != nil {
		return nil, err
	}

	if deployment == nil {
		// The guild the request was created in is no longer bound to a deployment
		return nil, checks.Fail("", checks.KindNilTargetCommunity, checks.Params{}).Failure()
	}

	requestor, err := call.Actor(ctx)

	if err != nil {
		return nil, err
	}

	member, err := call.Invocation.TargetActor(ctx)

	if err != nil {
		return nil, err
	}

	if member == nil {
		return nil, checks.Fail("", checks.KindNilTargetUser, checks.Params{Value: call.Invocation.Arguments["target"]}).Failure()
	}

	territory := call.String("territory_id")

	err = a.Territories.AddTerritoryMember(ctx, deployment.ID, territory, member, requestor)

	if err != nil {
		return nil, fmt.Errorf("failed to add territory member: %w", err)
	}

	return fmt.Sprintf("%s joined territory `%s` of %s", member.Mention(), territory, requestor.Mention()), nil
}

func (a *Add) OnRequestDeclined(ctx context.Context, call *lifecycle.Call) (any, error) {
	return fmt.Sprintf("%s declined to join territory `%s`", call.Invocation.Arguments["target"], call.String("territory_id")), nil
}
