package commands

import (
	"context"
	"fmt"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/lifecycle"
	"github.com/anti-raid/cmdgate/types"
)

var RestartDescriptor = command.New("restart").
	Description("Restart a game server").
	Kind(command.KindAdmin).
	Argument(command.ArgumentSpec{
		Name:        "server",
		Description: "The server to restart",
		Type:        command.ArgServer,
		Required:    true,
	}).
	Argument(command.ArgumentSpec{
		Name:        "reason",
		Description: "Shown to the players before the restart",
		Type:        command.ArgString,
		Rules:       "max=200",
	}).
	Cooldown(command.Define[types.CooldownDuration]{Modifiable: true, Default: types.Seconds(60)}).
	MustBuild()

type Restart struct {
	Servers ServerGateway
}

func (r *Restart) Execute(ctx context.Context, call *lifecycle.Call) (any, error) {
	server, err := call.Invocation.TargetResource(ctx)

	if err != nil {
		return nil, err
	}

	actor, err := call.Actor(ctx)

	if err != nil {
		return nil, err
	}

	ack, err := r.Servers.Restart(ctx, server, actor, call.String("reason"))

	if err != nil {
		return nil, fmt.Errorf("failed to restart %s: %w", server.PublicID, err)
	}

	if ack == "" {
		return fmt.Sprintf("Restarting `%s`", server.PublicID), nil
	}

	return fmt.Sprintf("Restarting `%s`: %s", server.PublicID, ack), nil
}
