// Package commands holds the bodies of the commands cmdgate ships with
package commands

import (
	"context"

	"github.com/anti-raid/cmdgate/lifecycle"
	"github.com/anti-raid/cmdgate/types"
)

// TerritoryService manages territory membership on the game servers of a deployment
type TerritoryService interface {
	AddTerritoryMember(ctx context.Context, deploymentID, territoryID string, member, requestor *types.Actor) error
}

// ServerGateway controls a single game server
type ServerGateway interface {
	Restart(ctx context.Context, resource *types.Resource, requestedBy *types.Actor, reason string) (string, error)
}

type Deps struct {
	Territories TerritoryService
	Servers     ServerGateway
}

// Register adds every command to the registry
func Register(reg *lifecycle.Registry, deps Deps) error {
	if err := reg.Register(AddDescriptor, &Add{Territories: deps.Territories}); err != nil {
		return err
	}

	return reg.Register(RestartDescriptor, &Restart{Servers: deps.Servers})
}
