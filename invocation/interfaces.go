package invocation

import (
	"context"

	"github.com/anti-raid/cmdgate/types"
)

// Resolver looks up the entities an invocation references. Lookups of unknown entities return
// (nil, nil); an error always means the lookup itself failed.
type Resolver interface {
	// ResolveActor finds the user behind a Discord ID, creating an unregistered user on first sight
	ResolveActor(ctx context.Context, discordID string) (*types.Actor, error)
	ActorByID(ctx context.Context, id string) (*types.Actor, error)
	// ResolveDeployment finds the deployment bound to a guild
	ResolveDeployment(ctx context.Context, guildID string) (*types.Deployment, error)
	DeploymentByID(ctx context.Context, id string) (*types.Deployment, error)
	// ResolveTargetActor accepts a mention or a raw Discord ID. Unlike ResolveActor it never creates users.
	ResolveTargetActor(ctx context.Context, raw string) (*types.Actor, error)
	ResolveTargetDeployment(ctx context.Context, publicID string) (*types.Deployment, error)
	ResolveTargetResource(ctx context.Context, publicID string) (*types.Resource, error)
	// SuggestDeployments and SuggestResources return the closest known public IDs, for "did you mean"
	SuggestDeployments(ctx context.Context, raw string) ([]string, error)
	SuggestResources(ctx context.Context, raw string) ([]string, error)
}

// Transport is the chat platform the invocation arrived on
type Transport interface {
	// MemberCapabilities returns what the user holds inside a guild
	MemberCapabilities(ctx context.Context, guildID, discordUserID string) (types.MemberCapabilities, error)
	// DeliverPrompt asks the requestee to accept or decline a request
	DeliverPrompt(ctx context.Context, requestor, requestee *types.Actor, req *types.Request) error
}
