// Package invocation holds the per-invocation state every component works against.
//
// A Context lives for exactly one invocation. Identities are resolved lazily and memoized, so the
// gates can ask for them in any order without repeating lookups. A Context is not safe for
// concurrent use.
package invocation

import (
	"context"
	"strings"
	"time"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/types"
)

type ChannelKind string

const (
	ChannelText   ChannelKind = "text"
	ChannelDirect ChannelKind = "direct"
)

// Params describe an invocation as it arrived
type Params struct {
	Command        *command.Descriptor
	ActorDiscordID string
	ChannelID      string
	GuildID        string // empty for direct messages
	Locale         string
	Arguments      map[string]string
	StartedAt      time.Time
}

type memo[T any] struct {
	done bool
	v    T
}

func (m *memo[T]) get(f func() (T, error)) (T, error) {
	if m.done {
		return m.v, nil
	}

	v, err := f()

	if err != nil {
		return v, err
	}

	m.v, m.done = v, true
	return v, nil
}

func (m *memo[T]) seed(v T) {
	m.v, m.done = v, true
}

type Context struct {
	Command        *command.Descriptor
	ActorDiscordID string
	ChannelID      string
	GuildID        string
	Locale         string
	StartedAt      time.Time

	// Arguments are the raw values as typed by the user, Values the validated ones
	Arguments map[string]string
	Values    map[string]any

	// Set by the permissions gate
	ScopeConfiguration *types.ScopeConfiguration
	Decision           *types.PermissionDecision

	// Set by the cooldown gate
	CurrentCooldown *types.Cooldown

	resolver  Resolver
	transport Transport

	actor            memo[*types.Actor]
	deployment       memo[*types.Deployment]
	targetDeployment memo[*types.Deployment]
	targetResource   memo[*types.Resource]
	targetActor      memo[*types.Actor]
	capabilities     map[string]types.MemberCapabilities
}

func New(p Params, resolver Resolver, transport Transport) *Context {
	if p.Arguments == nil {
		p.Arguments = map[string]string{}
	}

	if p.StartedAt.IsZero() {
		p.StartedAt = time.Now()
	}

	return &Context{
		Command:        p.Command,
		ActorDiscordID: p.ActorDiscordID,
		ChannelID:      p.ChannelID,
		GuildID:        p.GuildID,
		Locale:         p.Locale,
		StartedAt:      p.StartedAt,
		Arguments:      p.Arguments,
		Values:         map[string]any{},
		resolver:       resolver,
		transport:      transport,
		capabilities:   map[string]types.MemberCapabilities{},
	}
}

func (c *Context) Transport() Transport {
	return c.transport
}

func (c *Context) Resolver() Resolver {
	return c.resolver
}

func (c *Context) ChannelKind() ChannelKind {
	if c.GuildID == "" {
		return ChannelDirect
	}
	return ChannelText
}

func (c *Context) IsDirect() bool {
	return c.ChannelKind() == ChannelDirect
}

func (c *Context) IsText() bool {
	return c.ChannelKind() == ChannelText
}

// Mention is the Discord mention of the invoking user
func (c *Context) Mention() string {
	return "<@" + c.ActorDiscordID + ">"
}

// SeedActor short-circuits actor resolution, used when re-entering from a stored request
func (c *Context) SeedActor(a *types.Actor) {
	c.actor.seed(a)
	if a != nil {
		c.ActorDiscordID = a.DiscordID
	}
}

func (c *Context) Actor(ctx context.Context) (*types.Actor, error) {
	return c.actor.get(func() (*types.Actor, error) {
		return c.resolver.ResolveActor(ctx, c.ActorDiscordID)
	})
}

// Deployment is the deployment bound to the guild the invocation arrived in, nil in DMs
func (c *Context) Deployment(ctx context.Context) (*types.Deployment, error) {
	return c.deployment.get(func() (*types.Deployment, error) {
		if c.GuildID == "" {
			return nil, nil
		}
		return c.resolver.ResolveDeployment(ctx, c.GuildID)
	})
}

// Supplied returns the raw value of the command's argument of the given target type, if the
// user supplied one
func (c *Context) Supplied(t command.ArgType) (string, bool) {
	if c.Command == nil {
		return "", false
	}

	spec, ok := c.Command.TargetArgument(t)

	if !ok {
		return "", false
	}

	raw := strings.TrimSpace(c.Arguments[spec.Name])
	return raw, raw != ""
}

// TargetResource is the server referenced by the command's server argument
func (c *Context) TargetResource(ctx context.Context) (*types.Resource, error) {
	return c.targetResource.get(func() (*types.Resource, error) {
		raw, ok := c.Supplied(command.ArgServer)
		if !ok {
			return nil, nil
		}
		return c.resolver.ResolveTargetResource(ctx, raw)
	})
}

// TargetDeployment is the deployment referenced by the community argument, falling back to the
// deployment owning the target server
func (c *Context) TargetDeployment(ctx context.Context) (*types.Deployment, error) {
	return c.targetDeployment.get(func() (*types.Deployment, error) {
		if raw, ok := c.Supplied(command.ArgCommunity); ok {
			return c.resolver.ResolveTargetDeployment(ctx, raw)
		}

		resource, err := c.TargetResource(ctx)

		if err != nil {
			return nil, err
		}

		if resource == nil {
			return nil, nil
		}

		return c.resolver.DeploymentByID(ctx, resource.DeploymentID)
	})
}

func (c *Context) TargetActor(ctx context.Context) (*types.Actor, error) {
	return c.targetActor.get(func() (*types.Actor, error) {
		raw, ok := c.Supplied(command.ArgUser)
		if !ok {
			return nil, nil
		}
		return c.resolver.ResolveTargetActor(ctx, raw)
	})
}

// ScopeDeployment is the target deployment if one resolves, else the current one
func (c *Context) ScopeDeployment(ctx context.Context) (*types.Deployment, error) {
	target, err := c.TargetDeployment(ctx)

	if err != nil {
		return nil, err
	}

	if target != nil {
		return target, nil
	}

	return c.Deployment(ctx)
}

// Capabilities returns what the invoking user holds in the deployment's guild
func (c *Context) Capabilities(ctx context.Context, d *types.Deployment) (types.MemberCapabilities, error) {
	if d == nil {
		return types.MemberCapabilities{}, nil
	}

	if caps, ok := c.capabilities[d.GuildID]; ok {
		return caps, nil
	}

	caps, err := c.transport.MemberCapabilities(ctx, d.GuildID, c.ActorDiscordID)

	if err != nil {
		return types.MemberCapabilities{}, err
	}

	c.capabilities[d.GuildID] = caps
	return caps, nil
}
