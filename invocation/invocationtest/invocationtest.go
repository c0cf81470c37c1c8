// Package invocationtest provides collaborators for tests that build invocation contexts.
package invocationtest

import (
	"context"
	"sync"

	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/types"
)

// Prompt is one DeliverPrompt call recorded by Transport
type Prompt struct {
	Requestor *types.Actor
	Requestee *types.Actor
	Request   *types.Request
}

// Transport records prompts and serves member capabilities from a map keyed by guild and user
type Transport struct {
	mu           sync.Mutex
	Capabilities map[string]types.MemberCapabilities
	Prompts      []Prompt
	PromptErr    error
	Lookups      int
}

func NewTransport() *Transport {
	return &Transport{Capabilities: map[string]types.MemberCapabilities{}}
}

// SetCapabilities sets what a user holds in a guild
func (t *Transport) SetCapabilities(guildID, discordUserID string, caps types.MemberCapabilities) {
	t.mu.Lock()
	t.Capabilities[guildID+"/"+discordUserID] = caps
	t.mu.Unlock()
}

func (t *Transport) MemberCapabilities(_ context.Context, guildID, discordUserID string) (types.MemberCapabilities, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Lookups++
	return t.Capabilities[guildID+"/"+discordUserID], nil
}

func (t *Transport) DeliverPrompt(_ context.Context, requestor, requestee *types.Actor, req *types.Request) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.PromptErr != nil {
		return t.PromptErr
	}

	t.Prompts = append(t.Prompts, Prompt{Requestor: requestor, Requestee: requestee, Request: req})
	return nil
}

// LastPrompt returns the most recent prompt, nil if none was delivered
func (t *Transport) LastPrompt() *Prompt {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.Prompts) == 0 {
		return nil
	}

	p := t.Prompts[len(t.Prompts)-1]
	return &p
}

// CountingResolver wraps a resolver and counts calls per method
type CountingResolver struct {
	invocation.Resolver

	mu    sync.Mutex
	Calls map[string]int
}

func NewCountingResolver(r invocation.Resolver) *CountingResolver {
	return &CountingResolver{Resolver: r, Calls: map[string]int{}}
}

func (c *CountingResolver) count(name string) {
	c.mu.Lock()
	c.Calls[name]++
	c.mu.Unlock()
}

func (c *CountingResolver) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Calls[name]
}

func (c *CountingResolver) ResolveActor(ctx context.Context, discordID string) (*types.Actor, error) {
	c.count("ResolveActor")
	return c.Resolver.ResolveActor(ctx, discordID)
}

func (c *CountingResolver) ResolveDeployment(ctx context.Context, guildID string) (*types.Deployment, error) {
	c.count("ResolveDeployment")
	return c.Resolver.ResolveDeployment(ctx, guildID)
}

func (c *CountingResolver) ResolveTargetDeployment(ctx context.Context, publicID string) (*types.Deployment, error) {
	c.count("ResolveTargetDeployment")
	return c.Resolver.ResolveTargetDeployment(ctx, publicID)
}

func (c *CountingResolver) ResolveTargetResource(ctx context.Context, publicID string) (*types.Resource, error) {
	c.count("ResolveTargetResource")
	return c.Resolver.ResolveTargetResource(ctx, publicID)
}

func (c *CountingResolver) ResolveTargetActor(ctx context.Context, raw string) (*types.Actor, error) {
	c.count("ResolveTargetActor")
	return c.Resolver.ResolveTargetActor(ctx, raw)
}
