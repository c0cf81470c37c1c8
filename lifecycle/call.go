package lifecycle

import (
	"context"
	"fmt"

	"github.com/anti-raid/cmdgate/arguments"
	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/types"
)

// Call is the state of one command instance as seen by its body
type Call struct {
	Invocation *invocation.Context

	// Request is the resolved request when the call re-enters through a request hook
	Request *types.Request

	executor     *Executor
	skipCooldown bool
	created      []*types.Request
}

func (c *Call) Descriptor() *command.Descriptor {
	return c.Invocation.Command
}

// Value returns the validated value of an argument, nil if it was not supplied
func (c *Call) Value(name string) any {
	return c.Invocation.Values[name]
}

func (c *Call) String(name string) string {
	s, _ := c.Invocation.Values[name].(string)
	return s
}

func (c *Call) Actor(ctx context.Context) (*types.Actor, error) {
	return c.Invocation.Actor(ctx)
}

// SkipCooldown keeps this execution from consuming the actor's cooldown
func (c *Call) SkipCooldown() {
	c.skipCooldown = true
}

// AddRequest asks requestee to confirm this call. The request stores the call's validated
// arguments; an identical pending request fails with pending_request.
func (c *Call) AddRequest(ctx context.Context, requestee *types.Actor) (*types.Request, error) {
	if c.executor.Requests == nil {
		return nil, fmt.Errorf("command %s cannot create requests without a request workflow", c.Descriptor().Name())
	}

	req, err := c.executor.Requests.Create(ctx, c.Invocation, requestee, arguments.Storable(c.Invocation.Values))

	if err != nil {
		return nil, err
	}

	c.created = append(c.created, req)
	return req, nil
}

// RequestSent is the result of a body that asked someone to confirm it
type RequestSent struct {
	Request   *types.Request
	Requestee *types.Actor
}

// Requests returns the requests created during this call
func (c *Call) Requests() []*types.Request {
	return c.created
}
