package lifecycle

import (
	"context"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/anti-raid/cmdgate/command"
)

// Body is the business logic of a command
type Body interface {
	Execute(ctx context.Context, call *Call) (any, error)
}

// RequestHandler is implemented by bodies that create confirmation requests. The hooks run in
// the later invocation that resolves the request.
type RequestHandler interface {
	OnRequestAccepted(ctx context.Context, call *Call) (any, error)
	OnRequestDeclined(ctx context.Context, call *Call) (any, error)
}

// BodyFunc adapts a plain function to Body
type BodyFunc func(ctx context.Context, call *Call) (any, error)

func (f BodyFunc) Execute(ctx context.Context, call *Call) (any, error) {
	return f(ctx, call)
}

type Command struct {
	Descriptor *command.Descriptor
	Body       Body
}

// Registry holds every command in registration order
type Registry struct {
	commands *orderedmap.OrderedMap[string, Command]
}

func NewRegistry() *Registry {
	return &Registry{commands: orderedmap.New[string, Command]()}
}

func (r *Registry) Register(desc *command.Descriptor, body Body) error {
	if desc == nil || body == nil {
		return fmt.Errorf("command must have a descriptor and a body")
	}

	if _, ok := r.commands.Get(desc.Name()); ok {
		return fmt.Errorf("command %s registered twice", desc.Name())
	}

	r.commands.Set(desc.Name(), Command{Descriptor: desc, Body: body})
	return nil
}

// MustRegister is Register for static registration at startup
func (r *Registry) MustRegister(desc *command.Descriptor, body Body) {
	if err := r.Register(desc, body); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Command, bool) {
	return r.commands.Get(name)
}

// All returns the commands in registration order
func (r *Registry) All() []Command {
	out := make([]Command, 0, r.commands.Len())
	for pair := r.commands.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
