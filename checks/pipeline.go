package checks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/cooldown"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/permissions"
	"github.com/anti-raid/cmdgate/types"
)

// Connectivity reports whether a game server currently has a live connection
type Connectivity interface {
	IsConnected(ctx context.Context, resourceID string) (bool, error)
}

// PendingRequests finds the pending request of a requestee for a command and argument
// fingerprint, (nil, nil) if there is none
type PendingRequests interface {
	FindPendingRequest(ctx context.Context, requesteeID, commandName, fingerprint string) (*types.Request, error)
}

type Config struct {
	// Discord IDs allowed to run developer commands
	DevUserIDs []string
	// Deployment allowed to target other deployments from its text channels
	OperatorDeploymentID string
	// Disables the cooldown gate
	TestMode bool
}

// Gate is one named step of the pipeline
type Gate struct {
	Name command.CheckName
	// Skippable gates are not run for commands that skip them
	Skippable bool
	Run       func(ctx context.Context, inv *invocation.Context) (Result, error)
}

// Pipeline runs the gates in a fixed order and stops at the first failure
type Pipeline struct {
	Config       Config
	Scopes       permissions.ScopeStore
	Permissions  permissions.Resolver
	Cooldowns    *cooldown.Tracker
	Connectivity Connectivity
	Logger       *zap.Logger
}

// PriorityGates run before argument validation so a malformed argument never masks a
// permission failure
func (p *Pipeline) PriorityGates() []Gate {
	return []Gate{
		{Name: command.CheckDevOnly, Run: p.devOnly},
		{Name: command.CheckRegistrationRequired, Run: p.registrationRequired},
		{Name: command.CheckTextOnly, Run: p.textOnly},
		{Name: command.CheckDMOnly, Run: p.dmOnly},
		{Name: command.CheckPlayerMode, Run: p.playerMode},
		{Name: command.CheckPermissions, Run: p.permissions},
	}
}

// ResourceGates run after argument validation
func (p *Pipeline) ResourceGates() []Gate {
	return []Gate{
		{Name: command.CheckNilTargetServer, Skippable: true, Run: p.nilTargetServer},
		{Name: command.CheckNilTargetCommunity, Skippable: true, Run: p.nilTargetCommunity},
		{Name: command.CheckNilTargetUser, Skippable: true, Run: p.nilTargetUser},
		{Name: command.CheckConnectedServer, Skippable: true, Run: p.connectedServer},
		{Name: command.CheckCooldown, Skippable: true, Run: p.cooldown},
		{Name: command.CheckDifferentCommunity, Skippable: true, Run: p.differentCommunity},
	}
}

// ResumeGates are re-run when a stored request is resolved: the targets it references must still
// exist and be reachable. Registration, permissions and cooldown were settled when the request
// was created.
func (p *Pipeline) ResumeGates() []Gate {
	return []Gate{
		{Name: command.CheckNilTargetServer, Skippable: true, Run: p.nilTargetServer},
		{Name: command.CheckNilTargetCommunity, Skippable: true, Run: p.nilTargetCommunity},
		{Name: command.CheckNilTargetUser, Skippable: true, Run: p.nilTargetUser},
		{Name: command.CheckConnectedServer, Skippable: true, Run: p.connectedServer},
	}
}

// Run evaluates gates in order. It returns the first failure, or an error if a gate could not be
// evaluated at all.
func (p *Pipeline) Run(ctx context.Context, inv *invocation.Context, gates []Gate) (*Failure, error) {
	for _, g := range gates {
		if g.Skippable && inv.Command.Skips(g.Name) {
			continue
		}

		res, err := g.Run(ctx, inv)

		if err != nil {
			return nil, fmt.Errorf("check %s: %w", g.Name, err)
		}

		if !res.IsOk() {
			f := res.Failure()

			if p.Logger != nil {
				p.Logger.Debug("Check failed", zap.String("command", inv.Command.Name()), zap.String("check", string(g.Name)), zap.String("kind", string(f.Kind)))
			}

			return f, nil
		}
	}

	return nil, nil
}

// RunPriority runs gates 1 through 5
func (p *Pipeline) RunPriority(ctx context.Context, inv *invocation.Context) (*Failure, error) {
	return p.Run(ctx, inv, p.PriorityGates())
}

// RunResource runs gates 6 through 9
func (p *Pipeline) RunResource(ctx context.Context, inv *invocation.Context) (*Failure, error) {
	return p.Run(ctx, inv, p.ResourceGates())
}
