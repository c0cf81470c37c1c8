// Package permissions merges a deployment's scope configuration over a command's declared
// defaults.
package permissions

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/types"
)

// ScopeStore returns a deployment's override of a command, or (nil, nil) when there is none
type ScopeStore interface {
	ScopeConfiguration(ctx context.Context, commandName, deploymentID string) (*types.ScopeConfiguration, error)
}

// ScopeWriter manages scope configurations
type ScopeWriter interface {
	UpsertScopeConfiguration(ctx context.Context, c *types.ScopeConfiguration) error
	DeleteScopeConfiguration(ctx context.Context, deploymentID, commandName string) error
}

type Resolver struct{}

// Lookup loads the scope configuration that applies to an invocation: the one of the target
// deployment if one resolves, else the one of the current deployment
func Lookup(ctx context.Context, store ScopeStore, inv *invocation.Context) (*types.ScopeConfiguration, error) {
	d, err := inv.ScopeDeployment(ctx)

	if err != nil {
		return nil, err
	}

	if d == nil {
		return nil, nil
	}

	cfg, err := store.ScopeConfiguration(ctx, inv.Command.Name(), d.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to load scope configuration: %w", err)
	}

	return cfg, nil
}

// Resolve computes every field of the decision independently. It has no side effects besides the
// memoized lookups of the invocation context.
func (Resolver) Resolve(ctx context.Context, desc *command.Descriptor, cfg *types.ScopeConfiguration, inv *invocation.Context) (types.PermissionDecision, error) {
	defines := desc.Defines()

	decision := types.PermissionDecision{
		Enabled:            pick(cfg, defines.Enabled, func(c *types.ScopeConfiguration) bool { return c.Enabled }),
		CooldownDuration:   pick(cfg, defines.CooldownDuration, func(c *types.ScopeConfiguration) types.CooldownDuration { return c.CooldownDuration }),
		NotifyWhenDisabled: cfg == nil || cfg.NotifyWhenDisabled,
	}

	deployment, err := inv.ScopeDeployment(ctx)

	if err != nil {
		return decision, err
	}

	decision.AllowedInChannel = allowedInChannel(cfg, defines, inv, deployment)

	decision.Whitelisted, err = whitelisted(ctx, cfg, defines, inv, deployment)

	if err != nil {
		return decision, err
	}

	return decision, nil
}

// pick returns the override when a scope configuration exists and the define may be modified,
// else the declared default
func pick[T any](cfg *types.ScopeConfiguration, def command.Define[T], get func(*types.ScopeConfiguration) T) T {
	if cfg != nil && def.Modifiable {
		return get(cfg)
	}
	return def.Default
}

func allowedInChannel(cfg *types.ScopeConfiguration, defines command.Defines, inv *invocation.Context, d *types.Deployment) bool {
	if inv.IsDirect() {
		return true
	}

	if d != nil && d.PlayerModeEnabled {
		return true
	}

	return pick(cfg, defines.AllowedInTextChannels, func(c *types.ScopeConfiguration) bool { return c.AllowedInTextChannels })
}

func whitelisted(ctx context.Context, cfg *types.ScopeConfiguration, defines command.Defines, inv *invocation.Context, d *types.Deployment) (bool, error) {
	enabled := pick(cfg, defines.WhitelistEnabled, func(c *types.ScopeConfiguration) bool { return c.WhitelistEnabled })

	if !enabled {
		return true, nil
	}

	if d == nil {
		return false, nil
	}

	caps, err := inv.Capabilities(ctx, d)

	if err != nil {
		return false, fmt.Errorf("failed to get member capabilities: %w", err)
	}

	// Administrators always bypass
	if caps.IsAdministrator {
		return true, nil
	}

	roles := pick(cfg, defines.WhitelistedRoleIDs, func(c *types.ScopeConfiguration) []string { return c.WhitelistedRoleIDs })

	for _, r := range caps.RoleIDs {
		if slices.Contains(roles, r) {
			return true, nil
		}
	}

	return false, nil
}

// Defaults is the scope configuration a deployment starts from when it first overrides a command
func Defaults(desc *command.Descriptor, deploymentID string) *types.ScopeConfiguration {
	defines := desc.Defines()

	return &types.ScopeConfiguration{
		DeploymentID:          deploymentID,
		CommandName:           desc.Name(),
		Enabled:               defines.Enabled.Default,
		NotifyWhenDisabled:    true,
		WhitelistEnabled:      defines.WhitelistEnabled.Default,
		WhitelistedRoleIDs:    defines.WhitelistedRoleIDs.Default,
		AllowedInTextChannels: defines.AllowedInTextChannels.Default,
		CooldownDuration:      defines.CooldownDuration.Default,
	}
}

// Unmodifiable returns the JSON names of the attributes the patch sets although the command does
// not allow overriding them
func Unmodifiable(desc *command.Descriptor, p *types.PatchScopeConfiguration) []string {
	defines := desc.Defines()

	var out []string

	if p.Enabled != nil && !defines.Enabled.Modifiable {
		out = append(out, "enabled")
	}

	if p.WhitelistEnabled != nil && !defines.WhitelistEnabled.Modifiable {
		out = append(out, "whitelist_enabled")
	}

	if p.WhitelistedRoleIDs != nil && !defines.WhitelistedRoleIDs.Modifiable {
		out = append(out, "whitelisted_role_ids")
	}

	if p.AllowedInTextChannels != nil && !defines.AllowedInTextChannels.Modifiable {
		out = append(out, "allowed_in_text_channels")
	}

	if p.CooldownDuration != nil && !defines.CooldownDuration.Modifiable {
		out = append(out, "cooldown")
	}

	return out
}
