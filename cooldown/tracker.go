// Package cooldown derives the scope key of an invocation and tracks its durable cooldown row.
package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/types"
)

// Store persists one cooldown row per key. CommitCooldown is an upsert by key and must be atomic
// for concurrent commits of the same key. FindCooldown returns (nil, nil) when no row exists.
type Store interface {
	FindCooldown(ctx context.Context, key types.CooldownKey) (*types.Cooldown, error)
	CommitCooldown(ctx context.Context, key types.CooldownKey, setting types.CooldownDuration, startedAt time.Time) (*types.Cooldown, error)
	ResetCooldown(ctx context.Context, key types.CooldownKey) error
}

type Tracker struct {
	Store Store
}

func NewTracker(s Store) *Tracker {
	return &Tracker{Store: s}
}

// Key derives the scope key of an invocation. The most specific scope wins: the target deployment
// over the current one, then the target server on top.
func Key(ctx context.Context, inv *invocation.Context) (types.CooldownKey, error) {
	key := types.CooldownKey{CommandName: inv.Command.Name()}

	actor, err := inv.Actor(ctx)

	if err != nil {
		return key, fmt.Errorf("failed to resolve actor: %w", err)
	}

	if actor == nil {
		return key, fmt.Errorf("actor %s could not be resolved", inv.ActorDiscordID)
	}

	if inv.Command.RequiresRegistration() {
		key.ExternalID = actor.ExternalID
	} else {
		key.UserID = actor.ID
	}

	target, err := inv.TargetDeployment(ctx)

	if err != nil {
		return key, fmt.Errorf("failed to resolve target deployment: %w", err)
	}

	if target != nil {
		key.DeploymentID = target.ID
	} else {
		current, err := inv.Deployment(ctx)

		if err != nil {
			return key, fmt.Errorf("failed to resolve deployment: %w", err)
		}

		if current != nil {
			key.DeploymentID = current.ID
		}
	}

	resource, err := inv.TargetResource(ctx)

	if err != nil {
		return key, fmt.Errorf("failed to resolve target server: %w", err)
	}

	if resource != nil {
		key.ResourceID = resource.ID
	}

	return key, nil
}

// Current returns the cooldown row of the invocation's scope key, nil if none exists yet
func (t *Tracker) Current(ctx context.Context, inv *invocation.Context) (*types.Cooldown, error) {
	key, err := Key(ctx, inv)

	if err != nil {
		return nil, err
	}

	c, err := t.Store.FindCooldown(ctx, key)

	if err != nil {
		return nil, fmt.Errorf("failed to find cooldown: %w", err)
	}

	return c, nil
}

func (t *Tracker) IsActive(c *types.Cooldown, now time.Time) bool {
	return c.Active(now)
}

// Commit records a successful execution that started at startedAt
func (t *Tracker) Commit(ctx context.Context, inv *invocation.Context, setting types.CooldownDuration, startedAt time.Time) (*types.Cooldown, error) {
	key, err := Key(ctx, inv)

	if err != nil {
		return nil, err
	}

	c, err := t.Store.CommitCooldown(ctx, key, setting, startedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to commit cooldown: %w", err)
	}

	inv.CurrentCooldown = c
	return c, nil
}

// Reset makes the invocation's cooldown inactive without deleting the row
func (t *Tracker) Reset(ctx context.Context, inv *invocation.Context) error {
	key, err := Key(ctx, inv)

	if err != nil {
		return err
	}

	if err := t.Store.ResetCooldown(ctx, key); err != nil {
		return fmt.Errorf("failed to reset cooldown: %w", err)
	}

	inv.CurrentCooldown = nil
	return nil
}
