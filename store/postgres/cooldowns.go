package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anti-raid/cmdgate/types"
)

const cooldownColumns = "id, command_name, user_id, external_id, deployment_id, resource_id, cooldown_type, cooldown_quantity, uses AS count, last_used_at, expires_at"

const keyMatch = "command_name = $1 AND user_id = $2 AND external_id = $3 AND deployment_id = $4 AND resource_id = $5"

func keyArgs(key types.CooldownKey) []any {
	return []any{key.CommandName, key.UserID, key.ExternalID, key.DeploymentID, key.ResourceID}
}

func (s *Store) FindCooldown(ctx context.Context, key types.CooldownKey) (*types.Cooldown, error) {
	rows, err := s.db.Query(ctx, "SELECT "+cooldownColumns+" FROM cooldowns WHERE "+keyMatch, keyArgs(key)...)
	return one[types.Cooldown](rows, err)
}

// CommitCooldown upserts the row of key in one statement. Count cooldowns keep their expiry.
func (s *Store) CommitCooldown(ctx context.Context, key types.CooldownKey, setting types.CooldownDuration, startedAt time.Time) (*types.Cooldown, error) {
	expiresAt := time.Unix(0, 0).UTC()
	if setting.Type == types.CooldownTypeDuration {
		expiresAt = startedAt.Add(setting.Length())
	}

	args := append(keyArgs(key), uuid.NewString(), string(setting.Type), setting.Quantity, startedAt, expiresAt)

	rows, err := s.db.Query(
		ctx,
		`INSERT INTO cooldowns (command_name, user_id, external_id, deployment_id, resource_id, id, cooldown_type, cooldown_quantity, uses, last_used_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10)
		ON CONFLICT (command_name, user_id, external_id, deployment_id, resource_id) DO UPDATE SET
			cooldown_type = EXCLUDED.cooldown_type,
			cooldown_quantity = EXCLUDED.cooldown_quantity,
			uses = cooldowns.uses + 1,
			last_used_at = EXCLUDED.last_used_at,
			expires_at = CASE WHEN EXCLUDED.cooldown_type = 'duration' THEN EXCLUDED.expires_at ELSE cooldowns.expires_at END
		RETURNING `+cooldownColumns,
		args...,
	)

	return one[types.Cooldown](rows, err)
}

func (s *Store) ResetCooldown(ctx context.Context, key types.CooldownKey) error {
	_, err := s.db.Exec(ctx, "UPDATE cooldowns SET expires_at = 'epoch', uses = 0 WHERE "+keyMatch, keyArgs(key)...)
	return err
}
