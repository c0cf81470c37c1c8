package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/anti-raid/cmdgate/types"
	"github.com/anti-raid/cmdgate/utils/timex"
)

func (s *Store) ScopeConfiguration(ctx context.Context, commandName, deploymentID string) (*types.ScopeConfiguration, error) {
	var c types.ScopeConfiguration
	var cooldownType string
	var unit int64

	err := s.db.QueryRow(
		ctx,
		`SELECT deployment_id, command_name, enabled, notify_when_disabled, whitelist_enabled, whitelisted_role_ids,
		allowed_in_text_channels, cooldown_type, cooldown_quantity, cooldown_unit
		FROM scope_configurations WHERE deployment_id = $1 AND command_name = $2`,
		deploymentID, commandName,
	).Scan(
		&c.DeploymentID,
		&c.CommandName,
		&c.Enabled,
		&c.NotifyWhenDisabled,
		&c.WhitelistEnabled,
		&c.WhitelistedRoleIDs,
		&c.AllowedInTextChannels,
		&cooldownType,
		&c.CooldownDuration.Quantity,
		&unit,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	c.CooldownDuration.Type = types.CooldownType(cooldownType)
	c.CooldownDuration.Unit = timex.Duration(unit)
	return &c, nil
}

func (s *Store) UpsertScopeConfiguration(ctx context.Context, c *types.ScopeConfiguration) error {
	roles := c.WhitelistedRoleIDs
	if roles == nil {
		roles = []string{}
	}

	_, err := s.db.Exec(
		ctx,
		`INSERT INTO scope_configurations (deployment_id, command_name, enabled, notify_when_disabled, whitelist_enabled,
		whitelisted_role_ids, allowed_in_text_channels, cooldown_type, cooldown_quantity, cooldown_unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (deployment_id, command_name) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			notify_when_disabled = EXCLUDED.notify_when_disabled,
			whitelist_enabled = EXCLUDED.whitelist_enabled,
			whitelisted_role_ids = EXCLUDED.whitelisted_role_ids,
			allowed_in_text_channels = EXCLUDED.allowed_in_text_channels,
			cooldown_type = EXCLUDED.cooldown_type,
			cooldown_quantity = EXCLUDED.cooldown_quantity,
			cooldown_unit = EXCLUDED.cooldown_unit`,
		c.DeploymentID, c.CommandName, c.Enabled, c.NotifyWhenDisabled, c.WhitelistEnabled,
		roles, c.AllowedInTextChannels, string(c.CooldownDuration.Type), c.CooldownDuration.Quantity, int64(c.CooldownDuration.Unit),
	)

	return err
}

func (s *Store) DeleteScopeConfiguration(ctx context.Context, deploymentID, commandName string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM scope_configurations WHERE deployment_id = $1 AND command_name = $2", deploymentID, commandName)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}

	return nil
}

func (s *Store) IncrementUsage(ctx context.Context, commandName string) error {
	_, err := s.db.Exec(
		ctx,
		"INSERT INTO command_usage (command_name, uses) VALUES ($1, 1) ON CONFLICT (command_name) DO UPDATE SET uses = command_usage.uses + 1",
		commandName,
	)

	return err
}

func (s *Store) Usage(ctx context.Context, commandName string) (int64, error) {
	var uses int64
	err := s.db.QueryRow(ctx, "SELECT uses FROM command_usage WHERE command_name = $1", commandName).Scan(&uses)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}

	return uses, err
}
