package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anti-raid/cmdgate/types"
)

var cooldownKeyColumns = []clause.Column{{Name: "command_name"}, {Name: "user_id"}, {Name: "external_id"}, {Name: "deployment_id"}, {Name: "resource_id"}}

func whereKey(tx *gorm.DB, key types.CooldownKey) *gorm.DB {
	return tx.Where(
		"command_name = ? AND user_id = ? AND external_id = ? AND deployment_id = ? AND resource_id = ?",
		key.CommandName, key.UserID, key.ExternalID, key.DeploymentID, key.ResourceID,
	)
}

func (s *Store) FindCooldown(ctx context.Context, key types.CooldownKey) (*types.Cooldown, error) {
	row, err := first[cooldownRow](whereKey(s.db.WithContext(ctx), key))

	if err != nil || row == nil {
		return nil, err
	}

	return row.toCooldown(), nil
}

// CommitCooldown upserts the row of key in one statement
func (s *Store) CommitCooldown(ctx context.Context, key types.CooldownKey, setting types.CooldownDuration, startedAt time.Time) (*types.Cooldown, error) {
	row := cooldownRow{
		ID:               uuid.NewString(),
		CommandName:      key.CommandName,
		UserID:           key.UserID,
		ExternalID:       key.ExternalID,
		DeploymentID:     key.DeploymentID,
		ResourceID:       key.ResourceID,
		CooldownType:     string(setting.Type),
		CooldownQuantity: setting.Quantity,
		Uses:             1,
		LastUsedAt:       startedAt,
	}

	updates := map[string]any{
		"cooldown_type":     row.CooldownType,
		"cooldown_quantity": row.CooldownQuantity,
		"uses":              gorm.Expr("uses + 1"),
		"last_used_at":      startedAt,
	}

	if setting.Type == types.CooldownTypeDuration {
		row.ExpiresAt = startedAt.Add(setting.Length())
		updates["expires_at"] = row.ExpiresAt
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: cooldownKeyColumns, DoUpdates: clause.Assignments(updates)}).
		Create(&row).Error

	if err != nil {
		return nil, err
	}

	return s.FindCooldown(ctx, key)
}

func (s *Store) ResetCooldown(ctx context.Context, key types.CooldownKey) error {
	return whereKey(s.db.WithContext(ctx).Model(&cooldownRow{}), key).
		Updates(map[string]any{"expires_at": time.Unix(0, 0).UTC(), "uses": 0}).Error
}
