package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/anti-raid/cmdgate/types"
)

func (s *Store) ScopeConfiguration(ctx context.Context, commandName, deploymentID string) (*types.ScopeConfiguration, error) {
	row, err := first[scopeRow](s.db.WithContext(ctx).Where("deployment_id = ? AND command_name = ?", deploymentID, commandName))

	if err != nil || row == nil {
		return nil, err
	}

	return row.toScope()
}

func (s *Store) UpsertScopeConfiguration(ctx context.Context, c *types.ScopeConfiguration) error {
	row, err := toScopeRow(c)

	if err != nil {
		return fmt.Errorf("failed to encode scope configuration: %w", err)
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
}

func (s *Store) DeleteScopeConfiguration(ctx context.Context, deploymentID, commandName string) error {
	res := s.db.WithContext(ctx).Where("deployment_id = ? AND command_name = ?", deploymentID, commandName).Delete(&scopeRow{})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return types.ErrNotFound
	}

	return nil
}

func (s *Store) IncrementUsage(ctx context.Context, commandName string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "command_name"}},
			DoUpdates: clause.Assignments(map[string]any{"uses": clause.Expr{SQL: "uses + 1"}}),
		}).
		Create(&usageRow{CommandName: commandName, Uses: 1}).Error
}

// Usage returns how many successful executions of the command were recorded
func (s *Store) Usage(ctx context.Context, commandName string) (int64, error) {
	row, err := first[usageRow](s.db.WithContext(ctx).Where("command_name = ?", commandName))

	if err != nil || row == nil {
		return 0, err
	}

	return row.Uses, nil
}
