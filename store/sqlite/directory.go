package sqlite

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/types"
)

const suggestionLimit = 3

func first[T any](tx *gorm.DB) (*T, error) {
	var row T
	err := tx.First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (s *Store) ResolveActor(ctx context.Context, discordID string) (*types.Actor, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "discord_id"}}, DoNothing: true}).
		Create(&actorRow{ID: uuid.NewString(), DiscordID: discordID, CreatedAt: s.now()}).Error

	if err != nil {
		return nil, err
	}

	row, err := first[actorRow](s.db.WithContext(ctx).Where("discord_id = ?", discordID))

	if err != nil || row == nil {
		return nil, err
	}

	return row.toActor(), nil
}

func (s *Store) ActorByID(ctx context.Context, id string) (*types.Actor, error) {
	row, err := first[actorRow](s.db.WithContext(ctx).Where("id = ?", id))

	if err != nil || row == nil {
		return nil, err
	}

	return row.toActor(), nil
}

func (s *Store) ResolveTargetActor(ctx context.Context, raw string) (*types.Actor, error) {
	row, err := first[actorRow](s.db.WithContext(ctx).Where("discord_id = ?", invocation.MentionID(raw)))

	if err != nil || row == nil {
		return nil, err
	}

	return row.toActor(), nil
}

// LinkExternalID registers an actor under a stable external identity
func (s *Store) LinkExternalID(ctx context.Context, discordID, externalID string) error {
	if _, err := s.ResolveActor(ctx, discordID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&actorRow{}).Where("discord_id = ?", discordID).Update("external_id", externalID).Error
}

func (s *Store) ResolveDeployment(ctx context.Context, guildID string) (*types.Deployment, error) {
	row, err := first[deploymentRow](s.db.WithContext(ctx).Where("guild_id = ?", guildID))

	if err != nil || row == nil {
		return nil, err
	}

	return row.toDeployment(), nil
}

func (s *Store) DeploymentByID(ctx context.Context, id string) (*types.Deployment, error) {
	row, err := first[deploymentRow](s.db.WithContext(ctx).Where("id = ?", id))

	if err != nil || row == nil {
		return nil, err
	}

	return row.toDeployment(), nil
}

func (s *Store) ResolveTargetDeployment(ctx context.Context, publicID string) (*types.Deployment, error) {
	row, err := first[deploymentRow](s.db.WithContext(ctx).Where("LOWER(public_id) = LOWER(?)", strings.TrimSpace(publicID)))

	if err != nil || row == nil {
		return nil, err
	}

	return row.toDeployment(), nil
}

func (s *Store) ResolveTargetResource(ctx context.Context, publicID string) (*types.Resource, error) {
	row, err := first[resourceRow](s.db.WithContext(ctx).Where("LOWER(public_id) = LOWER(?)", strings.TrimSpace(publicID)))

	if err != nil || row == nil {
		return nil, err
	}

	return row.toResource(), nil
}

func (s *Store) SuggestDeployments(ctx context.Context, raw string) ([]string, error) {
	var ids []string

	if err := s.db.WithContext(ctx).Model(&deploymentRow{}).Pluck("public_id", &ids).Error; err != nil {
		return nil, err
	}

	return invocation.Suggest(raw, ids, suggestionLimit), nil
}

func (s *Store) SuggestResources(ctx context.Context, raw string) ([]string, error) {
	var ids []string

	if err := s.db.WithContext(ctx).Model(&resourceRow{}).Pluck("public_id", &ids).Error; err != nil {
		return nil, err
	}

	return invocation.Suggest(raw, ids, suggestionLimit), nil
}

// UpsertDeployment creates or replaces a deployment. An empty ID is generated.
func (s *Store) UpsertDeployment(ctx context.Context, d *types.Deployment) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	row := deploymentRow{ID: d.ID, PublicID: d.PublicID, GuildID: d.GuildID, Name: d.Name, PlayerModeEnabled: d.PlayerModeEnabled}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

// UpsertResource creates or replaces a server. An empty ID is generated.
func (s *Store) UpsertResource(ctx context.Context, r *types.Resource) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	row := resourceRow{ID: r.ID, PublicID: r.PublicID, DeploymentID: r.DeploymentID, Name: r.Name}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoUpdates: clause.AssignmentColumns([]string{"public_id", "deployment_id", "name"})}).
		Create(&row).Error
}

func (s *Store) SetConnected(ctx context.Context, resourceID string, connected bool) error {
	return s.db.WithContext(ctx).Model(&resourceRow{}).Where("id = ?", resourceID).Update("connected", connected).Error
}

func (s *Store) IsConnected(ctx context.Context, resourceID string) (bool, error) {
	row, err := first[resourceRow](s.db.WithContext(ctx).Where("id = ?", resourceID))

	if err != nil || row == nil {
		return false, err
	}

	return row.Connected, nil
}
