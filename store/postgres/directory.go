package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/types"
)

const (
	actorColumns      = "id, discord_id, external_id"
	deploymentColumns = "id, public_id, guild_id, name, player_mode_enabled"
	resourceColumns   = "id, public_id, deployment_id, name"
	suggestionLimit   = 3
)

func (s *Store) actor(ctx context.Context, where string, arg any) (*types.Actor, error) {
	rows, err := s.db.Query(ctx, "SELECT "+actorColumns+" FROM actors WHERE "+where, arg)
	return one[types.Actor](rows, err)
}

func (s *Store) deployment(ctx context.Context, where string, arg any) (*types.Deployment, error) {
	rows, err := s.db.Query(ctx, "SELECT "+deploymentColumns+" FROM deployments WHERE "+where+" LIMIT 1", arg)
	return one[types.Deployment](rows, err)
}

// ResolveActor inserts an unregistered actor on first sight of discordID
func (s *Store) ResolveActor(ctx context.Context, discordID string) (*types.Actor, error) {
	rows, err := s.db.Query(
		ctx,
		`INSERT INTO actors (id, discord_id) VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE SET discord_id = EXCLUDED.discord_id
		RETURNING `+actorColumns,
		uuid.NewString(), discordID,
	)

	a, err := one[types.Actor](rows, err)

	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}

	return a, nil
}

func (s *Store) ActorByID(ctx context.Context, id string) (*types.Actor, error) {
	return s.actor(ctx, "id = $1", id)
}

func (s *Store) ResolveTargetActor(ctx context.Context, raw string) (*types.Actor, error) {
	return s.actor(ctx, "discord_id = $1", invocation.MentionID(raw))
}

// LinkExternalID registers an actor under a stable external identity
func (s *Store) LinkExternalID(ctx context.Context, discordID, externalID string) error {
	_, err := s.db.Exec(
		ctx,
		`INSERT INTO actors (id, discord_id, external_id) VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO UPDATE SET external_id = EXCLUDED.external_id`,
		uuid.NewString(), discordID, externalID,
	)

	return err
}

func (s *Store) ResolveDeployment(ctx context.Context, guildID string) (*types.Deployment, error) {
	return s.deployment(ctx, "guild_id = $1", guildID)
}

func (s *Store) DeploymentByID(ctx context.Context, id string) (*types.Deployment, error) {
	return s.deployment(ctx, "id = $1", id)
}

func (s *Store) ResolveTargetDeployment(ctx context.Context, publicID string) (*types.Deployment, error) {
	return s.deployment(ctx, "LOWER(public_id) = LOWER($1)", strings.TrimSpace(publicID))
}

func (s *Store) ResolveTargetResource(ctx context.Context, publicID string) (*types.Resource, error) {
	rows, err := s.db.Query(ctx, "SELECT "+resourceColumns+" FROM resources WHERE LOWER(public_id) = LOWER($1) LIMIT 1", strings.TrimSpace(publicID))
	return one[types.Resource](rows, err)
}

func (s *Store) publicIDs(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.Query(ctx, "SELECT public_id FROM "+table)

	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *Store) SuggestDeployments(ctx context.Context, raw string) ([]string, error) {
	ids, err := s.publicIDs(ctx, "deployments")

	if err != nil {
		return nil, err
	}

	return invocation.Suggest(raw, ids, suggestionLimit), nil
}

func (s *Store) SuggestResources(ctx context.Context, raw string) ([]string, error) {
	ids, err := s.publicIDs(ctx, "resources")

	if err != nil {
		return nil, err
	}

	return invocation.Suggest(raw, ids, suggestionLimit), nil
}

func (s *Store) UpsertDeployment(ctx context.Context, d *types.Deployment) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		ctx,
		`INSERT INTO deployments (id, public_id, guild_id, name, player_mode_enabled) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET public_id = $2, guild_id = $3, name = $4, player_mode_enabled = $5`,
		d.ID, d.PublicID, d.GuildID, d.Name, d.PlayerModeEnabled,
	)

	return err
}

func (s *Store) UpsertResource(ctx context.Context, r *types.Resource) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		ctx,
		`INSERT INTO resources (id, public_id, deployment_id, name) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET public_id = $2, deployment_id = $3, name = $4`,
		r.ID, r.PublicID, r.DeploymentID, r.Name,
	)

	return err
}

func (s *Store) SetConnected(ctx context.Context, resourceID string, connected bool) error {
	_, err := s.db.Exec(ctx, "UPDATE resources SET connected = $2 WHERE id = $1", resourceID, connected)
	return err
}

func (s *Store) IsConnected(ctx context.Context, resourceID string) (bool, error) {
	var connected bool
	err := s.db.QueryRow(ctx, "SELECT connected FROM resources WHERE id = $1", resourceID).Scan(&connected)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}

	return connected, err
}
