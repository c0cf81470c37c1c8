package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/anti-raid/cmdgate/types"
)

const requestColumns = `id, requestor_id, requestee_id, command_name, arguments_fingerprint, arguments,
	created_from_channel_id, created_from_guild_id, accept_ref, decline_ref, accepted, resolved_at, created_at`

func (s *Store) request(ctx context.Context, where string, args ...any) (*types.Request, error) {
	rows, err := s.db.Query(ctx, "SELECT "+requestColumns+" FROM requests WHERE "+where+" LIMIT 1", args...)
	return one[types.Request](rows, err)
}

// CreateRequest inserts r, failing with types.ErrDuplicate when an identical request is pending
func (s *Store) CreateRequest(ctx context.Context, r *types.Request) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}

	if r.Arguments == nil {
		r.Arguments = map[string]any{}
	}

	_, err := s.db.Exec(
		ctx,
		"INSERT INTO requests ("+requestColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)",
		r.ID, r.RequestorID, r.RequesteeID, r.CommandName, r.ArgumentsFingerprint, r.Arguments,
		r.CreatedFromChannelID, r.CreatedFromGuildID, r.AcceptRef, r.DeclineRef, r.Accepted, r.ResolvedAt, r.CreatedAt,
	)

	if err != nil {
		if isDuplicate(err) {
			return types.ErrDuplicate
		}
		return err
	}

	return nil
}

func (s *Store) FindPendingRequest(ctx context.Context, requesteeID, commandName, fingerprint string) (*types.Request, error) {
	return s.request(ctx, "requestee_id = $1 AND command_name = $2 AND arguments_fingerprint = $3 AND accepted IS NULL", requesteeID, commandName, fingerprint)
}

func (s *Store) FindRequestByRef(ctx context.Context, ref string) (*types.Request, error) {
	req, err := s.request(ctx, "accept_ref = $1 OR decline_ref = $1", ref)

	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, types.ErrNotFound
	}

	return req, nil
}

func (s *Store) RequestByID(ctx context.Context, id string) (*types.Request, error) {
	req, err := s.request(ctx, "id = $1", id)

	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, types.ErrNotFound
	}

	return req, nil
}

// ResolveRequest only updates pending rows, so of two concurrent resolutions exactly one wins
func (s *Store) ResolveRequest(ctx context.Context, id string, accepted bool, at time.Time) error {
	tag, err := s.db.Exec(ctx, "UPDATE requests SET accepted = $2, resolved_at = $3 WHERE id = $1 AND accepted IS NULL", id, accepted, at)

	if err != nil {
		return err
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRow(ctx, "SELECT TRUE FROM requests WHERE id = $1", id).Scan(&exists)

	if errors.Is(err, pgx.ErrNoRows) {
		return types.ErrNotFound
	}

	if err != nil {
		return err
	}

	return types.ErrAlreadyResolved
}
