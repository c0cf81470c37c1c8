package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anti-raid/cmdgate/types"
)

// CreateRequest inserts r. The partial unique index on pending requests maps a concurrent
// duplicate to types.ErrDuplicate.
func (s *Store) CreateRequest(ctx context.Context, r *types.Request) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}

	row, err := toRequestRow(r)

	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicate(err) {
			return types.ErrDuplicate
		}
		return err
	}

	return nil
}

func (s *Store) findRequest(tx *gorm.DB) (*types.Request, error) {
	row, err := first[requestRow](tx)

	if err != nil || row == nil {
		return nil, err
	}

	return row.toRequest()
}

func (s *Store) FindPendingRequest(ctx context.Context, requesteeID, commandName, fingerprint string) (*types.Request, error) {
	return s.findRequest(s.db.WithContext(ctx).Where(
		"requestee_id = ? AND command_name = ? AND arguments_fingerprint = ? AND accepted IS NULL",
		requesteeID, commandName, fingerprint,
	))
}

func (s *Store) FindRequestByRef(ctx context.Context, ref string) (*types.Request, error) {
	req, err := s.findRequest(s.db.WithContext(ctx).Where("accept_ref = ? OR decline_ref = ?", ref, ref))

	if err != nil {
		return nil, err
	}

	if req == nil {
		return nil, types.ErrNotFound
	}

	return req, nil
}

func (s *Store) RequestByID(ctx context.Context, id string) (*types.Request, error) {
	req, err := s.findRequest(s.db.WithContext(ctx).Where("id = ?", id))

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
	res := s.db.WithContext(ctx).
		Model(&requestRow{}).
		Where("id = ? AND accepted IS NULL", id).
		Updates(map[string]any{"accepted": accepted, "resolved_at": at})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&requestRow{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return types.ErrNotFound
	}

	return types.ErrAlreadyResolved
}

