package sqlite

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/anti-raid/cmdgate/types"
	"github.com/anti-raid/cmdgate/utils/timex"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type actorRow struct {
	ID         string `gorm:"primaryKey"`
	DiscordID  string `gorm:"uniqueIndex;not null"`
	ExternalID string `gorm:"index"`
	CreatedAt  time.Time
}

func (actorRow) TableName() string { return "actors" }

func (r actorRow) toActor() *types.Actor {
	return &types.Actor{ID: r.ID, DiscordID: r.DiscordID, ExternalID: r.ExternalID}
}

type deploymentRow struct {
	ID                string `gorm:"primaryKey"`
	PublicID          string `gorm:"uniqueIndex;not null"`
	GuildID           string `gorm:"index"`
	Name              string
	PlayerModeEnabled bool
}

func (deploymentRow) TableName() string { return "deployments" }

func (r deploymentRow) toDeployment() *types.Deployment {
	return &types.Deployment{ID: r.ID, PublicID: r.PublicID, GuildID: r.GuildID, Name: r.Name, PlayerModeEnabled: r.PlayerModeEnabled}
}

type resourceRow struct {
	ID           string `gorm:"primaryKey"`
	PublicID     string `gorm:"uniqueIndex;not null"`
	DeploymentID string `gorm:"index;not null"`
	Name         string
	Connected    bool
}

func (resourceRow) TableName() string { return "resources" }

func (r resourceRow) toResource() *types.Resource {
	return &types.Resource{ID: r.ID, PublicID: r.PublicID, DeploymentID: r.DeploymentID, Name: r.Name}
}

// Key columns are never NULL so the unique index covers rows without a deployment or server
type cooldownRow struct {
	ID               string    `gorm:"primaryKey"`
	CommandName      string    `gorm:"uniqueIndex:idx_cooldown_key;not null"`
	UserID           string    `gorm:"uniqueIndex:idx_cooldown_key;not null;default:''"`
	ExternalID       string    `gorm:"uniqueIndex:idx_cooldown_key;not null;default:''"`
	DeploymentID     string    `gorm:"uniqueIndex:idx_cooldown_key;not null;default:''"`
	ResourceID       string    `gorm:"uniqueIndex:idx_cooldown_key;not null;default:''"`
	CooldownType     string    `gorm:"not null"`
	CooldownQuantity int64     `gorm:"not null"`
	Uses             int64     `gorm:"not null;default:0"`
	LastUsedAt       time.Time `gorm:"not null"`
	ExpiresAt        time.Time `gorm:"not null"`
}

func (cooldownRow) TableName() string { return "cooldowns" }

func (r cooldownRow) toCooldown() *types.Cooldown {
	return &types.Cooldown{
		ID: r.ID,
		CooldownKey: types.CooldownKey{
			CommandName:  r.CommandName,
			UserID:       r.UserID,
			ExternalID:   r.ExternalID,
			DeploymentID: r.DeploymentID,
			ResourceID:   r.ResourceID,
		},
		Type:       types.CooldownType(r.CooldownType),
		Quantity:   r.CooldownQuantity,
		Count:      r.Uses,
		LastUsedAt: r.LastUsedAt,
		ExpiresAt:  r.ExpiresAt,
	}
}

type requestRow struct {
	ID                   string `gorm:"primaryKey"`
	RequestorID          string `gorm:"not null"`
	RequesteeID          string `gorm:"not null;uniqueIndex:idx_pending_request,where:accepted IS NULL"`
	CommandName          string `gorm:"not null;uniqueIndex:idx_pending_request,where:accepted IS NULL"`
	ArgumentsFingerprint string `gorm:"not null;uniqueIndex:idx_pending_request,where:accepted IS NULL"`
	Arguments            string `gorm:"not null"`
	CreatedFromChannelID string
	CreatedFromGuildID   string
	AcceptRef            string `gorm:"uniqueIndex;not null"`
	DeclineRef           string `gorm:"uniqueIndex;not null"`
	Accepted             *bool
	ResolvedAt           *time.Time
	CreatedAt            time.Time
}

func (requestRow) TableName() string { return "requests" }

func toRequestRow(r *types.Request) (*requestRow, error) {
	args, err := json.Marshal(r.Arguments)

	if err != nil {
		return nil, err
	}

	return &requestRow{
		ID:                   r.ID,
		RequestorID:          r.RequestorID,
		RequesteeID:          r.RequesteeID,
		CommandName:          r.CommandName,
		ArgumentsFingerprint: r.ArgumentsFingerprint,
		Arguments:            string(args),
		CreatedFromChannelID: r.CreatedFromChannelID,
		CreatedFromGuildID:   r.CreatedFromGuildID,
		AcceptRef:            r.AcceptRef,
		DeclineRef:           r.DeclineRef,
		Accepted:             r.Accepted,
		ResolvedAt:           r.ResolvedAt,
		CreatedAt:            r.CreatedAt,
	}, nil
}

func (r requestRow) toRequest() (*types.Request, error) {
	req := &types.Request{
		ID:                   r.ID,
		RequestorID:          r.RequestorID,
		RequesteeID:          r.RequesteeID,
		CommandName:          r.CommandName,
		ArgumentsFingerprint: r.ArgumentsFingerprint,
		CreatedFromChannelID: r.CreatedFromChannelID,
		CreatedFromGuildID:   r.CreatedFromGuildID,
		AcceptRef:            r.AcceptRef,
		DeclineRef:           r.DeclineRef,
		Accepted:             r.Accepted,
		ResolvedAt:           r.ResolvedAt,
		CreatedAt:            r.CreatedAt,
	}

	if err := json.Unmarshal([]byte(r.Arguments), &req.Arguments); err != nil {
		return nil, err
	}

	return req, nil
}

type scopeRow struct {
	DeploymentID          string `gorm:"primaryKey"`
	CommandName           string `gorm:"primaryKey"`
	Enabled               bool
	NotifyWhenDisabled    bool
	WhitelistEnabled      bool
	WhitelistedRoleIDs    string
	AllowedInTextChannels bool
	CooldownType          string
	CooldownQuantity      int64
	CooldownUnit          int64
}

func (scopeRow) TableName() string { return "scope_configurations" }

func toScopeRow(c *types.ScopeConfiguration) (*scopeRow, error) {
	roles, err := json.Marshal(c.WhitelistedRoleIDs)

	if err != nil {
		return nil, err
	}

	return &scopeRow{
		DeploymentID:          c.DeploymentID,
		CommandName:           c.CommandName,
		Enabled:               c.Enabled,
		NotifyWhenDisabled:    c.NotifyWhenDisabled,
		WhitelistEnabled:      c.WhitelistEnabled,
		WhitelistedRoleIDs:    string(roles),
		AllowedInTextChannels: c.AllowedInTextChannels,
		CooldownType:          string(c.CooldownDuration.Type),
		CooldownQuantity:      c.CooldownDuration.Quantity,
		CooldownUnit:          int64(c.CooldownDuration.Unit),
	}, nil
}

func (r scopeRow) toScope() (*types.ScopeConfiguration, error) {
	c := &types.ScopeConfiguration{
		DeploymentID:          r.DeploymentID,
		CommandName:           r.CommandName,
		Enabled:               r.Enabled,
		NotifyWhenDisabled:    r.NotifyWhenDisabled,
		WhitelistEnabled:      r.WhitelistEnabled,
		AllowedInTextChannels: r.AllowedInTextChannels,
		CooldownDuration: types.CooldownDuration{
			Type:     types.CooldownType(r.CooldownType),
			Quantity: r.CooldownQuantity,
			Unit:     timex.Duration(r.CooldownUnit),
		},
	}

	if err := json.Unmarshal([]byte(r.WhitelistedRoleIDs), &c.WhitelistedRoleIDs); err != nil {
		return nil, err
	}

	return c, nil
}

type usageRow struct {
	CommandName string `gorm:"primaryKey"`
	Uses        int64  `gorm:"not null;default:0"`
}

func (usageRow) TableName() string { return "command_usage" }
