package types

import (
	"strings"
	"time"

	"github.com/anti-raid/cmdgate/utils/timex"
)

type CooldownType string

const (
	CooldownTypeDuration CooldownType = "duration"
	CooldownTypeCount    CooldownType = "count"
)

// CooldownDuration is a cooldown setting: Quantity units of time for duration cooldowns,
// Quantity uses for count cooldowns
type CooldownDuration struct {
	Type     CooldownType   `json:"type" yaml:"type" validate:"oneof=duration count"`
	Quantity int64          `json:"quantity" yaml:"quantity" validate:"gte=0"`
	Unit     timex.Duration `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Seconds returns a duration cooldown of n seconds
func Seconds(n int64) CooldownDuration {
	return CooldownDuration{Type: CooldownTypeDuration, Quantity: n, Unit: timex.Second}
}

// Times returns a count cooldown allowing n uses
func Times(n int64) CooldownDuration {
	return CooldownDuration{Type: CooldownTypeCount, Quantity: n}
}

// Length is the wall-clock length of a duration cooldown, zero for count cooldowns
func (c CooldownDuration) Length() time.Duration {
	if c.Type != CooldownTypeDuration {
		return 0
	}
	return time.Duration(c.Quantity) * c.Unit.Std()
}

// CooldownKey is the scope a cooldown row is stored under. Exactly one of UserID/ExternalID is set.
type CooldownKey struct {
	CommandName  string `db:"command_name" json:"command_name"`
	UserID       string `db:"user_id" json:"user_id,omitempty"`
	ExternalID   string `db:"external_id" json:"external_id,omitempty"`
	DeploymentID string `db:"deployment_id" json:"deployment_id,omitempty"`
	ResourceID   string `db:"resource_id" json:"resource_id,omitempty"`
}

func (k CooldownKey) String() string {
	return strings.Join([]string{k.CommandName, k.UserID, k.ExternalID, k.DeploymentID, k.ResourceID}, ":")
}

// Cooldown is the durable cooldown row of one scope key
type Cooldown struct {
	ID string `db:"id" json:"id"`
	CooldownKey
	Type       CooldownType `db:"cooldown_type" json:"type"`
	Quantity   int64        `db:"cooldown_quantity" json:"quantity"`
	Count      int64        `db:"count" json:"count"`
	LastUsedAt time.Time    `db:"last_used_at" json:"last_used_at"`
	ExpiresAt  time.Time    `db:"expires_at" json:"expires_at"`
}

// Active reports whether the cooldown still blocks execution at now. Count cooldowns never
// expire by time: they stay active once Count reaches Quantity until reset.
func (c *Cooldown) Active(now time.Time) bool {
	if c == nil {
		return false
	}

	switch c.Type {
	case CooldownTypeCount:
		return c.Quantity > 0 && c.Count >= c.Quantity
	default:
		return c.ExpiresAt.After(now)
	}
}

// Remaining is how long a duration cooldown stays active after now
func (c *Cooldown) Remaining(now time.Time) time.Duration {
	if c == nil || c.Type == CooldownTypeCount || !c.ExpiresAt.After(now) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
