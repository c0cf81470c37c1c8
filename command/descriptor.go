// Package command holds the static, declared-once metadata of every command.
package command

import (
	"golang.org/x/exp/slices"

	"github.com/anti-raid/cmdgate/types"
)

type Kind string

const (
	KindPlayer Kind = "player"
	KindAdmin  Kind = "admin"
)

type ChannelRestriction string

const (
	ChannelAny      ChannelRestriction = ""
	ChannelDMOnly   ChannelRestriction = "dm_only"
	ChannelTextOnly ChannelRestriction = "text_only"
)

// CheckName names a gate of the check pipeline
type CheckName string

const (
	CheckDevOnly              CheckName = "dev_only"
	CheckRegistrationRequired CheckName = "registration_required"
	CheckTextOnly             CheckName = "text_only"
	CheckDMOnly               CheckName = "dm_only"
	CheckPlayerMode           CheckName = "player_mode"
	CheckPermissions          CheckName = "permissions"
	CheckNilTargetServer      CheckName = "nil_target_server"
	CheckNilTargetCommunity   CheckName = "nil_target_community"
	CheckNilTargetUser        CheckName = "nil_target_user"
	CheckConnectedServer      CheckName = "connected_server"
	CheckCooldown             CheckName = "cooldown"
	CheckDifferentCommunity   CheckName = "different_community"
	CheckPendingRequest       CheckName = "pending_request"
)

// Define is the default of one configurable attribute and whether a deployment may override it
type Define[T any] struct {
	Modifiable bool `json:"modifiable"`
	Default    T    `json:"default"`
}

// Defines are the configurable attributes every command declares
type Defines struct {
	Enabled               Define[bool]                   `json:"enabled"`
	WhitelistEnabled      Define[bool]                   `json:"whitelist_enabled"`
	WhitelistedRoleIDs    Define[[]string]               `json:"whitelisted_role_ids"`
	AllowedInTextChannels Define[bool]                   `json:"allowed_in_text_channels"`
	CooldownDuration      Define[types.CooldownDuration] `json:"cooldown_time"`
}

// Descriptor is immutable once built: all access goes through methods returning copies
type Descriptor struct {
	name                 string
	description          string
	kind                 Kind
	channelRestriction   ChannelRestriction
	requiresRegistration bool
	devOnly              bool
	skippedChecks        map[CheckName]struct{}
	defines              Defines
	arguments            []ArgumentSpec
}

func (d *Descriptor) Name() string                           { return d.name }
func (d *Descriptor) Description() string                    { return d.description }
func (d *Descriptor) Kind() Kind                             { return d.kind }
func (d *Descriptor) ChannelRestriction() ChannelRestriction { return d.channelRestriction }
func (d *Descriptor) RequiresRegistration() bool             { return d.requiresRegistration }
func (d *Descriptor) DevOnly() bool                          { return d.devOnly }

// Skips reports whether the command opted out of the given gate
func (d *Descriptor) Skips(check CheckName) bool {
	_, ok := d.skippedChecks[check]
	return ok
}

// SkippedChecks returns the skipped gates in no particular order
func (d *Descriptor) SkippedChecks() []CheckName {
	out := make([]CheckName, 0, len(d.skippedChecks))
	for c := range d.skippedChecks {
		out = append(out, c)
	}
	return out
}

func (d *Descriptor) Defines() Defines {
	defines := d.defines
	defines.WhitelistedRoleIDs.Default = append([]string(nil), d.defines.WhitelistedRoleIDs.Default...)
	return defines
}

func (d *Descriptor) Arguments() []ArgumentSpec {
	return append([]ArgumentSpec(nil), d.arguments...)
}

// Argument returns the argument spec with the given name
func (d *Descriptor) Argument(name string) (ArgumentSpec, bool) {
	for _, a := range d.arguments {
		if a.Name == name {
			return a, true
		}
	}
	return ArgumentSpec{}, false
}

// TargetArgument returns the argument referencing the given kind of target, if the command has one
func (d *Descriptor) TargetArgument(t ArgType) (ArgumentSpec, bool) {
	for _, a := range d.arguments {
		if a.Type == t {
			return a, true
		}
	}
	return ArgumentSpec{}, false
}

// Info is the serializable view of a Descriptor
type Info struct {
	Name                 string             `json:"name" description:"The name of the command"`
	Description          string             `json:"description" description:"The description of the command"`
	Kind                 Kind               `json:"kind" description:"player or admin"`
	ChannelRestriction   ChannelRestriction `json:"channel_restriction,omitempty" description:"dm_only, text_only or empty"`
	RequiresRegistration bool               `json:"requires_registration" description:"Whether the invoker must have a linked account"`
	DevOnly              bool               `json:"dev_only" description:"Whether only developers may use the command"`
	SkippedChecks        []CheckName        `json:"skipped_checks" description:"Gates the command opted out of, sorted"`
	Defines              Defines            `json:"defines" description:"Defaults of the configurable attributes"`
	Arguments            []ArgumentSpec     `json:"arguments" description:"Declared arguments in order"`
}

func (d *Descriptor) Info() Info {
	skipped := d.SkippedChecks()
	slices.Sort(skipped)

	return Info{
		Name:                 d.name,
		Description:          d.description,
		Kind:                 d.kind,
		ChannelRestriction:   d.channelRestriction,
		RequiresRegistration: d.requiresRegistration,
		DevOnly:              d.devOnly,
		SkippedChecks:        skipped,
		Defines:              d.Defines(),
		Arguments:            d.Arguments(),
	}
}
