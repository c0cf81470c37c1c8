package command

import (
	"errors"
	"fmt"

	"github.com/anti-raid/cmdgate/types"
)

// DefaultCooldown is applied when a command declares no cooldown of its own
var DefaultCooldown = types.Seconds(2)

// Builder assembles a Descriptor. A Builder is single use: Build hands its state to the
// descriptor.
type Builder struct {
	d                *Descriptor
	whitelistDefined bool
	errs             []error
}

// New starts a descriptor for a player command with the default defines
func New(name string) *Builder {
	return &Builder{
		d: &Descriptor{
			name:          name,
			kind:          KindPlayer,
			skippedChecks: map[CheckName]struct{}{},
			defines: Defines{
				Enabled:               Define[bool]{Modifiable: true, Default: true},
				WhitelistEnabled:      Define[bool]{Modifiable: true},
				WhitelistedRoleIDs:    Define[[]string]{Modifiable: true, Default: []string{}},
				AllowedInTextChannels: Define[bool]{Modifiable: true, Default: true},
				CooldownDuration:      Define[types.CooldownDuration]{Modifiable: true, Default: DefaultCooldown},
			},
		},
	}
}

func (b *Builder) Description(s string) *Builder {
	b.d.description = s
	return b
}

func (b *Builder) Kind(k Kind) *Builder {
	b.d.kind = k
	return b
}

func (b *Builder) RequiresRegistration() *Builder {
	b.d.requiresRegistration = true
	return b
}

func (b *Builder) DevOnly() *Builder {
	b.d.devOnly = true
	return b
}

func (b *Builder) DMOnly() *Builder {
	b.d.channelRestriction = ChannelDMOnly
	return b
}

func (b *Builder) TextOnly() *Builder {
	b.d.channelRestriction = ChannelTextOnly
	return b
}

// Skip opts the command out of the given gates. Only the resource gates honour it.
func (b *Builder) Skip(checks ...CheckName) *Builder {
	for _, c := range checks {
		b.d.skippedChecks[c] = struct{}{}
	}
	return b
}

func (b *Builder) Enabled(def Define[bool]) *Builder {
	b.d.defines.Enabled = def
	return b
}

func (b *Builder) WhitelistEnabled(def Define[bool]) *Builder {
	b.d.defines.WhitelistEnabled = def
	b.whitelistDefined = true
	return b
}

func (b *Builder) WhitelistedRoleIDs(def Define[[]string]) *Builder {
	def.Default = append([]string{}, def.Default...)
	b.d.defines.WhitelistedRoleIDs = def
	return b
}

func (b *Builder) AllowedInTextChannels(def Define[bool]) *Builder {
	b.d.defines.AllowedInTextChannels = def
	return b
}

func (b *Builder) Cooldown(def Define[types.CooldownDuration]) *Builder {
	b.d.defines.CooldownDuration = def
	return b
}

func (b *Builder) Argument(spec ArgumentSpec) *Builder {
	if spec.Name == "" {
		b.errs = append(b.errs, errors.New("argument name cannot be empty"))
		return b
	}

	for _, a := range b.d.arguments {
		if a.Name == spec.Name {
			b.errs = append(b.errs, fmt.Errorf("argument %s declared twice", spec.Name))
			return b
		}

		if spec.Type.IsTarget() && a.Type == spec.Type {
			b.errs = append(b.errs, fmt.Errorf("argument %s: only one %s target argument is allowed", spec.Name, spec.Type))
			return b
		}
	}

	b.d.arguments = append(b.d.arguments, spec)
	return b
}

// Build validates and returns the descriptor
func (b *Builder) Build() (*Descriptor, error) {
	if b.d == nil {
		return nil, errors.New("builder already used")
	}

	if b.d.name == "" {
		b.errs = append(b.errs, errors.New("command name cannot be empty"))
	}

	if b.d.kind != KindPlayer && b.d.kind != KindAdmin {
		b.errs = append(b.errs, fmt.Errorf("invalid command kind %q", b.d.kind))
	}

	cd := b.d.defines.CooldownDuration.Default
	if cd.Type != types.CooldownTypeDuration && cd.Type != types.CooldownTypeCount {
		b.errs = append(b.errs, fmt.Errorf("invalid cooldown type %q", cd.Type))
	}

	if len(b.errs) > 0 {
		return nil, fmt.Errorf("command %s: %w", b.d.name, errors.Join(b.errs...))
	}

	// Admin commands are whitelisted by default
	if !b.whitelistDefined {
		b.d.defines.WhitelistEnabled.Default = b.d.kind == KindAdmin
	}

	d := b.d
	b.d = nil
	return d, nil
}

// MustBuild is Build for static registration at startup
func (b *Builder) MustBuild() *Descriptor {
	d, err := b.Build()

	if err != nil {
		panic(err)
	}

	return d
}
