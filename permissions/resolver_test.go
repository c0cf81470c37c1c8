package permissions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/invocation/invocationtest"
	"github.com/anti-raid/cmdgate/permissions"
	"github.com/anti-raid/cmdgate/store/memory"
	"github.com/anti-raid/cmdgate/types"
)

type fixture struct {
	store     *memory.Store
	transport *invocationtest.Transport
	current   *types.Deployment
	other     *types.Deployment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{store: memory.New(), transport: invocationtest.NewTransport()}
	f.current = f.store.AddDeployment(types.Deployment{PublicID: "esm", GuildID: "g1"})
	f.other = f.store.AddDeployment(types.Deployment{PublicID: "abc", GuildID: "g2"})
	return f
}

func (f *fixture) invoke(desc *command.Descriptor, guildID string, args map[string]string) *invocation.Context {
	return invocation.New(invocation.Params{
		Command:        desc,
		ActorDiscordID: "42",
		GuildID:        guildID,
		Arguments:      args,
	}, f.store, f.transport)
}

func resolve(t *testing.T, f *fixture, desc *command.Descriptor, inv *invocation.Context) types.PermissionDecision {
	t.Helper()

	cfg, err := permissions.Lookup(context.Background(), f.store, inv)
	require.NoError(t, err)

	d, err := permissions.Resolver{}.Resolve(context.Background(), desc, cfg, inv)
	require.NoError(t, err)
	return d
}

func TestDefaultsWithoutConfiguration(t *testing.T) {
	f := newFixture(t)
	desc := command.New("me").MustBuild()

	d := resolve(t, f, desc, f.invoke(desc, "g1", nil))

	assert.True(t, d.Enabled)
	assert.True(t, d.AllowedInChannel)
	assert.True(t, d.Whitelisted, "player commands are not whitelisted by default")
	assert.True(t, d.NotifyWhenDisabled)
	assert.Equal(t, command.DefaultCooldown, d.CooldownDuration)
}

func TestAdministratorBypassesWhitelist(t *testing.T) {
	f := newFixture(t)
	desc := command.New("restart").Kind(command.KindAdmin).WhitelistedRoleIDs(command.Define[[]string]{Modifiable: true, Default: []string{"staff"}}).MustBuild()

	for _, roles := range [][]string{nil, {"staff"}, {"unrelated"}} {
		f.transport.SetCapabilities("g1", "42", types.MemberCapabilities{IsAdministrator: true, RoleIDs: roles})
		d := resolve(t, f, desc, f.invoke(desc, "g1", nil))
		assert.True(t, d.Whitelisted, "roles %v", roles)
	}
}

func TestWhitelistRoles(t *testing.T) {
	f := newFixture(t)
	desc := command.New("restart").Kind(command.KindAdmin).WhitelistedRoleIDs(command.Define[[]string]{Modifiable: true, Default: []string{"staff"}}).MustBuild()

	f.transport.SetCapabilities("g1", "42", types.MemberCapabilities{RoleIDs: []string{"member"}})
	assert.False(t, resolve(t, f, desc, f.invoke(desc, "g1", nil)).Whitelisted)

	f.transport.SetCapabilities("g1", "42", types.MemberCapabilities{RoleIDs: []string{"member", "staff"}})
	assert.True(t, resolve(t, f, desc, f.invoke(desc, "g1", nil)).Whitelisted)

	// Overridden role list replaces the default one
	require.NoError(t, f.store.UpsertScopeConfiguration(context.Background(), &types.ScopeConfiguration{
		DeploymentID:       f.current.ID,
		CommandName:        "restart",
		Enabled:            true,
		WhitelistEnabled:   true,
		WhitelistedRoleIDs: []string{"moderator"},
	}))
	assert.False(t, resolve(t, f, desc, f.invoke(desc, "g1", nil)).Whitelisted)
}

func TestWhitelistWithoutDeployment(t *testing.T) {
	f := newFixture(t)
	desc := command.New("restart").Kind(command.KindAdmin).MustBuild()

	d := resolve(t, f, desc, f.invoke(desc, "", nil))
	assert.False(t, d.Whitelisted)
	assert.True(t, d.AllowedInChannel)
}

func TestNonModifiableOverrideIgnored(t *testing.T) {
	f := newFixture(t)
	desc := command.New("me").
		Enabled(command.Define[bool]{Default: true}).
		Cooldown(command.Define[types.CooldownDuration]{Modifiable: true, Default: types.Seconds(10)}).
		MustBuild()

	require.NoError(t, f.store.UpsertScopeConfiguration(context.Background(), &types.ScopeConfiguration{
		DeploymentID:          f.current.ID,
		CommandName:           "me",
		Enabled:               false,
		NotifyWhenDisabled:    false,
		AllowedInTextChannels: true,
		CooldownDuration:      types.Seconds(60),
	}))

	d := resolve(t, f, desc, f.invoke(desc, "g1", nil))
	assert.True(t, d.Enabled)
	assert.Equal(t, types.Seconds(60), d.CooldownDuration)
	assert.False(t, d.NotifyWhenDisabled)
}

func TestChannelAllowance(t *testing.T) {
	f := newFixture(t)
	desc := command.New("me").AllowedInTextChannels(command.Define[bool]{Modifiable: true}).MustBuild()

	assert.False(t, resolve(t, f, desc, f.invoke(desc, "g1", nil)).AllowedInChannel)
	assert.True(t, resolve(t, f, desc, f.invoke(desc, "", nil)).AllowedInChannel, "direct messages are always allowed")

	f.store.AddDeployment(types.Deployment{ID: f.current.ID, PublicID: "esm", GuildID: "g1", PlayerModeEnabled: true})
	assert.True(t, resolve(t, f, desc, f.invoke(desc, "g1", nil)).AllowedInChannel, "player mode allows text channels")
}

func TestTargetDeploymentConfigurationWins(t *testing.T) {
	f := newFixture(t)
	desc := command.New("info").
		Argument(command.ArgumentSpec{Name: "community_id", Type: command.ArgCommunity}).
		Enabled(command.Define[bool]{Modifiable: true, Default: true}).
		MustBuild()

	require.NoError(t, f.store.UpsertScopeConfiguration(context.Background(), &types.ScopeConfiguration{
		DeploymentID: f.other.ID,
		CommandName:  "info",
		Enabled:      false,
	}))

	assert.True(t, resolve(t, f, desc, f.invoke(desc, "g1", nil)).Enabled)
	assert.False(t, resolve(t, f, desc, f.invoke(desc, "g1", map[string]string{"community_id": "abc"})).Enabled)
}

func TestDefaultsResolveLikeNoConfiguration(t *testing.T) {
	f := newFixture(t)
	desc := command.New("me").Cooldown(command.Define[types.CooldownDuration]{Modifiable: true, Default: types.Seconds(30)}).MustBuild()
	inv := f.invoke(desc, "g1", nil)

	without := resolve(t, f, desc, inv)

	require.NoError(t, f.store.UpsertScopeConfiguration(context.Background(), permissions.Defaults(desc, f.current.ID)))

	with := resolve(t, f, desc, f.invoke(desc, "g1", nil))
	assert.Equal(t, without, with)
}

func TestUnmodifiable(t *testing.T) {
	desc := command.New("locked").
		Enabled(command.Define[bool]{Modifiable: false, Default: true}).
		Cooldown(command.Define[types.CooldownDuration]{Modifiable: false, Default: types.Seconds(10)}).
		MustBuild()

	yes := true
	cooldown := types.Seconds(1)
	roles := []string{"1"}

	assert.Equal(t, []string{"enabled", "cooldown"}, permissions.Unmodifiable(desc, &types.PatchScopeConfiguration{
		Enabled:            &yes,
		WhitelistedRoleIDs: &roles,
		CooldownDuration:   &cooldown,
	}))

	assert.Empty(t, permissions.Unmodifiable(desc, &types.PatchScopeConfiguration{NotifyWhenDisabled: &yes}))
}
