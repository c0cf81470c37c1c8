package cooldown_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/cooldown"
	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/invocation/invocationtest"
	"github.com/anti-raid/cmdgate/store/memory"
	"github.com/anti-raid/cmdgate/types"
)

var (
	start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	restart = command.New("restart").
		Argument(command.ArgumentSpec{Name: "server_id", Type: command.ArgServer}).
		Argument(command.ArgumentSpec{Name: "community_id", Type: command.ArgCommunity}).
		MustBuild()

	add = command.New("add").RequiresRegistration().MustBuild()
)

type fixture struct {
	store   *memory.Store
	actor   *types.Actor
	current *types.Deployment
	other   *types.Deployment
	server  *types.Resource
}

func newFixture() *fixture {
	f := &fixture{store: memory.New()}
	f.actor = f.store.AddActor(types.Actor{DiscordID: "42", ExternalID: "steam:1"})
	f.current = f.store.AddDeployment(types.Deployment{PublicID: "esm", GuildID: "g1"})
	f.other = f.store.AddDeployment(types.Deployment{PublicID: "abc", GuildID: "g2"})
	f.server = f.store.AddResource(types.Resource{PublicID: "abc_malden", DeploymentID: f.other.ID})
	return f
}

func (f *fixture) invoke(desc *command.Descriptor, guildID string, args map[string]string) *invocation.Context {
	return invocation.New(invocation.Params{
		Command:        desc,
		ActorDiscordID: "42",
		GuildID:        guildID,
		Arguments:      args,
		StartedAt:      start,
	}, f.store, invocationtest.NewTransport())
}

func TestKeyPrecedence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	key, err := cooldown.Key(ctx, f.invoke(restart, "g1", nil))
	require.NoError(t, err)
	assert.Equal(t, types.CooldownKey{CommandName: "restart", UserID: f.actor.ID, DeploymentID: f.current.ID}, key)

	key, err = cooldown.Key(ctx, f.invoke(restart, "g1", map[string]string{"community_id": "abc"}))
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, key.DeploymentID, "target deployment wins over the current one")
	assert.Empty(t, key.ResourceID)

	key, err = cooldown.Key(ctx, f.invoke(restart, "g1", map[string]string{"server_id": "abc_malden"}))
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, key.DeploymentID)
	assert.Equal(t, f.server.ID, key.ResourceID)

	key, err = cooldown.Key(ctx, f.invoke(restart, "", nil))
	require.NoError(t, err)
	assert.Empty(t, key.DeploymentID)
}

func TestKeyUsesExternalIDForRegisteredCommands(t *testing.T) {
	f := newFixture()

	key, err := cooldown.Key(context.Background(), f.invoke(add, "g1", nil))
	require.NoError(t, err)
	assert.Equal(t, "steam:1", key.ExternalID)
	assert.Empty(t, key.UserID)
}

func TestDurationCooldown(t *testing.T) {
	f := newFixture()
	tracker := cooldown.NewTracker(f.store)
	ctx := context.Background()
	inv := f.invoke(restart, "g1", nil)

	c, err := tracker.Current(ctx, inv)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.False(t, tracker.IsActive(c, start))

	c, err = tracker.Commit(ctx, inv, types.Seconds(30), start)
	require.NoError(t, err)
	assert.Equal(t, start, c.LastUsedAt)
	assert.Equal(t, start.Add(30*time.Second), c.ExpiresAt)
	assert.Same(t, c, inv.CurrentCooldown)

	c, err = tracker.Current(ctx, f.invoke(restart, "g1", nil))
	require.NoError(t, err)
	assert.True(t, tracker.IsActive(c, start.Add(29*time.Second)))
	assert.False(t, tracker.IsActive(c, start.Add(30*time.Second)))

	// Different scope is unaffected
	c, err = tracker.Current(ctx, f.invoke(restart, "g1", map[string]string{"community_id": "abc"}))
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCountCooldownIsMonotonicUntilReset(t *testing.T) {
	f := newFixture()
	tracker := cooldown.NewTracker(f.store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := tracker.Commit(ctx, f.invoke(restart, "g1", nil), types.Times(2), start)
		require.NoError(t, err)
	}

	c, err := tracker.Current(ctx, f.invoke(restart, "g1", nil))
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.Count)
	assert.True(t, tracker.IsActive(c, start.Add(365*24*time.Hour)))

	require.NoError(t, tracker.Reset(ctx, f.invoke(restart, "g1", nil)))

	c, err = tracker.Current(ctx, f.invoke(restart, "g1", nil))
	require.NoError(t, err)
	require.NotNil(t, c, "reset keeps the row")
	assert.False(t, tracker.IsActive(c, start))
}

func TestResetAfterDurationCommit(t *testing.T) {
	f := newFixture()
	tracker := cooldown.NewTracker(f.store)
	ctx := context.Background()

	_, err := tracker.Commit(ctx, f.invoke(restart, "g1", nil), types.Seconds(300), start)
	require.NoError(t, err)

	inv := f.invoke(restart, "g1", nil)
	require.NoError(t, tracker.Reset(ctx, inv))
	assert.Nil(t, inv.CurrentCooldown)

	c, err := tracker.Current(ctx, inv)
	require.NoError(t, err)
	assert.False(t, tracker.IsActive(c, start))
}
