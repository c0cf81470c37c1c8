package sqlite

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anti-raid/cmdgate/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return New(db)
}

func TestCooldownCommitAndReset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := types.CooldownKey{CommandName: "me", UserID: "u1"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c, err := s.FindCooldown(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = s.CommitCooldown(ctx, key, types.Seconds(30), start)
	require.NoError(t, err)
	assert.True(t, start.Add(30*time.Second).Equal(c.ExpiresAt))
	assert.Equal(t, int64(1), c.Count)

	c2, err := s.CommitCooldown(ctx, key, types.Seconds(30), start.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, c.ID, c2.ID)
	assert.Equal(t, int64(2), c2.Count)
	assert.True(t, start.Add(90*time.Second).Equal(c2.ExpiresAt))

	require.NoError(t, s.ResetCooldown(ctx, key))
	c, err = s.FindCooldown(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.False(t, c.Active(start))
	assert.Equal(t, int64(0), c.Count)
}

func TestCooldownKeysAreIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	_, err := s.CommitCooldown(ctx, types.CooldownKey{CommandName: "me", UserID: "u1"}, types.Times(3), now)
	require.NoError(t, err)
	_, err = s.CommitCooldown(ctx, types.CooldownKey{CommandName: "me", UserID: "u1", DeploymentID: "d1"}, types.Times(3), now)
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.db.Model(&cooldownRow{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCooldownConcurrentCommitsKeepOneRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := types.CooldownKey{CommandName: "me", ExternalID: "7656"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CommitCooldown(ctx, key, types.Times(100), time.Now())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := s.FindCooldown(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(20), c.Count)
}

func TestRequestUniquenessAndResolve(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := &types.Request{
		RequestorID: "a", RequesteeID: "b", CommandName: "add", ArgumentsFingerprint: "f1",
		Arguments: map[string]any{"amount": int64(5)}, AcceptRef: "acc", DeclineRef: "dec",
	}
	require.NoError(t, s.CreateRequest(ctx, r))
	assert.NotEmpty(t, r.ID)

	dup := &types.Request{RequestorID: "a", RequesteeID: "b", CommandName: "add", ArgumentsFingerprint: "f1", AcceptRef: "acc2", DeclineRef: "dec2"}
	assert.ErrorIs(t, s.CreateRequest(ctx, dup), types.ErrDuplicate)

	found, err := s.FindRequestByRef(ctx, "dec")
	require.NoError(t, err)
	assert.Equal(t, r.ID, found.ID)
	assert.True(t, found.Pending())
	assert.EqualValues(t, 5, found.Arguments["amount"])

	_, err = s.FindRequestByRef(ctx, "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, s.ResolveRequest(ctx, r.ID, false, time.Now()))
	assert.ErrorIs(t, s.ResolveRequest(ctx, r.ID, true, time.Now()), types.ErrAlreadyResolved)
	assert.ErrorIs(t, s.ResolveRequest(ctx, "missing", true, time.Now()), types.ErrNotFound)

	resolved, err := s.RequestByID(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, resolved.Accepted)
	assert.False(t, *resolved.Accepted)
	assert.NotNil(t, resolved.ResolvedAt)

	pending, err := s.FindPendingRequest(ctx, "b", "add", "f1")
	require.NoError(t, err)
	assert.Nil(t, pending)

	// A resolved request no longer blocks an identical one
	require.NoError(t, s.CreateRequest(ctx, dup))
}

func TestConcurrentRequestCreationOnlyOneWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.CreateRequest(ctx, &types.Request{
				RequesteeID: "b", CommandName: "add", ArgumentsFingerprint: "f",
				AcceptRef: fmt.Sprintf("a%d", i), DeclineRef: fmt.Sprintf("d%d", i),
			})
			if err == nil {
				atomic.AddInt32(&wins, 1)
			} else {
				assert.ErrorIs(t, err, types.ErrDuplicate)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestConcurrentResolveOnlyOneWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := &types.Request{RequesteeID: "b", CommandName: "add", ArgumentsFingerprint: "f", AcceptRef: "a", DeclineRef: "d"}
	require.NoError(t, s.CreateRequest(ctx, r))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(accept bool) {
			defer wg.Done()
			if err := s.ResolveRequest(ctx, r.ID, accept, time.Now()); err == nil {
				atomic.AddInt32(&wins, 1)
			} else {
				assert.ErrorIs(t, err, types.ErrAlreadyResolved)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestDirectory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := &types.Deployment{PublicID: "esm", GuildID: "g1", Name: "Exile"}
	require.NoError(t, s.UpsertDeployment(ctx, d))
	res := &types.Resource{PublicID: "esm_malden", DeploymentID: d.ID}
	require.NoError(t, s.UpsertResource(ctx, res))
	require.NoError(t, s.LinkExternalID(ctx, "42", "7656"))

	got, err := s.ResolveDeployment(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	got, err = s.ResolveTargetDeployment(ctx, "ESM")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	found, err := s.ResolveTargetResource(ctx, "esm_malden")
	require.NoError(t, err)
	assert.Equal(t, d.ID, found.DeploymentID)

	found, err = s.ResolveTargetResource(ctx, "esm_maldn")
	require.NoError(t, err)
	assert.Nil(t, found)

	suggestions, err := s.SuggestResources(ctx, "esm_maldn")
	require.NoError(t, err)
	assert.Equal(t, []string{"esm_malden"}, suggestions)

	a, err := s.ResolveTargetActor(ctx, "<@!42>")
	require.NoError(t, err)
	assert.True(t, a.Registered())

	a, err = s.ResolveTargetActor(ctx, "<@99>")
	require.NoError(t, err)
	assert.Nil(t, a)

	a1, err := s.ResolveActor(ctx, "99")
	require.NoError(t, err)
	a2, err := s.ResolveActor(ctx, "99")
	require.NoError(t, err)
	assert.Equal(t, a1.ID, a2.ID)
	assert.False(t, a1.Registered())

	connected, err := s.IsConnected(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, connected)

	require.NoError(t, s.SetConnected(ctx, res.ID, true))
	connected, err = s.IsConnected(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, connected)

	// Re-registering a server keeps its connection state
	res.Name = "Malden"
	require.NoError(t, s.UpsertResource(ctx, res))
	connected, err = s.IsConnected(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestScopeConfigurations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.ScopeConfiguration(ctx, "add", "d1")
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg := &types.ScopeConfiguration{
		DeploymentID: "d1", CommandName: "add", Enabled: true, WhitelistEnabled: true,
		WhitelistedRoleIDs: []string{"r1", "r2"}, CooldownDuration: types.Times(3),
	}
	require.NoError(t, s.UpsertScopeConfiguration(ctx, cfg))

	c, err = s.ScopeConfiguration(ctx, "add", "d1")
	require.NoError(t, err)
	assert.Equal(t, cfg.WhitelistedRoleIDs, c.WhitelistedRoleIDs)
	assert.Equal(t, types.Times(3), c.CooldownDuration)

	cfg.Enabled = false
	require.NoError(t, s.UpsertScopeConfiguration(ctx, cfg))
	c, err = s.ScopeConfiguration(ctx, "add", "d1")
	require.NoError(t, err)
	assert.False(t, c.Enabled)

	require.NoError(t, s.DeleteScopeConfiguration(ctx, "d1", "add"))
	assert.ErrorIs(t, s.DeleteScopeConfiguration(ctx, "d1", "add"), types.ErrNotFound)
}

func TestUsage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Usage(ctx, "add")
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.IncrementUsage(ctx, "add"))
	}

	n, err = s.Usage(ctx, "add")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
