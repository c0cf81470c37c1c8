package localization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-raid/cmdgate/checks"
	"github.com/anti-raid/cmdgate/command"
)

func builder(t *testing.T) *Builder {
	t.Helper()

	b, err := New("en-US")
	require.NoError(t, err)
	return b
}

func TestEveryKindHasAMessage(t *testing.T) {
	kinds := []checks.Kind{
		checks.KindRegistrationRequired, checks.KindTextOnly, checks.KindDMOnly, checks.KindPlayerMode,
		checks.KindCommandDisabled, checks.KindNotWhitelisted, checks.KindNotAllowedInTextChannels,
		checks.KindNilTargetServer, checks.KindNilTargetCommunity, checks.KindNilTargetUser,
		checks.KindServerNotConnected, checks.KindCooldownActive, checks.KindDifferentCommunity,
		checks.KindPendingRequest, checks.KindRequestAlreadyResolved, checks.KindNotRequestee,
		checks.KindRequestNotFound, checks.KindInvalidArgument,
	}

	for _, k := range kinds {
		_, ok := english[string(k)]
		assert.True(t, ok, k)
	}
}

func TestSent(t *testing.T) {
	assert.Equal(t, "Asked <@2> to confirm `/add`.", builder(t).Sent("en", "<@2>", "add"))
}

func TestFailureMessages(t *testing.T) {
	b := builder(t)

	msg := b.Failure("en-US", checks.Fail(command.CheckRegistrationRequired, checks.KindRegistrationRequired, checks.Params{Mention: "<@1>"}).Failure())
	assert.Equal(t, "<@1>, you need to register before using this command.", msg)

	msg = b.Failure("de", checks.Fail(command.CheckCooldown, checks.KindCooldownActive, checks.Params{Mention: "<@1>", Command: "add", Remaining: 90 * time.Second}).Failure())
	assert.Equal(t, "<@1>, you can use `/add` again in 1 minute and 30 seconds.", msg)

	msg = b.Failure("", checks.Fail(command.CheckNilTargetServer, checks.KindNilTargetServer, checks.Params{Mention: "<@1>", Value: "esm_maldn", Suggestions: []string{"esm_malden", "esm_altis"}}).Failure())
	assert.Equal(t, "<@1>, I could not find a server with the ID `esm_maldn`. Did you mean: `esm_malden`, `esm_altis`?", msg)
}

func TestSilentFailuresRenderNothing(t *testing.T) {
	b := builder(t)

	assert.Empty(t, b.Failure("en-US", checks.FailSilently(command.CheckDevOnly, checks.KindDevOnly).Failure()))
	assert.Empty(t, b.Failure("en-US", checks.FailSilently(command.CheckPermissions, checks.KindCommandDisabled).Failure()))
	assert.Empty(t, b.Failure("en-US", nil))
}

func TestApology(t *testing.T) {
	assert.Contains(t, builder(t).Apology("en-US", "abc123"), "`abc123`")
}
