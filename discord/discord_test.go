package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-raid/cmdgate/checks"
	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/lifecycle"
	"github.com/anti-raid/cmdgate/localization"
	"github.com/anti-raid/cmdgate/types"
)

func TestRawArguments(t *testing.T) {
	raw := RawArguments([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "amount", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(12)},
		{Name: "target", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
		{Name: "silent", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
		{Name: "server", Type: discordgo.ApplicationCommandOptionString, Value: "esm_malden"},
	})

	assert.Equal(t, map[string]string{
		"amount": "12",
		"target": "<@42>",
		"silent": "true",
		"server": "esm_malden",
	}, raw)
}

func TestDefinitionOrdersRequiredOptionsFirst(t *testing.T) {
	desc := command.New("restart").
		Description("Restart a server").
		Kind(command.KindAdmin).
		TextOnly().
		Argument(command.ArgumentSpec{Name: "reason", Type: command.ArgString}).
		Argument(command.ArgumentSpec{Name: "server", Type: command.ArgServer, Required: true, Description: "Server ID"}).
		MustBuild()

	def, err := Definition(desc)
	require.NoError(t, err)

	require.Len(t, def.Options, 2)
	assert.Equal(t, "server", def.Options[0].Name)
	assert.Equal(t, discordgo.ApplicationCommandOptionString, def.Options[0].Type)
	assert.Equal(t, "reason", def.Options[1].Description)
	require.NotNil(t, def.DMPermission)
	assert.False(t, *def.DMPermission)
}

func TestRequestRef(t *testing.T) {
	msg := PromptMessage("confirm?", &types.Request{AcceptRef: "a-ref", DeclineRef: "d-ref"})

	row := msg.Components[0].(discordgo.ActionsRow)
	accept := row.Components[0].(discordgo.Button)
	decline := row.Components[1].(discordgo.Button)

	ref, ok := RequestRef(accept.CustomID)
	require.True(t, ok)
	assert.Equal(t, "a-ref", ref)

	ref, ok = RequestRef(decline.CustomID)
	require.True(t, ok)
	assert.Equal(t, "d-ref", ref)

	_, ok = RequestRef("music:skip")
	assert.False(t, ok)

	_, ok = RequestRef(requestButtonPrefix)
	assert.False(t, ok)
}

func TestCapabilities(t *testing.T) {
	g := &discordgo.Guild{
		ID:      "g1",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g1"},
			{ID: "mods", Permissions: discordgo.PermissionKickMembers},
			{ID: "admins", Permissions: discordgo.PermissionAdministrator},
		},
	}

	c := Capabilities(g, &discordgo.Member{User: &discordgo.User{ID: "u1"}, Roles: []string{"mods"}})
	assert.False(t, c.IsAdministrator)
	assert.Equal(t, []string{"mods"}, c.RoleIDs)

	c = Capabilities(g, &discordgo.Member{User: &discordgo.User{ID: "u2"}, Roles: []string{"admins"}})
	assert.True(t, c.IsAdministrator)

	c = Capabilities(g, &discordgo.Member{User: &discordgo.User{ID: "owner"}})
	assert.True(t, c.IsAdministrator)
}

func TestRender(t *testing.T) {
	l, err := localization.New("en")
	require.NoError(t, err)

	data := Render(l, "en-US", &lifecycle.Outcome{Result: "Territory added."})
	require.NotNil(t, data)
	assert.Equal(t, "Territory added.", data.Content)
	assert.Zero(t, data.Flags)

	data = Render(l, "en-US", &lifecycle.Outcome{Failure: checks.Fail(command.CheckTextOnly, checks.KindTextOnly, checks.Params{Mention: "<@1>", Command: "me"}).Failure()})
	require.NotNil(t, data)
	assert.Contains(t, data.Content, "`/me`")
	assert.Equal(t, discordgo.MessageFlagsEphemeral, data.Flags)

	data = Render(l, "en-US", &lifecycle.Outcome{CorrelationID: "abcdefgh12345678"})
	require.NotNil(t, data)
	assert.Contains(t, data.Content, "abcdefgh12345678")

	assert.Nil(t, Render(l, "en-US", &lifecycle.Outcome{Failure: checks.FailSilently(command.CheckPermissions, checks.KindCommandDisabled).Failure()}))
	assert.Nil(t, Render(l, "en-US", &lifecycle.Outcome{}))

	embed := &discordgo.MessageEmbed{Title: "Stats"}
	data = Render(l, "en-US", &lifecycle.Outcome{Result: embed})
	assert.Equal(t, []*discordgo.MessageEmbed{embed}, data.Embeds)

	data = Render(l, "en-US", &lifecycle.Outcome{Result: 42})
	assert.Equal(t, "42", data.Content)
}

func TestRenderRequestSentHidesRefs(t *testing.T) {
	l, err := localization.New("en")
	require.NoError(t, err)

	req := &types.Request{ID: "r1", CommandName: "add", AcceptRef: "accept-ref", DeclineRef: "decline-ref"}

	for _, result := range []any{
		lifecycle.RequestSent{Request: req, Requestee: &types.Actor{DiscordID: "2"}},
		req,
	} {
		data := Render(l, "en-US", &lifecycle.Outcome{Result: result})
		require.NotNil(t, data)
		assert.NotContains(t, data.Content, "accept-ref")
		assert.NotContains(t, data.Content, "decline-ref")
	}

	data := Render(l, "en-US", &lifecycle.Outcome{Result: lifecycle.RequestSent{Request: req, Requestee: &types.Actor{DiscordID: "2"}}})
	assert.Equal(t, "Asked <@2> to confirm `/add`.", data.Content)
}

func TestInteractionUserPrefersMember(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "m"}},
		User:   &discordgo.User{ID: "u"},
	}}
	assert.Equal(t, "m", interactionUser(i).ID)

	i.Member = nil
	assert.Equal(t, "u", interactionUser(i).ID)
}
