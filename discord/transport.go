// Package discord adapts discordgo interactions to the command executor
package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/anti-raid/cmdgate/localization"
	"github.com/anti-raid/cmdgate/types"
)

const (
	// Custom IDs of request buttons are this prefix followed by the accept or decline ref
	requestButtonPrefix = "cmdgate:req:"
)

// Transport implements invocation.Transport on a discordgo session
type Transport struct {
	Session   *discordgo.Session
	Localizer *localization.Builder

	// Locale prompts are written in. Requestees are prompted in DMs, where the invocation's
	// locale is not theirs.
	Locale string
}

func (t *Transport) guild(guildID string) (*discordgo.Guild, error) {
	if g, err := t.Session.State.Guild(guildID); err == nil && g != nil {
		return g, nil
	}

	return t.Session.Guild(guildID)
}

func (t *Transport) member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := t.Session.State.Member(guildID, userID); err == nil && m != nil {
		return m, nil
	}

	return t.Session.GuildMember(guildID, userID)
}

func (t *Transport) MemberCapabilities(ctx context.Context, guildID, discordUserID string) (types.MemberCapabilities, error) {
	g, err := t.guild(guildID)

	if err != nil {
		return types.MemberCapabilities{}, fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}

	m, err := t.member(guildID, discordUserID)

	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == 404 {
			// Not a member: no roles, no administrator
			return types.MemberCapabilities{}, nil
		}

		return types.MemberCapabilities{}, fmt.Errorf("failed to fetch member %s: %w", discordUserID, err)
	}

	return Capabilities(g, m), nil
}

// Capabilities derives what a member holds from their roles
func Capabilities(g *discordgo.Guild, m *discordgo.Member) types.MemberCapabilities {
	perms := basePermissions(g, m)

	return types.MemberCapabilities{
		IsAdministrator: perms&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator,
		RoleIDs:         append([]string(nil), m.Roles...),
	}
}

// PromptMessage builds the accept/decline prompt of a request
func PromptMessage(text string, req *types.Request) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: text,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Accept",
						Style:    discordgo.SuccessButton,
						CustomID: requestButtonPrefix + req.AcceptRef,
					},
					discordgo.Button{
						Label:    "Decline",
						Style:    discordgo.DangerButton,
						CustomID: requestButtonPrefix + req.DeclineRef,
					},
				},
			},
		},
	}
}

// RequestRef extracts the request ref from a button custom ID
func RequestRef(customID string) (string, bool) {
	if len(customID) <= len(requestButtonPrefix) || customID[:len(requestButtonPrefix)] != requestButtonPrefix {
		return "", false
	}

	return customID[len(requestButtonPrefix):], true
}

// DeliverPrompt sends the request prompt to the requestee's DMs
func (t *Transport) DeliverPrompt(ctx context.Context, requestor, requestee *types.Actor, req *types.Request) error {
	ch, err := t.Session.UserChannelCreate(requestee.DiscordID)

	if err != nil {
		return fmt.Errorf("failed to open DM with %s: %w", requestee.DiscordID, err)
	}

	text := t.Localizer.Prompt(t.Locale, requestor.Mention(), req.CommandName)

	_, err = t.Session.ChannelMessageSendComplex(ch.ID, PromptMessage(text, req))

	if err != nil {
		return fmt.Errorf("failed to send prompt: %w", err)
	}

	return nil
}
