package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/anti-raid/cmdgate/lifecycle"
	"github.com/anti-raid/cmdgate/localization"
)

// Render turns an outcome into a reply. It returns nil when nothing should be shown.
// Failures and errors are only visible to the invoking user.
func Render(l *localization.Builder, locale string, out *lifecycle.Outcome) *discordgo.InteractionResponseData {
	switch {
	case out.Failure != nil:
		text := l.Failure(locale, out.Failure)
		if text == "" {
			return nil
		}
		return &discordgo.InteractionResponseData{Content: text, Flags: discordgo.MessageFlagsEphemeral}
	case out.CorrelationID != "":
		return &discordgo.InteractionResponseData{Content: l.Apology(locale, out.CorrelationID), Flags: discordgo.MessageFlagsEphemeral}
	}

	switch v := out.Result.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return &discordgo.InteractionResponseData{Content: v}
	case *discordgo.MessageEmbed:
		return &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{v}}
	case *discordgo.InteractionResponseData:
		return v
	case lifecycle.RequestSent:
		return &discordgo.InteractionResponseData{Content: l.Sent(locale, v.Requestee.Mention(), v.Request.CommandName)}
	case fmt.Stringer:
		return &discordgo.InteractionResponseData{Content: v.String()}
	default:
		return &discordgo.InteractionResponseData{Content: fmt.Sprint(v)}
	}
}
