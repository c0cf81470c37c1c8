package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/lifecycle"
	"github.com/anti-raid/cmdgate/localization"
)

type Bot struct {
	Session   *discordgo.Session
	Executor  *lifecycle.Executor
	Localizer *localization.Builder
	Logger    *zap.Logger

	// Timeout bounds one interaction, Discord invalidates the token after 15 minutes
	Timeout time.Duration

	// GuildID, when set, registers the commands to that guild only
	GuildID string
}

// Start registers the interaction handler and syncs slash commands once the session is ready
func (b *Bot) Start() {
	if b.Timeout == 0 {
		b.Timeout = 10 * time.Minute
	}

	b.Session.AddHandler(b.onReady)
	b.Session.AddHandler(b.onInteractionCreate)
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	defs, err := Definitions(b.Executor.Registry)

	if err != nil {
		b.Logger.Error("Failed to build command definitions", zap.Error(err))
		return
	}

	_, err = s.ApplicationCommandBulkOverwrite(r.User.ID, b.GuildID, defs)

	if err != nil {
		b.Logger.Error("Failed to register commands", zap.Error(err))
		return
	}

	b.Logger.Info("Registered commands", zap.Int("count", len(defs)), zap.String("user", r.User.Username), zap.String("guild", b.GuildID))
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// Params converts a slash command interaction to executor params
func Params(i *discordgo.InteractionCreate, startedAt time.Time) (string, invocation.Params) {
	data := i.ApplicationCommandData()

	return data.Name, invocation.Params{
		ActorDiscordID: interactionUser(i).ID,
		ChannelID:      i.ChannelID,
		GuildID:        i.GuildID,
		Locale:         string(i.Locale),
		Arguments:      RawArguments(data.Options),
		StartedAt:      startedAt,
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), b.Timeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		ref, ok := RequestRef(i.MessageComponentData().CustomID)

		if !ok {
			b.Logger.Debug("Ignoring unknown component", zap.String("custom_id", i.MessageComponentData().CustomID))
			return
		}

		b.handleResponse(ctx, s, i, ref)
	}
}

func (b *Bot) handleCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Checks and bodies may take longer than the 3 seconds Discord allows for the first reply
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})

	if err != nil {
		b.Logger.Error("Failed to defer interaction", zap.Error(err))
		return
	}

	name, params := Params(i, time.Now())
	out := b.Executor.Execute(ctx, name, params)

	b.reply(s, i, out)
}

func (b *Bot) handleResponse(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, ref string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})

	if err != nil {
		b.Logger.Error("Failed to defer component interaction", zap.Error(err))
		return
	}

	out := b.Executor.Respond(ctx, ref, interactionUser(i).ID)

	if out.Request != nil && !out.Request.Pending() {
		// Drop the buttons so the prompt cannot be answered twice
		content := b.Localizer.Resolution(string(i.Locale), *out.Request.Accepted)
		empty := []discordgo.MessageComponent{}

		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content, Components: &empty}); err != nil {
			b.Logger.Error("Failed to update prompt", zap.Error(err))
		}
	}

	b.followup(s, i, out)
}

func (b *Bot) reply(s *discordgo.Session, i *discordgo.InteractionCreate, out *lifecycle.Outcome) {
	data := Render(b.Localizer, string(i.Locale), out)

	if data == nil {
		if err := s.InteractionResponseDelete(i.Interaction); err != nil {
			b.Logger.Error("Failed to delete deferred response", zap.Error(err))
		}
		return
	}

	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &data.Content,
		Embeds:  &data.Embeds,
	})

	if err != nil {
		b.Logger.Error("Failed to send response", zap.String("command", out.Command), zap.Error(err))
	}
}

func (b *Bot) followup(s *discordgo.Session, i *discordgo.InteractionCreate, out *lifecycle.Outcome) {
	data := Render(b.Localizer, string(i.Locale), out)

	if data == nil {
		return
	}

	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: data.Content,
		Embeds:  data.Embeds,
		Flags:   data.Flags,
	})

	if err != nil {
		b.Logger.Error("Failed to send followup", zap.String("command", out.Command), zap.Error(fmt.Errorf("followup: %w", err)))
	}
}
