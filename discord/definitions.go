package discord

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/anti-raid/cmdgate/command"
	"github.com/anti-raid/cmdgate/lifecycle"
)

var optionTypes = map[command.ArgType]discordgo.ApplicationCommandOptionType{
	command.ArgString:    discordgo.ApplicationCommandOptionString,
	command.ArgInteger:   discordgo.ApplicationCommandOptionInteger,
	command.ArgBoolean:   discordgo.ApplicationCommandOptionBoolean,
	command.ArgDuration:  discordgo.ApplicationCommandOptionString,
	command.ArgUser:      discordgo.ApplicationCommandOptionUser,
	command.ArgCommunity: discordgo.ApplicationCommandOptionString,
	command.ArgServer:    discordgo.ApplicationCommandOptionString,
}

// Definition builds the slash command of a descriptor. Required options are listed first as
// Discord requires.
func Definition(desc *command.Descriptor) (*discordgo.ApplicationCommand, error) {
	var required, optional []*discordgo.ApplicationCommandOption

	for _, arg := range desc.Arguments() {
		t, ok := optionTypes[arg.Type]

		if !ok {
			return nil, fmt.Errorf("command %s: argument %s has unsupported type %s", desc.Name(), arg.Name, arg.Type)
		}

		opt := &discordgo.ApplicationCommandOption{
			Type:        t,
			Name:        arg.Name,
			Description: arg.Description,
			Required:    arg.Required,
		}

		if opt.Description == "" {
			opt.Description = arg.Name
		}

		if arg.Required {
			required = append(required, opt)
		} else {
			optional = append(optional, opt)
		}
	}

	dmPermission := desc.ChannelRestriction() != command.ChannelTextOnly

	return &discordgo.ApplicationCommand{
		Type:         discordgo.ChatApplicationCommand,
		Name:         desc.Name(),
		Description:  desc.Description(),
		DMPermission: &dmPermission,
		Options:      append(required, optional...),
	}, nil
}

// Definitions builds the slash commands of every registered command. Dev-only commands are
// registered too; the dev_only gate rejects everyone else silently.
func Definitions(registry *lifecycle.Registry) ([]*discordgo.ApplicationCommand, error) {
	var defs []*discordgo.ApplicationCommand

	for _, cmd := range registry.All() {
		def, err := Definition(cmd.Descriptor)

		if err != nil {
			return nil, err
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// RawArguments converts interaction options to the raw strings the executor validates
func RawArguments(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	raw := make(map[string]string, len(opts))

	for _, opt := range opts {
		switch v := opt.Value.(type) {
		case string:
			if opt.Type == discordgo.ApplicationCommandOptionUser {
				raw[opt.Name] = "<@" + v + ">"
			} else {
				raw[opt.Name] = v
			}
		case float64:
			raw[opt.Name] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			raw[opt.Name] = strconv.FormatBool(v)
		default:
			raw[opt.Name] = fmt.Sprint(v)
		}
	}

	return raw
}
