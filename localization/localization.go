// Package localization turns check failures and lifecycle outcomes into user-facing text
package localization

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/anti-raid/cmdgate/checks"
	"github.com/anti-raid/cmdgate/utils/timex"
)

const (
	keyApology     = "apology"
	keyDidYouMean  = "did_you_mean"
	keyPrompt      = "prompt"
	keyAccepted    = "request_accepted"
	keyDeclined    = "request_declined"
	keySent        = "request_sent"
	keyCooldownUse = "cooldown_active_uses"
)

// english holds every message. Arguments are documented per key by the order Message passes them.
var english = map[string]string{
	string(checks.KindRegistrationRequired):     "%s, you need to register before using this command.",
	string(checks.KindTextOnly):                 "%s, `/%s` can only be used in a server's text channels.",
	string(checks.KindDMOnly):                   "%s, `/%s` can only be used in direct messages.",
	string(checks.KindPlayerMode):               "%s, admin commands cannot target `%s` from a community in player mode.",
	string(checks.KindCommandDisabled):          "%s, `/%s` has been disabled in this community.",
	string(checks.KindNotWhitelisted):           "%s, you are not allowed to use `/%s` in this community.",
	string(checks.KindNotAllowedInTextChannels): "%s, `/%s` cannot be used in this community's text channels. Try a direct message.",
	string(checks.KindNilTargetServer):          "%s, I could not find a server with the ID `%s`.",
	string(checks.KindNilTargetCommunity):       "%s, I could not find a community with the ID `%s`.",
	string(checks.KindNilTargetUser):            "%s, I could not find the user `%s`. Have they used a command here before?",
	string(checks.KindServerNotConnected):       "%s, `%s` is not connected right now.",
	string(checks.KindCooldownActive):           "%s, you can use `/%s` again in %s.",
	string(checks.KindDifferentCommunity):       "%s, commands targeting `%s` must be used in that community or in a direct message.",
	string(checks.KindPendingRequest):           "%s already has a pending request for `/%s` with these arguments.",
	string(checks.KindRequestAlreadyResolved):   "%s, this request has already been answered.",
	string(checks.KindNotRequestee):             "%s, this request is not addressed to you.",
	string(checks.KindRequestNotFound):          "%s, this request no longer exists.",
	string(checks.KindInvalidArgument):          "Invalid value `%s` for `%s`: %s.",
	keyCooldownUse:                              "%s, you have used `/%s` the maximum of %d times.",
	keyApology:                                  "Something went wrong. Please try again later and mention reference `%s` if you ask for help.",
	keyDidYouMean:                               "Did you mean: %s?",
	keyPrompt:                                   "%s is asking you to confirm `/%s`.",
	keyAccepted:                                 "Request accepted.",
	keyDeclined:                                 "Request declined.",
	keySent:                                     "Asked %s to confirm `/%s`.",
}

type Builder struct {
	catalog  *catalog.Builder
	matcher  language.Matcher
	fallback language.Tag
}

// New builds the message catalog. defaultLocale is used when an interaction's locale has no
// translation.
func New(defaultLocale string) (*Builder, error) {
	fallback, err := language.Parse(defaultLocale)

	if err != nil {
		return nil, err
	}

	b := catalog.NewBuilder(catalog.Fallback(language.English))

	for key, msg := range english {
		if err := b.SetString(language.English, key, msg); err != nil {
			return nil, err
		}
	}

	return &Builder{
		catalog:  b,
		matcher:  language.NewMatcher(b.Languages()),
		fallback: fallback,
	}, nil
}

func (b *Builder) printer(locale string) *message.Printer {
	tag := b.fallback

	if t, err := language.Parse(locale); err == nil {
		tag = t
	}

	matched, _, _ := b.matcher.Match(tag, b.fallback)
	return message.NewPrinter(matched, message.Catalog(b.catalog))
}

// Failure renders an expected failure. Silent failures render to the empty string.
func (b *Builder) Failure(locale string, f *checks.Failure) string {
	if f == nil || f.Silent {
		return ""
	}

	p := b.printer(locale)
	params := f.Params

	var msg string

	switch f.Kind {
	case checks.KindRegistrationRequired, checks.KindRequestAlreadyResolved, checks.KindNotRequestee, checks.KindRequestNotFound:
		msg = p.Sprintf(string(f.Kind), params.Mention)
	case checks.KindPlayerMode, checks.KindDifferentCommunity:
		msg = p.Sprintf(string(f.Kind), params.Mention, params.Community)
	case checks.KindNilTargetServer, checks.KindNilTargetCommunity, checks.KindNilTargetUser, checks.KindServerNotConnected:
		msg = p.Sprintf(string(f.Kind), params.Mention, params.Value)
	case checks.KindCooldownActive:
		if params.Uses > 0 {
			msg = p.Sprintf(keyCooldownUse, params.Mention, params.Command, params.Uses)
		} else {
			msg = p.Sprintf(string(f.Kind), params.Mention, params.Command, timex.Humanize(params.Remaining))
		}
	case checks.KindInvalidArgument:
		msg = p.Sprintf(string(f.Kind), params.Value, params.Argument, params.Reason)
	case checks.KindDevOnly:
		return ""
	default:
		msg = p.Sprintf(string(f.Kind), params.Mention, params.Command)
	}

	if len(params.Suggestions) > 0 {
		msg += " " + p.Sprintf(keyDidYouMean, "`"+strings.Join(params.Suggestions, "`, `")+"`")
	}

	return msg
}

// Apology is shown for unexpected errors
func (b *Builder) Apology(locale, correlationID string) string {
	return b.printer(locale).Sprintf(keyApology, correlationID)
}

func (b *Builder) Prompt(locale, requestorMention, commandName string) string {
	return b.printer(locale).Sprintf(keyPrompt, requestorMention, commandName)
}

// Sent confirms to the requestor that the requestee was prompted
func (b *Builder) Sent(locale, requesteeMention, commandName string) string {
	return b.printer(locale).Sprintf(keySent, requesteeMention, commandName)
}

func (b *Builder) Resolution(locale string, accepted bool) string {
	if accepted {
		return b.printer(locale).Sprintf(keyAccepted)
	}
	return b.printer(locale).Sprintf(keyDeclined)
}
