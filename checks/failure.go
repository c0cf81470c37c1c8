// Package checks implements the ordered gates a command invocation passes before its body runs.
package checks

import (
	"fmt"
	"time"

	"github.com/anti-raid/cmdgate/command"
)

// Kind identifies a failure to the message builder
type Kind string

const (
	KindDevOnly                  Kind = "dev_only"
	KindRegistrationRequired     Kind = "registration_required"
	KindTextOnly                 Kind = "text_only"
	KindDMOnly                   Kind = "dm_only"
	KindPlayerMode               Kind = "player_mode"
	KindCommandDisabled          Kind = "command_disabled"
	KindNotWhitelisted           Kind = "not_whitelisted"
	KindNotAllowedInTextChannels Kind = "not_allowed_in_text_channels"
	KindNilTargetServer          Kind = "nil_target_server"
	KindNilTargetCommunity       Kind = "nil_target_community"
	KindNilTargetUser            Kind = "nil_target_user"
	KindServerNotConnected       Kind = "server_not_connected"
	KindCooldownActive           Kind = "cooldown_active"
	KindDifferentCommunity       Kind = "different_community"
	KindPendingRequest           Kind = "pending_request"
	KindRequestAlreadyResolved   Kind = "request_already_resolved"
	KindRequestNotFound          Kind = "request_not_found"
	KindNotRequestee             Kind = "not_requestee"
	KindInvalidArgument          Kind = "invalid_argument"
)

// Params carry what the message builder needs to explain a failure. Only the fields relevant to
// the kind are set.
type Params struct {
	Mention     string        `json:"mention,omitempty"`
	Command     string        `json:"command,omitempty"`
	Argument    string        `json:"argument,omitempty"`
	Value       string        `json:"value,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
	Remaining   time.Duration `json:"remaining,omitempty"`
	Uses        int64         `json:"uses,omitempty"`
	Community   string        `json:"community,omitempty"`
}

// Failure is an expected, user-caused failure. A silent failure follows the same control flow
// but nothing is reported to the user.
type Failure struct {
	Check  command.CheckName `json:"check"`
	Kind   Kind              `json:"kind"`
	Params Params            `json:"params"`
	Silent bool              `json:"silent"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("check %s failed: %s", f.Check, f.Kind)
}

// Result is the outcome of a single gate
type Result struct {
	failure *Failure
}

func Pass() Result {
	return Result{}
}

func Fail(check command.CheckName, kind Kind, params Params) Result {
	return Result{failure: &Failure{Check: check, Kind: kind, Params: params}}
}

// FailSilently fails without telling the user why
func FailSilently(check command.CheckName, kind Kind) Result {
	return Result{failure: &Failure{Check: check, Kind: kind, Silent: true}}
}

func (r Result) IsOk() bool {
	return r.failure == nil
}

// Failure returns nil for passing results
func (r Result) Failure() *Failure {
	return r.failure
}
