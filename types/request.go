package types

import "time"

// Request is a durable confirmation record. Accepted is nil while pending.
type Request struct {
	ID                   string         `db:"id" json:"id" description:"ID of the request"`
	RequestorID          string         `db:"requestor_id" json:"requestor_id" description:"Internal ID of the user who created the request"`
	RequesteeID          string         `db:"requestee_id" json:"requestee_id" description:"Internal ID of the user who must confirm"`
	CommandName          string         `db:"command_name" json:"command_name" description:"Command that created the request"`
	ArgumentsFingerprint string         `db:"arguments_fingerprint" json:"arguments_fingerprint" description:"Canonical hash of the command arguments"`
	Arguments            map[string]any `db:"arguments" json:"arguments" description:"Argument values the command ran with"`
	CreatedFromChannelID string         `db:"created_from_channel_id" json:"created_from_channel_id" description:"Channel the command was invoked in"`
	CreatedFromGuildID   string         `db:"created_from_guild_id" json:"created_from_guild_id,omitempty" description:"Guild the command was invoked in, empty for DMs"`
	AcceptRef            string         `db:"accept_ref" json:"accept_ref" description:"Opaque reference that accepts the request"`
	DeclineRef           string         `db:"decline_ref" json:"decline_ref" description:"Opaque reference that declines the request"`
	Accepted             *bool          `db:"accepted" json:"accepted" description:"Null while pending"`
	ResolvedAt           *time.Time     `db:"resolved_at" json:"resolved_at" description:"When the request was accepted or declined"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at" description:"When the request was created"`
}

func (r *Request) Pending() bool {
	return r.Accepted == nil
}

// String never includes the accept or decline refs
func (r *Request) String() string {
	return "request " + r.ID + " for /" + r.CommandName
}
