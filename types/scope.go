package types

// ScopeConfiguration is a deployment's override of a command's configurable attributes.
// When a row exists every field is explicit.
type ScopeConfiguration struct {
	DeploymentID          string           `db:"deployment_id" json:"deployment_id" description:"Deployment the configuration pertains to"`
	CommandName           string           `db:"command_name" json:"command_name" description:"The name of the command"`
	Enabled               bool             `db:"enabled" json:"enabled" description:"Whether the command can be used at all"`
	NotifyWhenDisabled    bool             `db:"notify_when_disabled" json:"notify_when_disabled" description:"Whether users are told the command is disabled"`
	WhitelistEnabled      bool             `db:"whitelist_enabled" json:"whitelist_enabled" description:"Whether only whitelisted roles may use the command"`
	WhitelistedRoleIDs    []string         `db:"whitelisted_role_ids" json:"whitelisted_role_ids" description:"Roles allowed to use the command when the whitelist is enabled"`
	AllowedInTextChannels bool             `db:"allowed_in_text_channels" json:"allowed_in_text_channels" description:"Whether the command may be used outside of DMs"`
	CooldownDuration      CooldownDuration `db:"cooldown" json:"cooldown" description:"Cooldown applied after each use"`
}

// PermissionDecision is the merged result of a command's defaults and a scope configuration
type PermissionDecision struct {
	Enabled            bool             `json:"enabled"`
	NotifyWhenDisabled bool             `json:"notify_when_disabled"`
	AllowedInChannel   bool             `json:"allowed_in_channel"`
	Whitelisted        bool             `json:"whitelisted"`
	CooldownDuration   CooldownDuration `json:"cooldown"`
}
