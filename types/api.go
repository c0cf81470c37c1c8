package types

// ApiError is the body of every failed admin API response
type ApiError struct {
	Context map[string]string `json:"context,omitempty" description:"Context of the error. Usually used for validation error contexts"`
	Message string            `json:"message" description:"Message of the error"`
}

// PatchScopeConfiguration updates a scope configuration. Unset fields keep their current value.
type PatchScopeConfiguration struct {
	Enabled               *bool             `json:"enabled,omitempty" description:"Whether the command can be used at all"`
	NotifyWhenDisabled    *bool             `json:"notify_when_disabled,omitempty" description:"Whether users are told the command is disabled"`
	WhitelistEnabled      *bool             `json:"whitelist_enabled,omitempty" description:"Whether only whitelisted roles may use the command"`
	WhitelistedRoleIDs    *[]string         `json:"whitelisted_role_ids,omitempty" validate:"omitempty,dive,numeric" msg:"Role IDs must be numeric snowflakes" description:"Roles allowed to use the command when the whitelist is enabled"`
	AllowedInTextChannels *bool             `json:"allowed_in_text_channels,omitempty" description:"Whether the command may be used outside of DMs"`
	CooldownDuration      *CooldownDuration `json:"cooldown,omitempty" description:"Cooldown applied after each use"`
}

// Health is the body of the health endpoint
type Health struct {
	Status   string `json:"status" description:"ok when the store answers"`
	Commands int    `json:"commands" description:"Number of registered commands"`
}

// Apply copies the set fields of the patch onto c
func (p *PatchScopeConfiguration) Apply(c *ScopeConfiguration) {
	if p.Enabled != nil {
		c.Enabled = *p.Enabled
	}

	if p.NotifyWhenDisabled != nil {
		c.NotifyWhenDisabled = *p.NotifyWhenDisabled
	}

	if p.WhitelistEnabled != nil {
		c.WhitelistEnabled = *p.WhitelistEnabled
	}

	if p.WhitelistedRoleIDs != nil {
		c.WhitelistedRoleIDs = append([]string{}, *p.WhitelistedRoleIDs...)
	}

	if p.AllowedInTextChannels != nil {
		c.AllowedInTextChannels = *p.AllowedInTextChannels
	}

	if p.CooldownDuration != nil {
		c.CooldownDuration = *p.CooldownDuration
	}
}
