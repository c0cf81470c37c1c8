package types

// Actor is a user invoking or being targeted by a command
type Actor struct {
	ID         string `db:"id" json:"id" description:"Internal ID of the user"`
	DiscordID  string `db:"discord_id" json:"discord_id" description:"Discord user ID"`
	ExternalID string `db:"external_id" json:"external_id,omitempty" description:"Stable external (game) ID, empty if the user has not registered"`
}

// Registered reports whether the actor has linked a stable external identity
func (a *Actor) Registered() bool {
	return a != nil && a.ExternalID != ""
}

// Mention returns the Discord mention of the actor
func (a *Actor) Mention() string {
	if a == nil {
		return ""
	}
	return "<@" + a.DiscordID + ">"
}

// Deployment is a community: the tenant owning configuration overrides, bound to one guild
type Deployment struct {
	ID                string `db:"id" json:"id" description:"Internal ID of the deployment"`
	PublicID          string `db:"public_id" json:"public_id" description:"Short ID users type to reference the deployment"`
	GuildID           string `db:"guild_id" json:"guild_id" description:"Discord guild the deployment is bound to"`
	Name              string `db:"name" json:"name" description:"Display name"`
	PlayerModeEnabled bool   `db:"player_mode_enabled" json:"player_mode_enabled" description:"Whether player mode relaxes cross-deployment and channel restrictions"`
}

// Same reports whether both deployments are known and identical
func (d *Deployment) Same(other *Deployment) bool {
	return d != nil && other != nil && d.ID == other.ID
}

// Resource is a game server a command may target
type Resource struct {
	ID           string `db:"id" json:"id" description:"Internal ID of the server"`
	PublicID     string `db:"public_id" json:"public_id" description:"Short ID users type to reference the server"`
	DeploymentID string `db:"deployment_id" json:"deployment_id" description:"Deployment owning the server"`
	Name         string `db:"name" json:"name" description:"Display name"`
}

// MemberCapabilities is what an actor holds inside a deployment's guild
type MemberCapabilities struct {
	IsAdministrator bool     `json:"is_administrator"`
	RoleIDs         []string `json:"role_ids"`
}
