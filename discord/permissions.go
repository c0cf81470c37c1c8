package discord

import "github.com/bwmarrin/discordgo"

// basePermissions is the guild-wide permission set of a member: the owner holds everything,
// everyone else the union of @everyone and their roles. Channel overwrites are not applied.
func basePermissions(g *discordgo.Guild, m *discordgo.Member) int64 {
	if m.User != nil && g.OwnerID == m.User.ID {
		return discordgo.PermissionAll
	}

	held := make(map[string]struct{}, len(m.Roles)+1)
	held[g.ID] = struct{}{} // @everyone shares the guild id
	for _, id := range m.Roles {
		held[id] = struct{}{}
	}

	var perms int64
	for _, role := range g.Roles {
		if _, ok := held[role.ID]; ok {
			perms |= role.Permissions
		}
	}

	return perms
}
