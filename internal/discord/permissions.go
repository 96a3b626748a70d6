package discord

import (
	"github.com/bwmarrin/discordgo"
)

const managePerms = discordgo.PermissionManageChannels | discordgo.PermissionAdministrator

// canManageChannel reports whether userID may manage channelID, reading
// from the state cache first and the API second.
func canManageChannel(s *discordgo.Session, userID, channelID string) bool {
	perms, err := s.State.UserChannelPermissions(userID, channelID)
	if err != nil {
		perms, err = s.UserChannelPermissions(userID, channelID)
		if err != nil {
			return false
		}
	}
	return perms&managePerms != 0
}
