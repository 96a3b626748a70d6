package discord

import (
	"github.com/bwmarrin/discordgo"

	"sydneybot/internal/chat"
)

// toChatMessage converts a gateway message into the chat pipeline's form.
func toChatMessage(s *discordgo.Session, m *discordgo.MessageCreate) chat.Message {
	selfID := selfUserID(s)

	msg := chat.Message{
		ID:            m.ID,
		ChannelID:     m.ChannelID,
		GuildID:       m.GuildID,
		At:            m.Timestamp,
		AuthorID:      m.Author.ID,
		AuthorName:    m.Author.Username,
		AuthorDisplay: displayName(m.Author, m.Member),
		AuthorIsBot:   m.Author.Bot,
		Content:       m.Content,
		Mentioned:     mentions(m.Message, selfID),
		FromSelf:      selfID != "" && m.Author.ID == selfID,
	}

	ch, chErr := s.State.Channel(m.ChannelID)
	var g *discordgo.Guild
	gErr := discordgo.ErrStateNotFound
	if m.GuildID != "" {
		g, gErr = s.State.Guild(m.GuildID)
	}

	// State hands out live pointers that member and channel events update
	// under the same lock.
	s.State.RLock()
	defer s.State.RUnlock()
	if chErr == nil {
		msg.ChannelName = ch.Name
	}
	if gErr == nil {
		msg.ServerName = g.Name
		msg.Members = guildMembers(g, selfID)
	}
	return msg
}

func displayName(u *discordgo.User, member *discordgo.Member) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func mentions(m *discordgo.Message, selfID string) bool {
	if selfID == "" {
		return false
	}
	for _, u := range m.Mentions {
		if u.ID == selfID {
			return true
		}
	}
	return false
}

// guildMembers copies g's members. The caller must hold the state lock.
func guildMembers(g *discordgo.Guild, selfID string) []chat.Member {
	out := make([]chat.Member, 0, len(g.Members))
	for _, gm := range g.Members {
		if gm.User == nil || gm.User.ID == selfID {
			continue
		}
		out = append(out, chat.Member{
			ID:          gm.User.ID,
			Username:    gm.User.Username,
			DisplayName: displayName(gm.User, gm),
		})
	}
	return out
}

func selfUserID(s *discordgo.Session) string {
	s.State.RLock()
	defer s.State.RUnlock()
	if s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}
