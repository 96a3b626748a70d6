package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

const maxNickname = 32

// Platform sends the bot's output through a discordgo session.
type Platform struct {
	s *discordgo.Session
}

func NewPlatform(s *discordgo.Session) *Platform {
	return &Platform{s: s}
}

func (p *Platform) Reply(ctx context.Context, channelID, messageID, content string) error {
	_, err := p.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Reference: &discordgo.MessageReference{
			MessageID: messageID,
			ChannelID: channelID,
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse:       []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
			RepliedUser: false,
		},
	}, discordgo.WithContext(ctx))
	return err
}

func (p *Platform) React(ctx context.Context, channelID, messageID, emoji string) error {
	return p.s.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

func (p *Platform) SetNickname(ctx context.Context, guildID, nickname string) error {
	if r := []rune(nickname); len(r) > maxNickname {
		nickname = string(r[:maxNickname])
	}
	return p.s.GuildMemberNickname(guildID, "@me", nickname, discordgo.WithContext(ctx))
}

func (p *Platform) Typing(ctx context.Context, channelID string) error {
	return p.s.ChannelTyping(channelID, discordgo.WithContext(ctx))
}

// SetPresence shows text as the bot's activity.
func (p *Platform) SetPresence(text string) error {
	return p.s.UpdateGameStatus(0, text)
}
