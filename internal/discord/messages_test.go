package discord

import (
	"strconv"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestDisplayName(t *testing.T) {
	u := &discordgo.User{Username: "anna_k", GlobalName: "Anna"}

	if got := displayName(u, &discordgo.Member{Nick: "Annie"}); got != "Annie" {
		t.Errorf("nick: got %q", got)
	}
	if got := displayName(u, nil); got != "Anna" {
		t.Errorf("global name: got %q", got)
	}
	if got := displayName(&discordgo.User{Username: "bob"}, &discordgo.Member{}); got != "bob" {
		t.Errorf("username: got %q", got)
	}
}

func TestMentions(t *testing.T) {
	m := &discordgo.Message{Mentions: []*discordgo.User{{ID: "1"}, {ID: "42"}}}
	if !mentions(m, "42") {
		t.Error("expected mention of 42")
	}
	if mentions(m, "7") {
		t.Error("unexpected mention of 7")
	}
	if mentions(m, "") {
		t.Error("empty self id should never match")
	}
}

func TestGuildMembersSkipsSelf(t *testing.T) {
	g := &discordgo.Guild{Members: []*discordgo.Member{
		{User: &discordgo.User{ID: "1", Username: "anna"}, Nick: "Anna"},
		{User: &discordgo.User{ID: "bot", Username: "sydney"}},
		{User: nil},
	}}
	got := guildMembers(g, "bot")
	if len(got) != 1 || got[0].ID != "1" || got[0].DisplayName != "Anna" {
		t.Fatalf("unexpected members %+v", got)
	}
}

func TestToChatMessageDirect(t *testing.T) {
	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "bot"}

	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		Content:   "hello",
		Author:    &discordgo.User{ID: "u1", Username: "anna"},
		Mentions:  []*discordgo.User{{ID: "bot"}},
	}}
	msg := toChatMessage(s, m)
	if !msg.DirectMessage() || !msg.Mentioned || msg.FromSelf {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.AuthorDisplay != "anna" || msg.Content != "hello" {
		t.Fatalf("unexpected author/content %+v", msg)
	}
}

func TestToChatMessageWhileMembersChange(t *testing.T) {
	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "bot"}
	if err := s.State.GuildAdd(&discordgo.Guild{ID: "g1", Name: "Cafe"}); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			id := strconv.Itoa(i)
			s.State.MemberAdd(&discordgo.Member{
				GuildID: "g1",
				User:    &discordgo.User{ID: id, Username: "user" + id},
			})
		}
	}()

	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   "hello",
		Author:    &discordgo.User{ID: "u1", Username: "anna"},
	}}
	for i := 0; i < 200; i++ {
		msg := toChatMessage(s, m)
		if msg.ServerName != "Cafe" {
			t.Fatalf("unexpected server name %q", msg.ServerName)
		}
	}
	<-done

	if got := toChatMessage(s, m).Members; len(got) != 200 {
		t.Fatalf("expected 200 members, got %d", len(got))
	}
}
