package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KennethC12/Ticketbot/internal/platform"
)

// Adapter реализует platform.Adapter поверх сессии Discord.
// discordgo не принимает context, поэтому ctx здесь не используется.
type Adapter struct {
	session *discordgo.Session
}

func NewAdapter(token string) (*Adapter, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages
	return &Adapter{session: session}, nil
}

// Session отдаёт сессию фронтенду (internal/bot использует её для интеракций).
func (a *Adapter) Session() *discordgo.Session {
	return a.session
}

func (a *Adapter) CreatePrivateChannel(_ context.Context, guildID, category, name, ownerUserID string) (string, error) {
	categoryID, err := a.findOrCreateCategory(guildID, category)
	if err != nil {
		return "", err
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{
			// Роль @everyone имеет ID самой гильдии.
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    ownerUserID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		},
	}
	if a.session.State != nil && a.session.State.User != nil {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    a.session.State.User.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages,
		})
	}

	channel, err := a.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             categoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return "", fmt.Errorf("create channel %q: %w", name, err)
	}
	return channel.ID, nil
}

func (a *Adapter) findOrCreateCategory(guildID, category string) (string, error) {
	channels, err := a.session.GuildChannels(guildID)
	if err != nil {
		return "", fmt.Errorf("list channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && strings.EqualFold(ch.Name, category) {
			return ch.ID, nil
		}
	}
	created, err := a.session.GuildChannelCreate(guildID, category, discordgo.ChannelTypeGuildCategory)
	if err != nil {
		return "", fmt.Errorf("create category %q: %w", category, err)
	}
	return created.ID, nil
}

func (a *Adapter) SendMessage(_ context.Context, channelID, content string) (string, error) {
	m, err := a.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return m.ID, nil
}

func (a *Adapter) EditMessage(_ context.Context, channelID, messageID, content string) error {
	if _, err := a.session.ChannelMessageEdit(channelID, messageID, content); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (a *Adapter) DeleteMessage(_ context.Context, channelID, messageID string) error {
	return a.session.ChannelMessageDelete(channelID, messageID)
}

func (a *Adapter) DeleteChannel(_ context.Context, channelID string) error {
	_, err := a.session.ChannelDelete(channelID)
	return err
}

func (a *Adapter) SetChannelPermission(_ context.Context, channelID, userID string, allowed bool) error {
	if allowed {
		return a.session.ChannelPermissionSet(channelID, userID, discordgo.PermissionOverwriteTypeMember,
			discordgo.PermissionViewChannel|discordgo.PermissionSendMessages, 0)
	}
	return a.session.ChannelPermissionSet(channelID, userID, discordgo.PermissionOverwriteTypeMember,
		0, discordgo.PermissionViewChannel)
}

func (a *Adapter) GuildChannels(_ context.Context, guildID string) ([]platform.Channel, error) {
	channels, err := a.session.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	out := make([]platform.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		out = append(out, platform.Channel{ID: ch.ID, Name: ch.Name})
	}
	return out, nil
}

func (a *Adapter) HasCapability(_ context.Context, guildID, userID string, cap platform.Capability) (bool, error) {
	member, err := a.session.GuildMember(guildID, userID)
	if err != nil {
		return false, fmt.Errorf("get member: %w", err)
	}
	roles, err := a.session.GuildRoles(guildID)
	if err != nil {
		return false, fmt.Errorf("get roles: %w", err)
	}

	var perms int64
	for _, role := range roles {
		// Роль @everyone достаётся всем, остальные — по списку участника.
		if role.ID == guildID {
			perms |= role.Permissions
			continue
		}
		for _, id := range member.Roles {
			if id == role.ID {
				perms |= role.Permissions
				break
			}
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true, nil
	}
	return perms&capabilityBit(cap) != 0, nil
}

func capabilityBit(cap platform.Capability) int64 {
	switch cap {
	case platform.CapabilityManageChannels:
		return discordgo.PermissionManageChannels
	case platform.CapabilityManageMessages:
		return discordgo.PermissionManageMessages
	case platform.CapabilityAdministrator:
		return discordgo.PermissionAdministrator
	}
	return 0
}
