package platform

import "context"

// Capability — внешнее право, которым владеет платформа, а не бот.
type Capability string

const (
	CapabilityManageChannels Capability = "manageChannels"
	CapabilityManageMessages Capability = "manageMessages"
	CapabilityAdministrator  Capability = "administrator"
)

// Channel — канал гильдии, как его видит ядро при поиске канала статуса.
type Channel struct {
	ID   string
	Name string
}

// Adapter — примитивы чат-платформы, которыми пользуется ядро.
// Реализуется фронтендом (internal/bot); в тестах подменяется фейком.
type Adapter interface {
	// CreatePrivateChannel создаёт приватный канал в категории category,
	// видимый владельцу и боту, и возвращает его ID.
	CreatePrivateChannel(ctx context.Context, guildID, category, name, ownerUserID string) (string, error)

	SendMessage(ctx context.Context, channelID, content string) (string, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	DeleteChannel(ctx context.Context, channelID string) error

	// SetChannelPermission открывает или закрывает пользователю доступ к каналу.
	SetChannelPermission(ctx context.Context, channelID, userID string, allowed bool) error

	// GuildChannels перечисляет текстовые каналы гильдии (для поиска канала статуса).
	GuildChannels(ctx context.Context, guildID string) ([]Channel, error)

	HasCapability(ctx context.Context, guildID, userID string, cap Capability) (bool, error)
}
