package models

// ServerStatus — статус сервера (открыты/закрыты) и ссылка на последний баннер.
// Одна запись на гильдию, при переключении перезаписывается целиком.
type ServerStatus struct {
	IsOpen    bool   `json:"is_open"`
	MessageID string `json:"message_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
}
