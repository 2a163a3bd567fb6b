package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/KennethC12/Ticketbot/internal/errs"
	"github.com/KennethC12/Ticketbot/internal/events"
	"github.com/KennethC12/Ticketbot/internal/models"
	"github.com/KennethC12/Ticketbot/internal/platform"
	"github.com/KennethC12/Ticketbot/internal/storage"
)

// PostBanner отправляет баннер статуса в канал и возвращает ID сообщения.
// Содержимое (панель при открытии, просто текст при закрытии) собирает фронтенд.
type PostBanner func(ctx context.Context, channelID string, isOpen bool) (string, error)

// StatusService переключает флаг открыто/закрыто по гильдии и следит за тем,
// чтобы в канале статуса висел ровно один актуальный баннер.
type StatusService struct {
	store         storage.Store
	adapter       platform.Adapter
	producer      events.EventProducer
	statusChannel string
}

func NewStatusService(store storage.Store, adapter platform.Adapter, producer events.EventProducer, statusChannel string) *StatusService {
	return &StatusService{
		store:         store,
		adapter:       adapter,
		producer:      producer,
		statusChannel: statusChannel,
	}
}

// Status возвращает статус гильдии; по умолчанию — закрыто, без ссылок на баннер.
func (s *StatusService) Status(guildID string) (*models.ServerStatus, error) {
	snapshot, err := s.store.LoadStatus()
	if err != nil {
		return nil, fmt.Errorf("load status: %w", err)
	}
	if st, ok := snapshot[guildID]; ok {
		return st, nil
	}
	return &models.ServerStatus{IsOpen: false}, nil
}

// SetStatus переключает статус и заменяет баннер. Старый баннер удаляется
// best-effort, новая запись сохраняется безусловно — худший исход частичного
// сбоя на стороне платформы это устаревший или задвоенный баннер, не порча
// данных. Если канал статуса не найден, состояние не меняется.
func (s *StatusService) SetStatus(ctx context.Context, guildID string, isOpen bool, actorCanManageMessages bool, post PostBanner) (string, error) {
	if !actorCanManageMessages {
		return "", errs.ErrUnauthorized
	}

	channelID, err := s.resolveStatusChannel(ctx, guildID)
	if err != nil {
		return "", err
	}

	snapshot, err := s.store.LoadStatus()
	if err != nil {
		return "", fmt.Errorf("load status: %w", err)
	}

	if prev, ok := snapshot[guildID]; ok && prev.MessageID != "" && prev.ChannelID != "" {
		if err := s.adapter.DeleteMessage(ctx, prev.ChannelID, prev.MessageID); err != nil {
			log.Printf("status: delete old banner %s/%s: %v", prev.ChannelID, prev.MessageID, err)
		}
	}

	messageID, err := post(ctx, channelID, isOpen)
	if err != nil {
		log.Printf("status: post banner in %s: %v", channelID, err)
		messageID = ""
	}

	snapshot[guildID] = &models.ServerStatus{
		IsOpen:    isOpen,
		MessageID: messageID,
		ChannelID: channelID,
	}
	if err := s.store.SaveStatus(snapshot); err != nil {
		return "", fmt.Errorf("save status: %w", err)
	}

	s.producer.Produce(ctx, events.EventStatusChanged, map[string]interface{}{
		"guild_id": guildID,
		"is_open":  isOpen,
	})
	return channelID, nil
}

// resolveStatusChannel ищет канал для баннера: сначала точное имя из конфига,
// затем первый канал с "order" или "status" в имени.
func (s *StatusService) resolveStatusChannel(ctx context.Context, guildID string) (string, error) {
	channels, err := s.adapter.GuildChannels(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("list guild channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Name == s.statusChannel {
			return ch.ID, nil
		}
	}
	for _, ch := range channels {
		name := strings.ToLower(ch.Name)
		if strings.Contains(name, "order") || strings.Contains(name, "status") {
			return ch.ID, nil
		}
	}
	return "", errs.ErrStatusChannelNotFound
}
