package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/KennethC12/Ticketbot/internal/errs"
	"github.com/KennethC12/Ticketbot/internal/events"
	"github.com/KennethC12/Ticketbot/internal/models"
	"github.com/KennethC12/Ticketbot/internal/platform"
	"github.com/KennethC12/Ticketbot/internal/storage"
)

// Поля формы заказа, принимаемые SetOrderField.
const (
	FieldAccountName    = "account_name"
	FieldPaymentMethods = "payment_methods"
	FieldTip            = "tip"
	FieldDeliveryType   = "delivery_type"
	FieldDeliveryNotes  = "delivery_notes"
)

// TicketService владеет жизненным циклом тикета: создание, форма заказа,
// отправка, закрытие, доступ. Все правила авторизации и инварианты — здесь.
type TicketService struct {
	store      storage.Store
	adapter    platform.Adapter
	producer   events.EventProducer
	category   string
	closeDelay time.Duration
}

func NewTicketService(store storage.Store, adapter platform.Adapter, producer events.EventProducer, category string, closeDelay time.Duration) *TicketService {
	return &TicketService{
		store:      store,
		adapter:    adapter,
		producer:   producer,
		category:   category,
		closeDelay: closeDelay,
	}
}

// CreateTicket создаёт приватный канал и запись тикета.
// Если канал создать не удалось, запись не пишется вовсе.
func (s *TicketService) CreateTicket(ctx context.Context, guildID, userID, userName string, ticketType models.TicketType, orderLink string) (string, error) {
	if !ticketType.Valid() {
		return "", errs.ErrInvalidTicketType
	}
	if ticketType.RequiresOrderLink() && strings.TrimSpace(orderLink) == "" {
		return "", errs.ErrOrderLinkRequired
	}
	if !ticketType.RequiresOrderLink() && orderLink != "" {
		return "", errs.ErrOrderLinkNotAllowed
	}

	channelName := ChannelName(ticketType, userName, time.Now())
	channelID, err := s.adapter.CreatePrivateChannel(ctx, guildID, s.category, channelName, userID)
	if err != nil {
		return "", fmt.Errorf("create ticket channel: %w", err)
	}

	snapshot, err := s.store.LoadTickets()
	if err != nil {
		return "", fmt.Errorf("load tickets: %w", err)
	}
	guild, ok := snapshot[guildID]
	if !ok {
		guild = map[string]*models.Ticket{}
		snapshot[guildID] = guild
	}
	guild[channelID] = &models.Ticket{
		UserID:       userID,
		Type:         ticketType,
		OrderLink:    orderLink,
		CreatedAt:    time.Now(),
		Status:       models.TicketStatusOpen,
		OrderDetails: models.DefaultOrderDetails(),
	}
	if err := s.store.SaveTickets(snapshot); err != nil {
		return "", fmt.Errorf("save tickets: %w", err)
	}

	s.producer.Produce(ctx, events.EventTicketCreated, map[string]interface{}{
		"guild_id":   guildID,
		"channel_id": channelID,
		"user_id":    userID,
		"type":       string(ticketType),
	})
	return channelID, nil
}

// RecordPreviewMessage запоминает сообщение с превью заказа, чтобы потом
// редактировать его на месте. Последняя запись побеждает; если тикета нет — no-op.
func (s *TicketService) RecordPreviewMessage(guildID, channelID, messageID string) error {
	snapshot, err := s.store.LoadTickets()
	if err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}
	t, ok := snapshot[guildID][channelID]
	if !ok {
		return nil
	}
	t.PreviewMessageID = messageID
	return s.store.SaveTickets(snapshot)
}

// SetOrderField нормализует и сохраняет одно поле формы заказа,
// возвращая сохранённое значение. Поля остаются редактируемыми и после
// отправки заказа — отправка лишь гасит кнопки в превью.
func (s *TicketService) SetOrderField(guildID, channelID, field, raw string) (string, error) {
	value, err := NormalizeOrderField(field, raw)
	if err != nil {
		return "", err
	}
	snapshot, err := s.store.LoadTickets()
	if err != nil {
		return "", fmt.Errorf("load tickets: %w", err)
	}
	t, ok := snapshot[guildID][channelID]
	if !ok {
		return "", errs.ErrTicketNotFound
	}
	switch field {
	case FieldAccountName:
		t.OrderDetails.AccountName = value
	case FieldPaymentMethods:
		t.OrderDetails.PaymentMethods = value
	case FieldTip:
		t.OrderDetails.Tip = value
	case FieldDeliveryType:
		t.OrderDetails.DeliveryType = value
	case FieldDeliveryNotes:
		t.OrderDetails.DeliveryNotes = value
	}
	if err := s.store.SaveTickets(snapshot); err != nil {
		return "", fmt.Errorf("save tickets: %w", err)
	}
	return value, nil
}

// NormalizeOrderField приводит сырое значение поля к хранимому виду.
// Нормализация идемпотентна: повторный прогон не меняет значение.
func NormalizeOrderField(field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	switch field {
	case FieldAccountName:
		// Имя аккаунта хранится как введено; непустоту требует форма.
		return raw, nil
	case FieldPaymentMethods:
		if value == "" {
			return models.DefaultPaymentMethods, nil
		}
		return value, nil
	case FieldTip:
		if value == "" {
			return models.DefaultTip, nil
		}
		if !strings.HasPrefix(value, "$") && !strings.HasSuffix(value, "%") {
			value = "$" + value
		}
		return value, nil
	case FieldDeliveryNotes:
		if value == "" {
			return models.DefaultDeliveryNotes, nil
		}
		return value, nil
	case FieldDeliveryType:
		if value != models.DeliveryLeaveAtDoor && value != models.DeliveryMeetAtDoor {
			return "", fmt.Errorf("%w: delivery type %q", errs.ErrInvalidOrderField, raw)
		}
		return value, nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrInvalidOrderField, field)
}

// SubmitOrder помечает заказ отправленным и возвращает снимок формы для
// рендера. Повторная отправка — тоже успех, флаг просто ставится заново.
func (s *TicketService) SubmitOrder(ctx context.Context, guildID, channelID, actorID string, actorIsStaff bool) (models.OrderDetails, error) {
	snapshot, err := s.store.LoadTickets()
	if err != nil {
		return models.OrderDetails{}, fmt.Errorf("load tickets: %w", err)
	}
	t, ok := snapshot[guildID][channelID]
	if !ok {
		return models.OrderDetails{}, errs.ErrTicketNotFound
	}
	if err := authorize(t, actorID, actorIsStaff); err != nil {
		return models.OrderDetails{}, err
	}
	t.OrderSubmitted = true
	if err := s.store.SaveTickets(snapshot); err != nil {
		return models.OrderDetails{}, fmt.Errorf("save tickets: %w", err)
	}
	s.producer.Produce(ctx, events.EventOrderSubmitted, map[string]interface{}{
		"guild_id":   guildID,
		"channel_id": channelID,
		"user_id":    actorID,
	})
	return t.OrderDetails, nil
}

// CloseTicket закрывает тикет и планирует удаление канала через closeDelay.
// Удаление — best-effort: неудача только логируется, запись остаётся закрытой.
func (s *TicketService) CloseTicket(ctx context.Context, guildID, channelID, actorID string, actorIsStaff bool) error {
	snapshot, err := s.store.LoadTickets()
	if err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}
	t, ok := snapshot[guildID][channelID]
	if !ok {
		return errs.ErrTicketNotFound
	}
	if err := authorize(t, actorID, actorIsStaff); err != nil {
		return err
	}
	if t.Status == models.TicketStatusClosed {
		return errs.ErrAlreadyClosed
	}
	now := time.Now()
	t.Status = models.TicketStatusClosed
	t.ClosedAt = &now
	if err := s.store.SaveTickets(snapshot); err != nil {
		return fmt.Errorf("save tickets: %w", err)
	}

	s.producer.Produce(ctx, events.EventTicketClosed, map[string]interface{}{
		"guild_id":   guildID,
		"channel_id": channelID,
		"user_id":    actorID,
	})

	time.AfterFunc(s.closeDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.adapter.DeleteChannel(ctx, channelID); err != nil {
			log.Printf("ticket: delete channel %s: %v", channelID, err)
		}
	})
	return nil
}

// AddUser открывает пользователю доступ к каналу тикета (только персонал).
func (s *TicketService) AddUser(ctx context.Context, guildID, channelID string, actorIsStaff bool, targetUserID string) error {
	return s.setAccess(ctx, guildID, channelID, actorIsStaff, targetUserID, true)
}

// RemoveUser закрывает пользователю доступ к каналу тикета (только персонал).
func (s *TicketService) RemoveUser(ctx context.Context, guildID, channelID string, actorIsStaff bool, targetUserID string) error {
	return s.setAccess(ctx, guildID, channelID, actorIsStaff, targetUserID, false)
}

func (s *TicketService) setAccess(ctx context.Context, guildID, channelID string, actorIsStaff bool, targetUserID string, allowed bool) error {
	if !actorIsStaff {
		return errs.ErrUnauthorized
	}
	snapshot, err := s.store.LoadTickets()
	if err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}
	if _, ok := snapshot[guildID][channelID]; !ok {
		return errs.ErrTicketNotFound
	}
	// Список допущенных не храним: источником правды остаётся платформа.
	if err := s.adapter.SetChannelPermission(ctx, channelID, targetUserID, allowed); err != nil {
		return fmt.Errorf("set channel permission: %w", err)
	}
	return nil
}

// Ticket возвращает запись тикета по паре (guild, channel).
func (s *TicketService) Ticket(guildID, channelID string) (*models.Ticket, error) {
	snapshot, err := s.store.LoadTickets()
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}
	t, ok := snapshot[guildID][channelID]
	if !ok {
		return nil, errs.ErrTicketNotFound
	}
	return t, nil
}

// GuildTickets возвращает тикеты гильдии: channelID -> Ticket.
func (s *TicketService) GuildTickets(guildID string) (map[string]*models.Ticket, error) {
	snapshot, err := s.store.LoadTickets()
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}
	return snapshot[guildID], nil
}

// AllTickets возвращает полный снимок тикетов (для веб-админки).
func (s *TicketService) AllTickets() (storage.TicketSnapshot, error) {
	return s.store.LoadTickets()
}

// authorize — единственное место с правилом доступа к тикету:
// владелец всегда может действовать со своим тикетом, персонал — с любым.
func authorize(t *models.Ticket, actorID string, actorIsStaff bool) error {
	if actorID == t.UserID || actorIsStaff {
		return nil
	}
	return errs.ErrUnauthorized
}

// ChannelName выводит имя канала тикета так же, как исходная панель:
// order-<user>-<MM-DD> для новых заказов, check-referral для рефералов,
// иначе <категория>-<user>.
func ChannelName(ticketType models.TicketType, userName string, now time.Time) string {
	user := strings.ToLower(userName)
	switch ticketType {
	case models.TicketTypeNewOrder:
		return fmt.Sprintf("order-%s-%s", user, now.Format("01-02"))
	case models.TicketTypeCheckReferral:
		return "check-referral"
	default:
		slug := strings.ReplaceAll(strings.ToLower(string(ticketType)), " ", "-")
		return fmt.Sprintf("%s-%s", slug, user)
	}
}
