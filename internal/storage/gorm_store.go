package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KennethC12/Ticketbot/internal/models"
)

// ticketRow — строка таблицы tickets: одна запись на (guild, channel).
type ticketRow struct {
	GuildID          string `gorm:"primaryKey;size:32"`
	ChannelID        string `gorm:"primaryKey;size:32"`
	UserID           string `gorm:"size:32;not null"`
	Type             string `gorm:"size:32;not null"`
	OrderLink        string
	CreatedAt        time.Time
	ClosedAt         *time.Time
	Status           string `gorm:"size:16;not null"`
	PreviewMessageID string `gorm:"size:32"`
	OrderSubmitted   bool
	AccountName      string
	PaymentMethods   string
	Tip              string
	DeliveryType     string
	DeliveryNotes    string
}

func (ticketRow) TableName() string { return "tickets" }

// statusRow — строка таблицы server_statuses: одна запись на гильдию.
type statusRow struct {
	GuildID   string `gorm:"primaryKey;size:32"`
	IsOpen    bool
	MessageID string `gorm:"size:32"`
	ChannelID string `gorm:"size:32"`
}

func (statusRow) TableName() string { return "server_statuses" }

// GormStore — реализация Store поверх Postgres. Семантика та же, что у
// FileStore: чтение собирает полный снимок, запись заменяет его целиком
// в одной транзакции.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&ticketRow{}, &statusRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) LoadTickets() (TicketSnapshot, error) {
	var rows []ticketRow
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}
	snapshot := TicketSnapshot{}
	for _, r := range rows {
		guild, ok := snapshot[r.GuildID]
		if !ok {
			guild = map[string]*models.Ticket{}
			snapshot[r.GuildID] = guild
		}
		guild[r.ChannelID] = &models.Ticket{
			UserID:           r.UserID,
			Type:             models.TicketType(r.Type),
			OrderLink:        r.OrderLink,
			CreatedAt:        r.CreatedAt,
			ClosedAt:         r.ClosedAt,
			Status:           models.TicketStatus(r.Status),
			PreviewMessageID: r.PreviewMessageID,
			OrderSubmitted:   r.OrderSubmitted,
			OrderDetails: models.OrderDetails{
				AccountName:    r.AccountName,
				PaymentMethods: r.PaymentMethods,
				Tip:            r.Tip,
				DeliveryType:   r.DeliveryType,
				DeliveryNotes:  r.DeliveryNotes,
			},
		}
	}
	return snapshot, nil
}

func (s *GormStore) SaveTickets(snapshot TicketSnapshot) error {
	rows := make([]ticketRow, 0)
	for guildID, channels := range snapshot {
		for channelID, t := range channels {
			rows = append(rows, ticketRow{
				GuildID:          guildID,
				ChannelID:        channelID,
				UserID:           t.UserID,
				Type:             string(t.Type),
				OrderLink:        t.OrderLink,
				CreatedAt:        t.CreatedAt,
				ClosedAt:         t.ClosedAt,
				Status:           string(t.Status),
				PreviewMessageID: t.PreviewMessageID,
				OrderSubmitted:   t.OrderSubmitted,
				AccountName:      t.OrderDetails.AccountName,
				PaymentMethods:   t.OrderDetails.PaymentMethods,
				Tip:              t.OrderDetails.Tip,
				DeliveryType:     t.OrderDetails.DeliveryType,
				DeliveryNotes:    t.OrderDetails.DeliveryNotes,
			})
		}
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ticketRow{}).Error; err != nil {
			return fmt.Errorf("clear tickets: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("save tickets: %w", err)
		}
		return nil
	})
}

func (s *GormStore) LoadStatus() (StatusSnapshot, error) {
	var rows []statusRow
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load status: %w", err)
	}
	snapshot := StatusSnapshot{}
	for _, r := range rows {
		snapshot[r.GuildID] = &models.ServerStatus{
			IsOpen:    r.IsOpen,
			MessageID: r.MessageID,
			ChannelID: r.ChannelID,
		}
	}
	return snapshot, nil
}

func (s *GormStore) SaveStatus(snapshot StatusSnapshot) error {
	rows := make([]statusRow, 0)
	for guildID, st := range snapshot {
		rows = append(rows, statusRow{
			GuildID:   guildID,
			IsOpen:    st.IsOpen,
			MessageID: st.MessageID,
			ChannelID: st.ChannelID,
		})
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&statusRow{}).Error; err != nil {
			return fmt.Errorf("clear status: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("save status: %w", err)
		}
		return nil
	})
}
