package storage

import "github.com/KennethC12/Ticketbot/internal/models"

// TicketSnapshot — полный снимок тикетов: guildID -> channelID -> Ticket.
type TicketSnapshot = map[string]map[string]*models.Ticket

// StatusSnapshot — полный снимок статусов: guildID -> ServerStatus.
type StatusSnapshot = map[string]*models.ServerStatus

// Store — хранилище двух агрегатов. Чтение возвращает полный снимок
// (отсутствующий или пустой источник — пустая мапа, не ошибка),
// запись целиком заменяет прежнее содержимое.
type Store interface {
	LoadTickets() (TicketSnapshot, error)
	SaveTickets(TicketSnapshot) error
	LoadStatus() (StatusSnapshot, error)
	SaveStatus(StatusSnapshot) error
}
