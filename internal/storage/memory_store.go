package storage

import (
	"sync"

	"github.com/KennethC12/Ticketbot/internal/models"
)

// MemoryStore — хранилище в памяти для тестов. Снимки копируются
// на входе и выходе, чтобы вызывающий не делил память с хранилищем.
type MemoryStore struct {
	mu      sync.Mutex
	tickets TicketSnapshot
	status  StatusSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets: TicketSnapshot{},
		status:  StatusSnapshot{},
	}
}

func (s *MemoryStore) LoadTickets() (TicketSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTickets(s.tickets), nil
}

func (s *MemoryStore) SaveTickets(snapshot TicketSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = copyTickets(snapshot)
	return nil
}

func (s *MemoryStore) LoadStatus() (StatusSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyStatus(s.status), nil
}

func (s *MemoryStore) SaveStatus(snapshot StatusSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = copyStatus(snapshot)
	return nil
}

func copyTickets(src TicketSnapshot) TicketSnapshot {
	dst := TicketSnapshot{}
	for guildID, channels := range src {
		g := map[string]*models.Ticket{}
		for channelID, t := range channels {
			c := *t
			if t.ClosedAt != nil {
				closedAt := *t.ClosedAt
				c.ClosedAt = &closedAt
			}
			g[channelID] = &c
		}
		dst[guildID] = g
	}
	return dst
}

func copyStatus(src StatusSnapshot) StatusSnapshot {
	dst := StatusSnapshot{}
	for guildID, st := range src {
		c := *st
		dst[guildID] = &c
	}
	return dst
}
