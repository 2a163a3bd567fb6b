package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KennethC12/Ticketbot/internal/config"
	"github.com/KennethC12/Ticketbot/internal/models"
	"github.com/KennethC12/Ticketbot/internal/service"
)

type WebHandlers struct {
	tickets *service.TicketService
	status  *service.StatusService
	config  *config.Config
}

func NewWebHandlers(tickets *service.TicketService, status *service.StatusService, cfg *config.Config) *WebHandlers {
	return &WebHandlers{
		tickets: tickets,
		status:  status,
		config:  cfg,
	}
}

// Middleware для проверки админских прав: заголовок X-Admin-ID
// сверяется со списком ADMIN_IDS из конфига.
func (h *WebHandlers) AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID := c.GetHeader("X-Admin-ID")
		if adminID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if !h.config.IsAdmin(adminID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Set("admin_id", adminID)
		c.Next()
	}
}

// Все тикеты, опционально отфильтрованные по статусу (?status=open|closed).
func (h *WebHandlers) GetTickets(c *gin.Context) {
	snapshot, err := h.tickets.AllTickets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tickets"})
		return
	}

	status := c.Query("status")
	if status != "" {
		filtered := map[string]map[string]*models.Ticket{}
		for guildID, channels := range snapshot {
			for channelID, t := range channels {
				if string(t.Status) != status {
					continue
				}
				if filtered[guildID] == nil {
					filtered[guildID] = map[string]*models.Ticket{}
				}
				filtered[guildID][channelID] = t
			}
		}
		snapshot = filtered
	}

	c.JSON(http.StatusOK, gin.H{"tickets": snapshot})
}

// Тикеты одной гильдии.
func (h *WebHandlers) GetGuildTickets(c *gin.Context) {
	tickets, err := h.tickets.GuildTickets(c.Param("guild"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tickets"})
		return
	}
	if tickets == nil {
		tickets = map[string]*models.Ticket{}
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// Статус гильдии (открыто/закрыто и текущий баннер).
func (h *WebHandlers) GetGuildStatus(c *gin.Context) {
	st, err := h.status.Status(c.Param("guild"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get status"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// Сводка по тикетам.
func (h *WebHandlers) GetStats(c *gin.Context) {
	snapshot, err := h.tickets.AllTickets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tickets"})
		return
	}

	var open, closed, submitted int
	for _, channels := range snapshot {
		for _, t := range channels {
			switch t.Status {
			case models.TicketStatusOpen:
				open++
			case models.TicketStatusClosed:
				closed++
			}
			if t.OrderSubmitted {
				submitted++
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"open_tickets":     open,
		"closed_tickets":   closed,
		"submitted_orders": submitted,
		"guilds":           len(snapshot),
	})
}
