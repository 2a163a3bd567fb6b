package web

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KennethC12/Ticketbot/internal/config"
	"github.com/KennethC12/Ticketbot/internal/service"
)

// Server — веб-админка только для чтения: тикеты, статусы, сводка.
type Server struct {
	router   *gin.Engine
	handlers *WebHandlers
	config   *config.Config
}

func NewServer(cfg *config.Config, tickets *service.TicketService, status *service.StatusService) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	handlers := NewWebHandlers(tickets, status, cfg)

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		admin := api.Group("/admin")
		admin.Use(handlers.AdminAuthMiddleware())
		{
			admin.GET("/tickets", handlers.GetTickets)
			admin.GET("/tickets/:guild", handlers.GetGuildTickets)
			admin.GET("/status/:guild", handlers.GetGuildStatus)
			admin.GET("/stats", handlers.GetStats)
		}
	}

	return &Server{
		router:   router,
		handlers: handlers,
		config:   cfg,
	}
}

func (s *Server) Start() error {
	log.Printf("Starting web server on port %s", s.config.ServerPort)
	return s.router.Run(":" + s.config.ServerPort)
}

// requestLogger присваивает запросу ID и пишет строку доступа.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		log.Printf("web: %s %s %d %s request_id=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), requestID)
	}
}
