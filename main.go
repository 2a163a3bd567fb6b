package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KennethC12/Ticketbot/internal/bot"
	"github.com/KennethC12/Ticketbot/internal/config"
	"github.com/KennethC12/Ticketbot/internal/events"
	"github.com/KennethC12/Ticketbot/internal/service"
	"github.com/KennethC12/Ticketbot/internal/storage"
	"github.com/KennethC12/Ticketbot/internal/web"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DiscordBotToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN_TICKETS is required")
	}

	// Выбираем хранилище
	var store storage.Store
	switch cfg.StorageDriver {
	case "postgres":
		store, err = storage.NewGormStore(cfg.DSN())
	default:
		store, err = storage.NewFileStore(cfg.DataDir, cfg.TicketsFile, cfg.StatusFile)
	}
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	// Продюсер событий (no-op без KAFKA_BROKERS)
	producer := events.NewProducer(events.ParseBrokers(cfg.KafkaBrokers), cfg.KafkaTopic)
	defer producer.Close()

	// Адаптер платформы и сервисы
	adapter, err := bot.NewAdapter(cfg.DiscordBotToken)
	if err != nil {
		log.Fatalf("Failed to create discord adapter: %v", err)
	}
	ticketService := service.NewTicketService(store, adapter, producer, cfg.TicketCategory, cfg.CloseDelay)
	statusService := service.NewStatusService(store, adapter, producer, cfg.StatusChannelName)

	// Discord-фронтенд
	ticketBot := bot.NewBot(cfg, adapter, ticketService, statusService)
	if err := ticketBot.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}
	defer ticketBot.Stop()

	// Веб-админка (опционально)
	if cfg.EnableWebAdmin {
		server := web.NewServer(cfg, ticketService, statusService)
		go func() {
			if err := server.Start(); err != nil {
				log.Printf("Web server error: %v", err)
			}
		}()
	} else {
		log.Println("Web admin panel disabled.")
	}

	// Ждём сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")
}
