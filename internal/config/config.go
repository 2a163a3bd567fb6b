package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DiscordBotToken   string
	AdminIDs          []string
	StorageDriver     string // file | postgres
	DataDir           string
	TicketsFile       string
	StatusFile        string
	TicketCategory    string
	StatusChannelName string
	CloseDelay        time.Duration
	EnableWebAdmin    bool
	ServerPort        string
	KafkaBrokers      string
	KafkaTopic        string
	Database          DatabaseConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	var adminIDs []string
	if v := os.Getenv("ADMIN_IDS"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				adminIDs = append(adminIDs, id)
			}
		}
	}

	closeDelay := 10 * time.Second
	if v := os.Getenv("CLOSE_DELAY_SECONDS"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec >= 0 {
			closeDelay = time.Duration(sec) * time.Second
		}
	}

	return &Config{
		DiscordBotToken:   os.Getenv("DISCORD_BOT_TOKEN_TICKETS"),
		AdminIDs:          adminIDs,
		StorageDriver:     getEnv("STORAGE_DRIVER", "file"),
		DataDir:           getEnv("DATA_DIR", "."),
		TicketsFile:       getEnv("TICKETS_FILE", "tickets.json"),
		StatusFile:        getEnv("STATUS_FILE", "status.json"),
		TicketCategory:    getEnv("TICKET_CATEGORY_NAME", "Tickets"),
		StatusChannelName: getEnv("STATUS_CHANNEL_NAME", "order-status"),
		CloseDelay:        closeDelay,
		EnableWebAdmin:    getEnv("ENABLE_WEB_ADMIN", "false") == "true",
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		KafkaBrokers:      os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:        os.Getenv("KAFKA_TOPIC"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "ticket_bot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}, nil
}

// DSN собирает строку подключения для драйвера postgres.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name, c.Database.SSLMode)
}

// IsAdmin проверяет, входит ли пользователь в список админов из конфига.
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
