package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	APIBaseURL     string
	DataPath       string
	DatabasePath   string
	RequestTimeout time.Duration

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	apiBaseURL := os.Getenv("FRIDGE_API_URL")
	if apiBaseURL == "" {
		return nil, fmt.Errorf("FRIDGE_API_URL environment variable not set")
	}

	dataPath := os.Getenv("FRIDGE_DATA_PATH")
	if dataPath == "" {
		dataPath = "./data"
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("FRIDGE_REQUEST_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid FRIDGE_REQUEST_TIMEOUT_SECONDS value: %q", raw)
		}
		timeout = time.Duration(seconds) * time.Second
	}

	// Telegram Config (optional for the CLI, required for the bot)
	allowedIDs, err := parseIDList(os.Getenv("TELEGRAM_ALLOW_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_IDS value: %w", err)
	}

	var adminID int64
	if raw := os.Getenv("TELEGRAM_ADMIN_ID"); raw != "" {
		adminID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_ID value: %q", raw)
		}
	}

	return &Config{
		APIBaseURL:             apiBaseURL,
		DataPath:               dataPath,
		DatabasePath:           filepath.Join(dataPath, "fridge.db"),
		RequestTimeout:         timeout,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
	}, nil
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not a user id: %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
