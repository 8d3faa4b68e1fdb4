package common

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
)

var Version = "v0.1.0"

var (
	Port          = flag.Int("port", 3000, "the listening port")
	PrintVersion  = flag.Bool("version", false, "print version and exit")
	PrintHelpFlag = flag.Bool("help", false, "print help and exit")
	LogDir        = flag.String("log-dir", "", "specify the log directory")
)

var (
	SQLitePath    = "data/abrino-storage.db"
	SessionSecret = "random_string"
	JWTSecret     = "random_string"
)

// Registration can be toggled at runtime through the options table; the
// env value is only the initial default.
var RegisterEnabled = true

var OptionMapRWMutex sync.RWMutex

var ItemsPerPage = 10

// Access tokens default to 7 days, magic links to 15 minutes.
var (
	AccessTokenExpiry = 7 * 24 * 60 // minutes
	MagicLinkExpiry   = 15          // minutes
)

var (
	RateLimitRequests = 100
	RateLimitWindow   = 60 // seconds
)

var (
	TelegramBotToken   = os.Getenv("TELEGRAM_BOT_TOKEN")
	TelegramAdminID, _ = strconv.ParseInt(os.Getenv("TELEGRAM_ADMIN_USER_ID"), 10, 64)
)

var (
	AdminEmail    = os.Getenv("ADMIN_EMAIL")
	AdminPassword = os.Getenv("ADMIN_PASSWORD")
	FrontendURL   = GetEnvOrDefault("FRONTEND_URL", "http://localhost:3000")
)

func init() {
	if os.Getenv("SESSION_SECRET") != "" {
		SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if os.Getenv("JWT_SECRET") != "" {
		JWTSecret = os.Getenv("JWT_SECRET")
	}
	if os.Getenv("SQLITE_PATH") != "" {
		SQLitePath = os.Getenv("SQLITE_PATH")
	}
	if os.Getenv("ENABLE_REGISTRATION") != "" {
		RegisterEnabled, _ = strconv.ParseBool(os.Getenv("ENABLE_REGISTRATION"))
	}
	if os.Getenv("RATE_LIMIT_REQUESTS") != "" {
		RateLimitRequests, _ = strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS"))
	}
	if os.Getenv("RATE_LIMIT_WINDOW") != "" {
		RateLimitWindow, _ = strconv.Atoi(os.Getenv("RATE_LIMIT_WINDOW"))
	}
	if err := loadConfigFile(); err != nil {
		SysError("failed to load config file: " + err.Error())
	}
}

func GetEnvOrDefault(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func PrintHelp() {
	fmt.Println("Abrino Storage " + Version)
	fmt.Println("Store files on Telegram, browse them over HTTP or chat.")
	fmt.Println()
	fmt.Println("Usage: abrino-storage [--port <port>] [--log-dir <log dir>] [--version] [--help]")
}
