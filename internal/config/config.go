package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string // пусто - история игр отключена
	JWTSecret   string // пусто - тикеты не нужны, id выдаёт сервер

	RedisAddr     string // пусто - снапшоты комнат в памяти
	RedisPassword string
	RedisDB       int

	AllowedOrigin string
	StaticDir     string

	LogLevel string
	LogJSON  bool

	// HTTP API limits, 0 requests turns limiting off
	APIRateLimit  int
	APIRateWindow time.Duration

	SendBuffer   int
	RoomMaxIdle  time.Duration
	RoomSweep    time.Duration
	HistoryLimit int
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:       envString("APP_PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0, 0),
		AllowedOrigin: strings.TrimRight(os.Getenv("ALLOWED_ORIGIN"), "/"),
		StaticDir:     envString("STATIC_DIR", "public"),
		LogLevel:      envString("LOG_LEVEL", "info"),
		LogJSON:       os.Getenv("LOG_JSON") == "true",
		APIRateLimit:  envInt("API_RATE_LIMIT", 60, 0),
		APIRateWindow: time.Duration(envInt("API_RATE_WINDOW_SECONDS", 60, 1)) * time.Second,
		SendBuffer:    envInt("SEND_BUFFER", 256, 1),
		RoomMaxIdle:   time.Duration(envInt("ROOM_MAX_IDLE_MINUTES", 60, 1)) * time.Minute,
		RoomSweep:     time.Duration(envInt("ROOM_SWEEP_SECONDS", 300, 1)) * time.Second,
		HistoryLimit:  envInt("HISTORY_LIMIT", 20, 1),
	}
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt reads an integer of at least lowest. Unset, malformed and
// smaller values give def.
func envInt(key string, def, lowest int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lowest {
		return def
	}
	return n
}
