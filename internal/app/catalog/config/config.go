package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config содержит все настройки сервиса каталога
// Включает конфигурацию HTTP сервера, БД (PostgreSQL или SQLite), Redis, Kafka, JWT и логирования
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string `validate:"required"`
	Port string `validate:"required,numeric"`
}

// DatabaseConfig - настройки хранилища
// Driver переключает между PostgreSQL (прод) и SQLite (локальная разработка)
type DatabaseConfig struct {
	Driver     string `validate:"required,oneof=postgres sqlite"`
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// RedisConfig - настройки Redis для кеширования списка категорий
type RedisConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required,numeric"`
	Password string
	DB       int `validate:"gte=0,lte=15"`
}

// KafkaConfig - настройки Kafka для событий каталога
// В топик уходят события CATEGORY_* и PRODUCT_*
type KafkaConfig struct {
	Brokers []string `validate:"required,min=1"`
	Topic   string   `validate:"required"`
}

// JWTConfig - настройки выпуска и проверки JWT токенов
type JWTConfig struct {
	Secret string `validate:"required,min=16"`
}

// AuthConfig - единственный аккаунт сервиса
// PasswordHash - bcrypt хэш, сырой пароль в окружении не хранится
type AuthConfig struct {
	Username     string `validate:"required"`
	PasswordHash string `validate:"required"`
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level string `validate:"required,oneof=trace debug info warn error"`
}

// Load загружает конфигурацию из переменных окружения
// .env файл подхватывается если есть, его отсутствие не ошибка
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "catalogo"),
			Password:   getEnv("DB_PASSWORD", "catalogo"),
			DBName:     getEnv("DB_NAME", "catalogo"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "catalogo.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "catalog_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-secret-in-production"),
		},
		Auth: AuthConfig{
			Username: getEnv("AUTH_USERNAME", "admin"),
			// bcrypt хэш пароля "password", дефолт только для локальной разработки
			PasswordHash: getEnv("AUTH_PASSWORD_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("DB_HOST is required for postgres driver")
	}

	return cfg, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
