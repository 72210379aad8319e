package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"catalogo/internal/app/catalog/config"
	"catalogo/internal/app/catalog/entity"
	"catalogo/internal/app/catalog/handler"
	"catalogo/internal/app/catalog/repository"
	"catalogo/internal/app/catalog/service"
	"catalogo/internal/app/catalog/util"
	"catalogo/pkg/logger"
)

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	// Загружаем конфигурацию из переменных окружения (.env опционально)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// === ИНИЦИАЛИЗАЦИЯ ЛОГГЕРА ===
	logger.Init("catalogo", cfg.Log.Level)

	// === ПОДКЛЮЧЕНИЕ К БД ===
	// PostgreSQL в проде, SQLite для локальной разработки
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("Successfully connected to database")

	// === МИГРАЦИЯ СХЕМЫ ===
	if err := db.AutoMigrate(&entity.Category{}, &entity.Product{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis используется для кеширования списка категорий
	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Successfully connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA PRODUCER ===
	// Producer отправляет события CATEGORY_* и PRODUCT_* в топик каталога
	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Successfully initialized Kafka producer")

	// === ИНИЦИАЛИЗАЦИЯ СЛОЯ РЕПОЗИТОРИЕВ ===
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// === ИНИЦИАЛИЗАЦИЯ БИЗНЕС-ЛОГИКИ ===
	// Service layer координирует валидацию, репозитории, кеш и Kafka
	catalogService := service.NewCatalogService(
		categoryRepo,
		productRepo,
		reportRepo,
		redisClient,
		kafkaProducer,
	)

	// === ИНИЦИАЛИЗАЦИЯ HTTP HANDLERS ===
	jwtManager := util.NewJWTManager(cfg.JWT.Secret, 2*time.Hour)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	authHandler := handler.NewAuthHandler(jwtManager, cfg.Auth.Username, cfg.Auth.PasswordHash)
	authMiddleware := handler.NewAuthMiddleware(jwtManager)

	// === НАСТРОЙКА МАРШРУТОВ ===
	router := handler.SetupRoutes(catalogHandler, authHandler, authMiddleware)

	// === НАСТРОЙКА HTTP СЕРВЕРА ===
	// Production-ready настройки с таймаутами
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// === ЗАПУСК HTTP СЕРВЕРА ===
	// Запускаем сервер в отдельной горутине для graceful shutdown
	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting catalog service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// === GRACEFUL SHUTDOWN ===
	// Ожидаем сигнала завершения (SIGINT или SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down catalog service...")

	// Даем серверу 30 секунд на завершение текущих запросов
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Catalog service stopped gracefully")
}

// connectDB открывает gorm соединение по выбранному драйверу
// TranslateError обязателен: репозитории различают нарушение уникального
// индекса через gorm.ErrDuplicatedKey
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	if cfg.Driver == "sqlite" {
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// SQLite по умолчанию не проверяет внешние ключи
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return db, nil
	}

	// Повторные попытки на случай запуска в Docker, когда PostgreSQL еще не готов
	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			return db, nil
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database, retrying")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
