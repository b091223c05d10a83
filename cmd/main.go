package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/franciscosanchezn/taist-api/docs" // Import generated docs
	"github.com/franciscosanchezn/taist-api/internal/config"
	"github.com/franciscosanchezn/taist-api/internal/controllers"
	"github.com/franciscosanchezn/taist-api/internal/database"
	"github.com/franciscosanchezn/taist-api/internal/integrations"
	"github.com/franciscosanchezn/taist-api/internal/middleware"
	"github.com/franciscosanchezn/taist-api/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// closers run on shutdown in reverse order.
var closers []func() error

// @title Taist API
// @version 1.0
// @description Marketplace API for home chefs and their customers
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name apikey
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()
	if configuration.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	db := setupDatabase(configuration)

	ctx := context.Background()
	deps := server.Deps{
		DB:        db,
		Config:    configuration,
		Photos:    setupPhotos(configuration),
		Codes:     setupCodes(ctx, configuration),
		SMS:       integrations.LogSMS{},
		Assistant: setupAssistant(ctx, configuration),
		Payments:  setupPayments(configuration),
		Events:    setupEvents(configuration),
	}
	router := server.New(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%v:%d", configuration.Host, configuration.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			log.WithError(err).Warn("Failed to close integration")
		}
	}
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger sets every package logger to the APP_ENV level
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	level := config.LogLevelFor(config.GetEnvWithDefault("APP_ENV", "development"))
	log.SetLevel(level)
	controllers.SetLogLevel(level)
	database.SetLogLevel(level)
	integrations.SetLogLevel(level)
	middleware.SetLogLevel(level)
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects, migrates the schema and seeds the reference tables
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		URL:      conf.DatabaseURL,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))

	seed, err := database.LoadSeed(conf.SeedFile)
	checkPanicErr(err)
	checkPanicErr(database.Seed(db, seed))
	return db
}

func setupPhotos(conf *config.Config) integrations.PhotoStore {
	photos, err := integrations.NewCloudinaryPhotos(conf.CloudinaryURL, conf.CloudinaryFolder)
	if err == nil {
		return photos
	}
	logFallback("cloudinary", err, "storing photos in "+conf.UploadDir)
	return integrations.DiskPhotos{Dir: conf.UploadDir, BaseURL: conf.PublicURL + "/uploads/"}
}

func setupCodes(ctx context.Context, conf *config.Config) integrations.CodeStore {
	codes, err := integrations.NewRedisCodes(ctx, conf.RedisAddr, conf.RedisPassword, conf.RedisDB)
	if err == nil {
		closers = append(closers, codes.Close)
		return codes
	}
	logFallback("redis", err, "keeping phone codes in memory")
	return integrations.NewMemoryCodes()
}

func setupAssistant(ctx context.Context, conf *config.Config) integrations.MenuAssistant {
	gemini, err := integrations.NewGemini(ctx, conf.GeminiAPIKey, conf.GeminiModel)
	if err == nil {
		closers = append(closers, gemini.Close)
		return integrations.NewAssistant(gemini)
	}
	logFallback("gemini", err, "menu writing help disabled")
	return integrations.DisabledAssistant{}
}

func setupPayments(conf *config.Config) integrations.PaymentMethods {
	payments, err := integrations.NewStripePayments(conf.StripeSecretKey)
	if err == nil {
		return payments
	}
	logFallback("stripe", err, "no saved cards will be reported")
	return integrations.NoPayments{}
}

func setupEvents(conf *config.Config) integrations.Publisher {
	publisher, err := integrations.NewRabbitPublisher(conf.RabbitMQURL)
	if err == nil {
		closers = append(closers, publisher.Close)
		return publisher
	}
	logFallback("rabbitmq", err, "logging events instead")
	return integrations.LogPublisher{}
}

func logFallback(name string, err error, fallback string) {
	entry := log.WithFields(log.Fields{"integration": name, "fallback": fallback})
	if errors.Is(err, integrations.ErrDisabled) {
		entry.Info("Integration not configured")
		return
	}
	entry.WithError(err).Warn("Integration unavailable")
}
