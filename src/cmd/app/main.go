package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"dispatch-service/src/internal/config"
	"dispatch-service/src/internal/usecase"
	"dispatch-service/src/pkg/log"
)

func main() {

	viperConfig := config.NewViper()
	viperConfig.SetDefault("log.level", "DEBUG")
	viperConfig.SetDefault("app.name", "DISPATCH_SERVICE")
	viperConfig.SetDefault("web.port", 8080)
	viperConfig.SetDefault("asynq.concurrency", 5)
	viperConfig.SetDefault("order.otp_ttl_minutes", 15)
	viperConfig.SetDefault("dispatch.max_radius_km", 25)
	viperConfig.SetDefault("dispatch.fallback_multiplier", 1.3)
	viperConfig.SetDefault("ledger.commission_rate_pct", 20)
	viperConfig.SetDefault("fare.min_fare", 800)
	viperConfig.SetDefault("fare.short_rate", 100)
	viperConfig.SetDefault("fare.medium_rate", 80)
	viperConfig.SetDefault("fare.long_rate", 60)
	viperConfig.SetDefault("fare.short_max_km", 5)
	viperConfig.SetDefault("fare.medium_max_km", 15)
	log.InitLogger(viperConfig)
	logger := log.GetLogger()

	config.LoadRedisConfig(viperConfig)
	db := config.NewDatabase(viperConfig, logger)
	redisClient := config.NewRedis()
	producer := config.NewKafkaProducer(viperConfig, logger)
	validate := config.NewValidator(viperConfig)
	app := config.NewFiber(viperConfig)

	geoService, err := config.NewGeoService(viperConfig)
	if err != nil {
		logger.Error("main", fmt.Sprintf("geoservice unavailable: %v", err), "main", "")
	}

	asynqClient := config.NewAsynqClient(viperConfig)
	asynqServer, asynqMux := config.NewAsynqServer(viperConfig)

	config.Bootstrap(&config.BootstrapConfig{
		DB:          db,
		App:         app,
		Log:         logger,
		Validate:    validate,
		Config:      viperConfig,
		Producer:    producer,
		Redis:       redisClient,
		Geoservice:  geoService,
		AsynqClient: asynqClient,
		Async:       asynqMux,
	})

	go func() {
		if err := asynqServer.Run(asynqMux); err != nil {
			logger.Error("main", fmt.Sprintf("asynq server stopped: %v", err), "main", "")
		}
	}()

	scheduler := config.NewAsynqScheduler(viperConfig, logger,
		usecase.TaskPayoutGenerate, usecase.TaskPayoutRemind, usecase.TaskPayoutBlock)
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("main", fmt.Sprintf("scheduler stopped: %v", err), "main", "")
		}
	}()

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	go func() {
		<-quit
		logger.Info("main", "Server dispatch-service is shutting down...", "graceful", "")

		_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		scheduler.Shutdown()
		asynqServer.Shutdown()
		if err := app.Shutdown(); err != nil {
			logger.Error("main", fmt.Sprintf("Error during shutdown: %v", err), "graceful", "")
		}
		close(done)
	}()

	webPort := viperConfig.GetInt("web.port")
	if err := app.Listen(fmt.Sprintf(":%d", webPort)); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to start server: %v", err), "main", "")
	}

	<-done
	logger.Info("main", fmt.Sprintf("Server %s stopped", viperConfig.GetString("app.name")), "graceful", "")
}
