package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"botregistry/internal/api"
	"botregistry/internal/config"
	"botregistry/internal/registry"
	"botregistry/internal/storage"
	"botregistry/internal/websocket"
	"botregistry/pkg/utils"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load config", utils.Err(err))
	}

	// Инициализация логгера
	logger := utils.InitGlobalLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	defer logger.Sync()

	// Инициализация хранилища и реестра
	store := storage.NewStore(cfg.Storage.StateFile)
	reg, err := registry.New(store)
	if err != nil {
		logger.Fatal("failed to initialize registry", utils.Err(err))
	}
	logger.Info("registry loaded", utils.StateFile(store.Path()))

	// Инициализация WebSocket hub
	hub := websocket.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)
	reg.SetBroadcaster(hub)

	// Настройка HTTP роутера
	router := api.SetupRoutes(&api.Dependencies{
		Registry:       reg,
		Hub:            hub,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DefaultLimit:   cfg.Server.DefaultLimit,
	})

	// HTTP сервер
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		logger.Info("starting server", utils.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", utils.Err(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", utils.Err(err))
	}
	stopHub()

	logger.Info("server exited")
}
