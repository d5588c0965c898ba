package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/screenhall/roomctl/internal/adapters/http"
	"github.com/screenhall/roomctl/internal/chat"
	"github.com/screenhall/roomctl/internal/config"
	"github.com/screenhall/roomctl/internal/media"
	"github.com/screenhall/roomctl/internal/orchestrator"
	"github.com/screenhall/roomctl/internal/presence"
	"github.com/screenhall/roomctl/internal/registry"
	"github.com/screenhall/roomctl/internal/transport/ws"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	store, err := newChatStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up chat store")
	}

	reg := registry.New()
	presenceCtl := presence.New(cfg.GracePeriod)

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	mediaEngine, err := media.NewEngine(cfg.MinWorkers, maxWorkers, cfg.AnnouncedIP, func() {
		log.Fatal().Msg("media engine worker pool exhausted, terminating")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start media engine")
	}

	chatCoordinator := chat.NewCoordinator(store, chat.NewWordlistProfanity(nil), cfg.ChatHistoryLimit)

	hub := ws.NewHub()
	orch := orchestrator.New(reg, presenceCtl, mediaEngine, chatCoordinator, hub)
	wsServer := ws.NewServer(hub, orch)
	wsServer.ReadLimit = cfg.ReadLimit
	wsServer.PingPeriod = cfg.PingPeriod

	r := router.SetupRouter(cfg, wsServer)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("roomctl server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}

func newChatStore(ctx context.Context, cfg *config.Config) (chat.Store, error) {
	switch cfg.StorageKind {
	case "mongo":
		return chat.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return chat.NewJSONStore(cfg.StoragePath)
	}
}
