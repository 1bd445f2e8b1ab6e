package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"duel/config"
	"duel/lobby"
	"duel/network"
	"duel/observability"
)

func main() {
	configPath := flag.String("config", "", "optional TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, "duel")
	if err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}
	gin.SetMode(gin.ReleaseMode)

	l := lobby.New(lobby.Options{
		RequestTimeout: cfg.RequestTimeout,
		GracePeriod:    cfg.GracePeriod,
		Logger:         logger,
	})
	go l.Run()
	defer l.Stop()

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: network.NewRouter(l, network.RouterConfig{
			CORSOrigins: cfg.CORSOrigins,
			StaticDir:   cfg.StaticDir,
			SendBuffer:  cfg.SendBuffer,
			Logger:      logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("server stopped")
}
