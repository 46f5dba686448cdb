package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	handler "github.com/Wyydra/duet/internal/adapter/driving/http"
	"github.com/Wyydra/duet/internal/config"
	"github.com/Wyydra/duet/internal/core/service"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	l := config.NewLogger(cfg)

	signaling := service.NewSignalingService()
	h := handler.NewHandler(signaling, cfg)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: h.NewRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return signaling.Run(ctx)
	})

	g.Go(func() error {
		l.Info().Str("addr", cfg.ListenAddr).Int("ice_servers", len(cfg.ICEServers)).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		l.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("Server forced to shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Fatal().Err(err).Msg("Server failed")
	}
	l.Info().Msg("Server exited")
}
