package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emesanalytics/internal/calendar"
	"emesanalytics/internal/config"
	"emesanalytics/internal/infra"
	"emesanalytics/internal/loader"
	"emesanalytics/internal/repository"
	"emesanalytics/internal/router"
	"emesanalytics/internal/store"
	"emesanalytics/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.FestivosArchivo != "" {
		if err := cargarFestivos(cfg.FestivosArchivo); err != nil {
			log.Fatal().Err(err).Str("archivo", cfg.FestivosArchivo).Msg("failed to load holiday table")
		}
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fbdb, err := infra.NewFirebaseDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to firebase")
	}

	st := store.New()
	ld := loader.New(
		repository.NewFirebaseRepository(fbdb),
		repository.NewCompraRepository(db),
		st,
	)

	// First load plus the periodic refresh run in the background; endpoints
	// serve the empty generation until the first snapshot lands.
	worker.StartRefresh(ctx, ld, time.Duration(cfg.RecargaIntervaloMin)*time.Minute)

	r := router.New(cfg, db, rdb, st, ld)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("emesanalytics listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// cargarFestivos replaces the built-in holiday table with one date per line,
// YYYY-MM-DD; blank lines and # comments are ignored.
func cargarFestivos(ruta string) error {
	f, err := os.Open(ruta)
	if err != nil {
		return err
	}
	defer f.Close()

	var fechas []time.Time
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		linea := sc.Text()
		if linea == "" || linea[0] == '#' {
			continue
		}
		t, err := time.Parse("2006-01-02", linea)
		if err != nil {
			return fmt.Errorf("festivo invalido %q: %w", linea, err)
		}
		fechas = append(fechas, t)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	calendar.SetFestivos(fechas)
	log.Info().Int("festivos", len(fechas)).Msg("holiday table overridden")
	return nil
}
