package worker

// refresh.go
// Background goroutine that periodically rebuilds the fact snapshot from the
// operational sources. Replaces event listeners on the KV store: a full
// periodic rebuild keeps every derived table consistent with one generation.

import (
	"context"
	"time"

	"emesanalytics/internal/loader"

	"github.com/rs/zerolog/log"
)

// StartRefresh launches the periodic reload goroutine. It runs one load
// immediately so the service starts with data, then ticks every interval.
// It respects the context for graceful shutdown.
func StartRefresh(ctx context.Context, ld *loader.Service, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("intervalo", interval).Msg("refresh: started")
		recargar(ctx, ld)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("refresh: shutting down")
				return
			case <-ticker.C:
				recargar(ctx, ld)
			}
		}
	}()
}

func recargar(ctx context.Context, ld *loader.Service) {
	inicio := time.Now()
	snap, err := ld.ReloadAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("refresh: reload failed")
		return
	}
	log.Info().
		Uint64("generacion", snap.Generation).
		Dur("duracion", time.Since(inicio)).
		Msg("refresh: snapshot renovado")
}
