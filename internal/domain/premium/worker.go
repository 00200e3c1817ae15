package premium

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Worker periodically flips stale premium flags. It is an advisory janitor:
// activation checks always compare end_time to the clock, so a late or
// missed sweep never extends a placement.
type Worker struct {
	svc      *Service
	interval time.Duration
	stopCh   chan struct{}
}

// NewWorker creates a new premium expiry worker
func NewWorker(svc *Service, interval time.Duration) *Worker {
	if interval == 0 {
		interval = 1 * time.Hour
	}
	return &Worker{
		svc:      svc,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background worker
func (w *Worker) Start() {
	log.Info().Dur("interval", w.interval).Msg("Starting premium expiry worker...")
	go w.loop()
}

// Stop gracefully stops the background worker
func (w *Worker) Stop() {
	log.Info().Msg("Stopping premium expiry worker...")
	close(w.stopCh)
}

func (w *Worker) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once immediately on startup
	w.sweep()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopCh:
			return
		}
	}
}

func (w *Worker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, listings, err := w.svc.Sweep(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire premium records")
		return
	}

	if records > 0 || listings > 0 {
		log.Info().
			Int64("records", records).
			Int64("listings", listings).
			Msg("Expired premium placements")
	}
}
