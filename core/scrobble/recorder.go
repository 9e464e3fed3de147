package scrobble

import (
	"context"
	"fmt"
	"sync"
	"time"

	"melisma/logger"
	"melisma/repository"

	"github.com/google/uuid"
)

const queueSize = 256

type playEvent struct {
	trackExternalID uuid.UUID
	playedAt        time.Time
}

// Recorder accepts play submissions on the streaming path and persists them
// from a background worker. Submissions are fire-and-forget: a full queue or
// a failed insert is logged and dropped, never surfaced to the stream.
type Recorder struct {
	repo  repository.PlayRepository
	queue chan playEvent
	wg    sync.WaitGroup
}

// NewRecorder creates a Recorder and starts its worker.
func NewRecorder(repo repository.PlayRepository) *Recorder {
	r := &Recorder{
		repo:  repo,
		queue: make(chan playEvent, queueSize),
	}
	r.wg.Add(1)
	go r.worker()
	return r
}

// RecordPlay enqueues one play. It never blocks the caller.
func (r *Recorder) RecordPlay(_ context.Context, trackExternalID uuid.UUID, playedAt time.Time) error {
	select {
	case r.queue <- playEvent{trackExternalID: trackExternalID, playedAt: playedAt}:
		return nil
	default:
		return fmt.Errorf("play queue full, dropping play for track %s", trackExternalID)
	}
}

// Close drains the queue and stops the worker.
func (r *Recorder) Close() {
	close(r.queue)
	r.wg.Wait()
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for ev := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := r.repo.InsertPlayByExternalID(ctx, ev.trackExternalID, ev.playedAt)
		cancel()
		if err != nil {
			logger.Warn("Failed to persist play",
				logger.String("trackExternalId", ev.trackExternalID.String()),
				logger.ErrorField(err))
		}
	}
}
