package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/veissa/tiredOfLife/internal/storage"
	"github.com/veissa/tiredOfLife/pkg/logger"
)

const sweepTimeout = 5 * time.Minute

// ImageReferenceSource lists upload names still referenced by stored records.
type ImageReferenceSource interface {
	ListImageReferences() ([]string, error)
}

// UploadSweepScheduler deletes stored uploads that no producer or product
// references any more, once they are older than the grace period.
type UploadSweepScheduler struct {
	cron     *cron.Cron
	store    storage.FileStorage
	sources  []ImageReferenceSource
	schedule string
	grace    time.Duration
	now      func() time.Time
}

func NewUploadSweepScheduler(store storage.FileStorage, schedule string, grace time.Duration, sources ...ImageReferenceSource) *UploadSweepScheduler {
	return &UploadSweepScheduler{
		cron:     cron.New(),
		store:    store,
		sources:  sources,
		schedule: schedule,
		grace:    grace,
		now:      time.Now,
	}
}

// Start registers the sweep on the cron schedule and starts the runner.
func (s *UploadSweepScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		logger.Info("Starting scheduled upload sweep")
		removed, err := s.RunOnce(ctx)
		if err != nil {
			logger.Error("Upload sweep failed", err)
			return
		}
		logger.Info("Upload sweep finished", logger.Fields{"removed": removed})
	})
	if err != nil {
		logger.Error("Failed to add cron job for upload sweep", err, logger.Fields{
			"schedule": s.schedule,
		})
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	logger.Info("Upload sweep scheduler started", logger.Fields{
		"schedule": s.schedule,
		"grace":    s.grace.String(),
	})
	return nil
}

// Stop waits for a running sweep to finish.
func (s *UploadSweepScheduler) Stop() {
	logger.Info("Stopping upload sweep scheduler")
	<-s.cron.Stop().Done()
	logger.Info("Upload sweep scheduler stopped")
}

// RunOnce performs one sweep and returns the number of files removed.
// Nothing is deleted when the references cannot be loaded.
func (s *UploadSweepScheduler) RunOnce(ctx context.Context) (int, error) {
	referenced := make(map[string]struct{})
	for _, src := range s.sources {
		names, err := src.ListImageReferences()
		if err != nil {
			return 0, fmt.Errorf("failed to load image references: %w", err)
		}
		for _, n := range names {
			referenced[n] = struct{}{}
		}
	}

	files, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list uploads: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, f := range files {
		if _, ok := referenced[f.Name]; ok {
			continue
		}
		if f.ModTime.After(cutoff) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := s.store.Delete(ctx, f.Name); err != nil {
			logger.Warn("Failed to delete orphaned upload", logger.Fields{
				"name":  f.Name,
				"error": err.Error(),
			})
			continue
		}
		logger.Debug("Deleted orphaned upload", logger.Fields{"name": f.Name})
		removed++
	}
	return removed, nil
}
