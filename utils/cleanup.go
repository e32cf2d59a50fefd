package utils

import (
	"context"
	"time"
)

// UploadPurger removes uploads created before a cutoff.
type UploadPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// StartUploadCleaner launches a goroutine that deletes uploads older than retention every interval.
// It returns when ctx is cancelled; the returned channel is closed once the goroutine exits.
func StartUploadCleaner(ctx context.Context, interval, retention time.Duration, purger UploadPurger) <-chan struct{} {
	if interval <= 0 {
		interval = time.Hour
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				PurgeUploads(ctx, retention, purger)
			}
		}
	}()
	return done
}

// PurgeUploads runs one retention pass.
func PurgeUploads(ctx context.Context, retention time.Duration, purger UploadPurger) {
	n, err := purger.DeleteOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		Sugar.Warnf("upload cleaner failed: %v", err)
		return
	}
	if n > 0 {
		Sugar.Infof("upload cleaner removed %d uploads", n)
	}
}
