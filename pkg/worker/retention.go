package worker

import (
	"context"
	"time"

	"github.com/civicgrid/grievance-api/internal/repository"
	"github.com/civicgrid/grievance-api/pkg/logger"
	"github.com/civicgrid/grievance-api/pkg/metrics"
)

// RetentionWorker sweeps read notifications older than the retention
// window from both stores. Retention is kept out of the request path;
// this runs as its own binary.
type RetentionWorker struct {
	complaintRepo repository.ComplaintNotificationRepository
	commonRepo    repository.CommonNotificationRepository
	retentionDays int
	interval      time.Duration
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewRetentionWorker(
	complaintRepo repository.ComplaintNotificationRepository,
	commonRepo repository.CommonNotificationRepository,
	retentionDays int,
	interval time.Duration,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *RetentionWorker {
	return &RetentionWorker{
		complaintRepo: complaintRepo,
		commonRepo:    commonRepo,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger,
		metrics:       metrics,
	}
}

func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("retention worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("retention worker shutting down")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RetentionWorker) sweep(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)

	deleted, err := w.complaintRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error(err, "failed to sweep complaint notifications")
	} else if deleted > 0 {
		w.logger.Info("swept complaint notifications", "deleted", deleted)
		if w.metrics != nil {
			w.metrics.RetentionDeleted.WithLabelValues("complaint").Add(float64(deleted))
		}
	}

	deleted, err = w.commonRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error(err, "failed to sweep common notifications")
	} else if deleted > 0 {
		w.logger.Info("swept common notifications", "deleted", deleted)
		if w.metrics != nil {
			w.metrics.RetentionDeleted.WithLabelValues("common").Add(float64(deleted))
		}
	}
}
