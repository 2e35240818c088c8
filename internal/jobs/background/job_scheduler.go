package background

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"tradedocs/internal/caching"
	"tradedocs/internal/repositories"
)

const (
	dashboardRefreshEvery = 5 * time.Minute
	trashSweepEvery       = 24 * time.Hour
	trashRetention        = 30 * 24 * time.Hour
	dashboardCountsTTL    = 10 * time.Minute
)

// JobScheduler manages the recurring background jobs: keeping the dashboard
// counts warm in the cache and sweeping old invoices out of the trash.
type JobScheduler struct {
	scheduler   gocron.Scheduler
	invoiceRepo repositories.InvoiceRepository
	cacheSvc    caching.CacheService
	log         *logrus.Logger
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(invoiceRepo repositories.InvoiceRepository, cacheSvc caching.CacheService, log *logrus.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		invoiceRepo: invoiceRepo,
		cacheSvc:    cacheSvc,
		log:         log,
		jobs:        make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	dashboardJob, err := js.scheduler.NewJob(
		gocron.DurationJob(dashboardRefreshEvery),
		gocron.NewTask(js.refreshDashboardCounts, context.Background()),
		gocron.WithName("dashboard-counts-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.log.WithError(err).Error("failed to create dashboard refresh job")
	} else {
		js.jobs["dashboard"] = dashboardJob
	}

	trashJob, err := js.scheduler.NewJob(
		gocron.DurationJob(trashSweepEvery),
		gocron.NewTask(js.sweepTrash, context.Background()),
		gocron.WithName("trash-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		js.log.WithError(err).Error("failed to create trash sweep job")
	} else {
		js.jobs["trash-sweep"] = trashJob
	}

	js.log.WithField("jobs", len(js.jobs)).Info("registered background jobs")
}

// refreshDashboardCounts recomputes the per-status invoice counts so the
// dashboard endpoint usually answers from cache.
func (js *JobScheduler) refreshDashboardCounts(ctx context.Context) {
	js.mu.Lock()
	defer js.mu.Unlock()

	counts, err := js.invoiceRepo.CountByStatus(ctx)
	if err != nil {
		js.log.WithError(err).Warn("dashboard counts refresh failed")
		return
	}
	if js.cacheSvc == nil {
		return
	}
	if err := js.cacheSvc.SetDashboardCounts(ctx, counts, dashboardCountsTTL); err != nil {
		js.log.WithError(err).Warn("failed to cache dashboard counts")
	}
}

// sweepTrash permanently deletes invoices that have sat in the trash past
// the retention window.
func (js *JobScheduler) sweepTrash(ctx context.Context) {
	js.mu.Lock()
	defer js.mu.Unlock()

	cutoff := time.Now().Add(-trashRetention)
	trashed, err := js.invoiceRepo.ListTrash(ctx, 200, 0)
	if err != nil {
		js.log.WithError(err).Warn("trash sweep failed to list invoices")
		return
	}

	purged := 0
	for _, invoice := range trashed {
		if invoice.UpdatedAt.After(cutoff) {
			continue
		}
		if err := js.invoiceRepo.Purge(ctx, invoice.ID); err != nil {
			js.log.WithError(err).WithField("invoice_id", invoice.ID).Warn("failed to purge trashed invoice")
			continue
		}
		purged++
	}
	if purged > 0 {
		js.log.WithField("purged", purged).Info("trash sweep completed")
	}
}
