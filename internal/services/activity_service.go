package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tradedocs/internal/models"
	"tradedocs/internal/repositories"
)

// ActivityService records the audit trail shown on the dashboard. Recording
// is fire-and-forget: a failed insert is logged, never surfaced, so audit
// trouble cannot block document work.
type ActivityService interface {
	Record(ctx context.Context, action, details string)
	ListRecent(ctx context.Context, limit int) ([]*models.ActivityLog, error)
}

type activityService struct {
	repo repositories.ActivityRepository
	log  *logrus.Logger
}

func NewActivityService(repo repositories.ActivityRepository, log *logrus.Logger) ActivityService {
	return &activityService{repo: repo, log: log}
}

func (s *activityService) Record(ctx context.Context, action, details string) {
	entry := &models.ActivityLog{
		ID:        uuid.New(),
		Action:    action,
		CreatedAt: time.Now(),
	}
	if details != "" {
		entry.Details = &details
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.WithError(err).WithField("action", action).Warn("failed to record activity")
	}
}

func (s *activityService) ListRecent(ctx context.Context, limit int) ([]*models.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListRecent(ctx, limit)
}
