package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"kanban-board-api/internal/repository"
)

// retentionPeriod is how long responded invitations are kept before
// the cleanup job purges them
const retentionPeriod = 30 * 24 * time.Hour

// CleanupJob purges invitations that were accepted or declined long
// enough ago. Pending invitations are never touched.
type CleanupJob struct {
	invitationRepo repository.InvitationRepository
	logger         *zap.Logger
}

// NewCleanupJob creates a new CleanupJob instance
func NewCleanupJob(invitationRepo repository.InvitationRepository, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		invitationRepo: invitationRepo,
		logger:         logger,
	}
}

// Run executes the cleanup job. Satisfies cron.Job.
func (j *CleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-retentionPeriod)
	deleted, err := j.invitationRepo.DeleteRespondedBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to purge responded invitations", zap.Error(err))
		return
	}

	if deleted > 0 {
		j.logger.Info("Purged responded invitations",
			zap.Int64("count", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
