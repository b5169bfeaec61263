package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const snapshotTimeout = 10 * time.Minute

// SnapshotTaker - то, что планировщику нужно от DepreciationSnapshotService.
type SnapshotTaker interface {
	TakeSnapshots(ctx context.Context, date time.Time) (int, error)
}

// Scheduler запускает ночной снимок амортизации по cron-выражению (5 полей).
type Scheduler struct {
	cron      *cron.Cron
	snapshots SnapshotTaker
	schedule  string
	logger    *zap.Logger
	now       func() time.Time
}

func New(schedule string, snapshots SnapshotTaker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:      cron.New(),
		snapshots: snapshots,
		schedule:  schedule,
		logger:    logger,
		now:       time.Now,
	}
}

// Start регистрирует задачу и запускает cron. Неверное выражение - ошибка старта.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runSnapshot); err != nil {
		return fmt.Errorf("неверное расписание снимков амортизации %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("Планировщик запущен", zap.String("depreciation_cron", s.schedule))
	return nil
}

// Stop останавливает cron и ждёт завершения выполняемой задачи.
func (s *Scheduler) Stop() {
	s.logger.Info("Остановка планировщика")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	started := s.now()
	n, err := s.snapshots.TakeSnapshots(ctx, started)
	if err != nil {
		s.logger.Error("Ошибка снимка амортизации", zap.Error(err))
		return
	}
	s.logger.Info("Снимок амортизации выполнен", zap.Int("assets", n), zap.Duration("took", time.Since(started)))
}
