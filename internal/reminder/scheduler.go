package reminder

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/VioletaSoft/salon-scheduler/internal/domain/appointment"
)

const dueSetKey = "reminders:due"

// Scheduler keeps pending appointment reminders in a redis sorted set scored
// by the reminder's due unix time. ZAdd overwrites the score for an existing
// member, so Reschedule is the same write as Schedule.
//
// Calls are fire-and-forget: they run after the booking transaction commits
// and failures are logged, never returned to the caller.
type Scheduler struct {
	rdb  *redis.Client
	log  *zap.Logger
	lead time.Duration
}

func NewScheduler(rdb *redis.Client, log *zap.Logger, lead time.Duration) *Scheduler {
	if lead <= 0 {
		lead = 24 * time.Hour
	}
	return &Scheduler{rdb: rdb, log: log, lead: lead}
}

func (s *Scheduler) Schedule(appointmentID uint, startTime time.Time) {
	due := startTime.Add(-s.lead)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.rdb.ZAdd(ctx, dueSetKey, &redis.Z{
		Score:  float64(due.Unix()),
		Member: member(appointmentID),
	}).Err()
	if err != nil {
		s.log.Warn("failed to schedule reminder",
			zap.Uint("appointment_id", appointmentID),
			zap.Error(err),
		)
	}
}

func (s *Scheduler) Reschedule(appointmentID uint, startTime time.Time) {
	s.Schedule(appointmentID, startTime)
}

func (s *Scheduler) Cancel(appointmentID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.rdb.ZRem(ctx, dueSetKey, member(appointmentID)).Err(); err != nil {
		s.log.Warn("failed to cancel reminder",
			zap.Uint("appointment_id", appointmentID),
			zap.Error(err),
		)
	}
}

// Run polls for due reminders until ctx is cancelled. Delivery here is the
// log line; a notification channel would hang off this loop.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.deliverDue(ctx, now)
		}
	}
}

func (s *Scheduler) deliverDue(ctx context.Context, now time.Time) {
	due, err := s.rdb.ZRangeByScore(ctx, dueSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		s.log.Warn("failed to read due reminders", zap.Error(err))
		return
	}

	for _, m := range due {
		if err := s.rdb.ZRem(ctx, dueSetKey, m).Err(); err != nil {
			s.log.Warn("failed to pop reminder", zap.String("member", m), zap.Error(err))
			continue
		}
		s.log.Info("reminder due", zap.String("appointment_id", m))
	}
}

func member(appointmentID uint) string {
	return strconv.FormatUint(uint64(appointmentID), 10)
}

var _ domain.ReminderScheduler = (*Scheduler)(nil)
