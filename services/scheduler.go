// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartMaintenanceScheduler runs the hourly cleanup of expired sessions.
func (s *AuthService) StartMaintenanceScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			purged, err := s.PurgeExpiredSessions()
			if err != nil {
				log.Printf("[Scheduler] session purge failed: %v", err)
				return
			}
			if purged > 0 {
				log.Printf("🧹 Purged %d expired sessions", purged)
			}
		}),
	)
}
