// file: internals/features/omr/review/scheduler/assignment_reaper.go
package scheduler

import (
	"context"
	"log"
	"time"

	service "omrku_backend/internals/features/omr/review/service"
)

// StartAssignmentReaperScheduler menjalankan sweep ReleaseExpired periodik.
// Lease yang ditinggal reviewer self-heal lewat sini: flag-nya balik ke pool.
func StartAssignmentReaperScheduler(assignments *service.AssignmentService, interval time.Duration) {
	if interval <= 0 {
		interval = 1 * time.Minute
	}
	go func() {
		for {
			released, err := assignments.ReleaseExpired(context.Background())
			if err != nil {
				log.Printf("[REAPER] sweep gagal: %v", err)
			} else if released > 0 {
				log.Printf("[REAPER] %d assignment kadaluarsa dilepas", released)
			}
			time.Sleep(interval)
		}
	}()
}
