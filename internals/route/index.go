// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	logsService "omrku_backend/internals/features/logs/service"
	mastersRoute "omrku_backend/internals/features/omr/masters/route"
	projectRoute "omrku_backend/internals/features/omr/projects/route"
	recordRoute "omrku_backend/internals/features/omr/records/route"
	reviewRoute "omrku_backend/internals/features/omr/review/route"
	reviewService "omrku_backend/internals/features/omr/review/service"
	scoreRoute "omrku_backend/internals/features/omr/scoring/route"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, audit *logsService.AuditSink, assignments *reviewService.AssignmentService) {
	// ===================== ADMIN (operasional pusat) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a")
	mastersRoute.MastersAdminRoutes(admin, db)
	projectRoute.ProjectAdminRoutes(admin, db, audit)
	recordRoute.RecordAdminRoutes(admin, db, audit)
	reviewRoute.ReviewAdminRoutes(admin, db, assignments)
	scoreRoute.ScoreAdminRoutes(admin, db, audit)

	// ===================== REVIEWER =====================
	log.Println("[INFO] Setting up REVIEWER group...")
	reviewer := app.Group("/api/u")
	reviewRoute.ReviewUserRoutes(reviewer, db, assignments)
}
