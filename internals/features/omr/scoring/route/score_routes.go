// file: internals/features/omr/scoring/route/score_routes.go
package route

import (
	logsService "omrku_backend/internals/features/logs/service"
	scoreController "omrku_backend/internals/features/omr/scoring/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Admin routes: hitung & lihat skor.
Mount contoh: ScoreAdminRoutes(app.Group("/api/a"), db, audit)
*/
func ScoreAdminRoutes(r fiber.Router, db *gorm.DB, audit *logsService.AuditSink) {
	ctl := scoreController.NewScoreController(db, audit)

	scores := r.Group("/scores")
	scores.Post("/compute", ctl.ComputeProject) // POST /api/a/scores/compute?project_id=
	scores.Get("/:rollNumber", ctl.GetScore)    // GET  /api/a/scores/:rollNumber?project_id=&course_code=
}
