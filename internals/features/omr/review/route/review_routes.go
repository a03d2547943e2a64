// file: internals/features/omr/review/route/review_routes.go
package route

import (
	reviewController "omrku_backend/internals/features/omr/review/controller"
	reviewService "omrku_backend/internals/features/omr/review/service"
	middlewares "omrku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Reviewer routes: request lease, resolve flag, lihat antrian.
Mount contoh: ReviewUserRoutes(app.Group("/api/u"), db, assignments)
*/
func ReviewUserRoutes(r fiber.Router, db *gorm.DB, assignments *reviewService.AssignmentService) {
	ctl := reviewController.NewReviewController(db, assignments)

	asg := r.Group("/assignments")
	asg.Post("/request", middlewares.AssignmentRateLimiter(), ctl.RequestAssignment) // POST /api/u/assignments/request
	asg.Post("/:id/resolve", ctl.ResolveFlag)                                        // POST /api/u/assignments/:id/resolve

	flags := r.Group("/flags")
	flags.Get("/list", ctl.ListFlags) // GET /api/u/flags/list?project_id=&field=&scope=
}

/*
Admin routes: sweep manual + riwayat koreksi.
*/
func ReviewAdminRoutes(r fiber.Router, db *gorm.DB, assignments *reviewService.AssignmentService) {
	ctl := reviewController.NewReviewController(db, assignments)

	asg := r.Group("/assignments")
	asg.Post("/release-expired", ctl.ReleaseExpired) // POST /api/a/assignments/release-expired

	corr := r.Group("/corrections")
	corr.Get("/:barcode", ctl.CorrectionHistory) // GET /api/a/corrections/:barcode?project_id=
}
