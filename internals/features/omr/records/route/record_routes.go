// file: internals/features/omr/records/route/record_routes.go
package route

import (
	logsService "omrku_backend/internals/features/logs/service"
	recordController "omrku_backend/internals/features/omr/records/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Admin routes: ingest hasil ekstraksi + visibilitas operasional.
Mount contoh: RecordAdminRoutes(app.Group("/api/a"), db, audit)
*/
func RecordAdminRoutes(r fiber.Router, db *gorm.DB, audit *logsService.AuditSink) {
	ctl := recordController.NewRecordController(db, audit)

	records := r.Group("/records")
	records.Post("/ingest", ctl.Ingest)                // POST /api/a/records/ingest
	records.Post("/detect-pending", ctl.DetectPending) // POST /api/a/records/detect-pending?project_id=
	records.Get("/list", ctl.List)                     // GET  /api/a/records/list?project_id=&status=
	records.Get("/:barcode", ctl.Detail)               // GET  /api/a/records/:barcode?project_id=
}
