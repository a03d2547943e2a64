// file: internals/features/omr/projects/route/project_admin_routes.go
package route

import (
	logsService "omrku_backend/internals/features/logs/service"
	projectController "omrku_backend/internals/features/omr/projects/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Admin routes: lifecycle project & siklus audit.
Mount contoh: ProjectAdminRoutes(app.Group("/api/a"), db, audit)
*/
func ProjectAdminRoutes(r fiber.Router, db *gorm.DB, audit *logsService.AuditSink) {
	ctl := projectController.NewProjectAdminController(db, audit)

	projects := r.Group("/projects")
	projects.Post("/", ctl.Create)                        // POST /api/a/projects
	projects.Get("/:id", ctl.Detail)                      // GET  /api/a/projects/:id
	projects.Post("/:id/audit-cycles", ctl.StartAuditCycle) // POST /api/a/projects/:id/audit-cycles
}
