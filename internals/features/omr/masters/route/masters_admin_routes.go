// file: internals/features/omr/masters/route/masters_admin_routes.go
package route

import (
	mastersController "omrku_backend/internals/features/omr/masters/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/*
Admin routes: konfigurasi marking rule, response config, answer key.
Mount contoh: MastersAdminRoutes(app.Group("/api/a"), db)
*/
func MastersAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := mastersController.NewMastersAdminController(db)

	rules := r.Group("/marking-rules")
	rules.Post("/", ctl.CreateMarkingRule)    // POST /api/a/marking-rules
	rules.Get("/list", ctl.ListMarkingRules)  // GET  /api/a/marking-rules/list?project_id=

	configs := r.Group("/response-configs")
	configs.Post("/", ctl.CreateResponseConfig) // POST /api/a/response-configs

	keys := r.Group("/answer-keys")
	keys.Post("/", ctl.CreateAnswerKey) // POST /api/a/answer-keys
}
