// file: internals/features/omr/projects/controller/project_admin_controller.go
package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	logsService "omrku_backend/internals/features/logs/service"
	dto "omrku_backend/internals/features/omr/projects/dto"
	service "omrku_backend/internals/features/omr/projects/service"
	helper "omrku_backend/internals/helpers"
)

/* ========================================================
   Controller
======================================================== */
type ProjectAdminController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Cycles    *service.AuditCycleService
}

func NewProjectAdminController(db *gorm.DB, audit *logsService.AuditSink) *ProjectAdminController {
	return &ProjectAdminController{
		DB:        db,
		Validator: validator.New(),
		Cycles:    service.NewAuditCycleService(db, audit),
	}
}

/* ========================================================
   Handlers
======================================================== */

// POST /projects
func (ctl *ProjectAdminController) Create(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	project, err := ctl.Cycles.CreateProject(c.UserContext(), req.OmrProjectName)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal membuat project")
	}
	return helper.JsonCreated(c, "project dibuat", dto.NewProjectResponse(project))
}

// GET /projects/:id
func (ctl *ProjectAdminController) Detail(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project id tidak valid")
	}

	project, err := ctl.Cycles.GetProject(c.UserContext(), projectID)
	if errors.Is(err, service.ErrProjectNotFound) {
		return helper.JsonError(c, http.StatusNotFound, "project tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal ambil project")
	}
	return helper.JsonOK(c, "ok", dto.NewProjectResponse(project))
}

// POST /projects/:id/audit-cycles
func (ctl *ProjectAdminController) StartAuditCycle(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromHeader(c)
	if err != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "user id tidak ditemukan")
	}

	projectID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project id tidak valid")
	}

	project, err := ctl.Cycles.StartAuditCycle(c.UserContext(), projectID, userID)
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		return helper.JsonError(c, http.StatusNotFound, "project tidak ditemukan")
	case errors.Is(err, service.ErrCycleInProgress):
		return helper.JsonError(c, http.StatusConflict, "masih ada assignment aktif dari siklus sebelumnya")
	case err != nil:
		return helper.JsonError(c, http.StatusInternalServerError, "gagal memulai siklus audit")
	}

	return helper.JsonOK(c, "siklus audit dimulai", dto.NewProjectResponse(project))
}
