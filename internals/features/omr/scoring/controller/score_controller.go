// file: internals/features/omr/scoring/controller/score_controller.go
package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	logsService "omrku_backend/internals/features/logs/service"
	dto "omrku_backend/internals/features/omr/scoring/dto"
	service "omrku_backend/internals/features/omr/scoring/service"
	helper "omrku_backend/internals/helpers"
)

/* ========================================================
   Controller
======================================================== */
type ScoreController struct {
	DB      *gorm.DB
	Scoring *service.ScoringService
}

func NewScoreController(db *gorm.DB, audit *logsService.AuditSink) *ScoreController {
	return &ScoreController{
		DB:      db,
		Scoring: service.NewScoringService(db, audit),
	}
}

/* ========================================================
   Handlers
======================================================== */

// POST /scores/compute?project_id=
// Skor semua record clean/corrected satu project.
func (ctl *ScoreController) ComputeProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(strings.TrimSpace(c.Query("project_id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project_id tidak valid")
	}

	scored, err := ctl.Scoring.ScoreProject(c.UserContext(), projectID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal menghitung skor project")
	}
	return helper.JsonOK(c, "skor dihitung", fiber.Map{"records_scored": scored})
}

// GET /scores/:rollNumber?project_id=&course_code=
func (ctl *ScoreController) GetScore(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(strings.TrimSpace(c.Query("project_id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project_id tidak valid")
	}
	courseCode := strings.TrimSpace(c.Query("course_code"))
	if courseCode == "" {
		return helper.JsonError(c, http.StatusBadRequest, "course_code wajib diisi")
	}
	rollNumber := strings.TrimSpace(c.Params("rollNumber"))

	score, err := ctl.Scoring.GetScore(rollNumber, projectID, courseCode)
	if errors.Is(err, service.ErrScoreNotFound) {
		return helper.JsonError(c, http.StatusNotFound, "score tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal ambil score")
	}

	resp, err := dto.NewScoreResponse(score)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal baca score")
	}
	return helper.JsonOK(c, "ok", resp)
}
