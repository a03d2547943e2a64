// file: internals/features/omr/review/controller/review_controller.go
package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	recordService "omrku_backend/internals/features/omr/records/service"
	dto "omrku_backend/internals/features/omr/review/dto"
	model "omrku_backend/internals/features/omr/review/model"
	service "omrku_backend/internals/features/omr/review/service"
	helper "omrku_backend/internals/helpers"
)

/* ========================================================
   Controller
======================================================== */
type ReviewController struct {
	DB          *gorm.DB
	Validator   *validator.Validate
	Assignments *service.AssignmentService
}

func NewReviewController(db *gorm.DB, assignments *service.AssignmentService) *ReviewController {
	return &ReviewController{
		DB:          db,
		Validator:   validator.New(),
		Assignments: assignments,
	}
}

/* ========================================================
   Handlers
======================================================== */

// POST /assignments/request
func (ctl *ReviewController) RequestAssignment(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromHeader(c)
	if err != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "user id tidak ditemukan")
	}

	var req dto.RequestAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	asg, err := ctl.Assignments.RequestAssignment(
		c.UserContext(), userID,
		req.FlagAssignmentProjectID,
		strings.TrimSpace(req.FlagAssignmentFieldName),
		req.FlagAssignmentDesiredCount,
	)
	switch {
	case errors.Is(err, service.ErrNoWorkAvailable):
		// bukan error buat reviewer: antrian kosong, coba lagi nanti
		return helper.JsonOK(c, "tidak ada pekerjaan tersedia", nil)
	case err != nil:
		return helper.JsonError(c, http.StatusInternalServerError, "gagal membuat assignment")
	}

	return helper.JsonCreated(c, "assignment dibuat", dto.NewFlagAssignmentResponse(asg))
}

// POST /assignments/:id/resolve
func (ctl *ReviewController) ResolveFlag(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromHeader(c)
	if err != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "user id tidak ditemukan")
	}

	assignmentID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "assignment id tidak valid")
	}

	var req dto.ResolveFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	err = ctl.Assignments.ResolveFlag(c.UserContext(), assignmentID, req.OmrFlagID, req.OmrFlagCorrectedValue, userID)
	switch {
	case errors.Is(err, service.ErrNotAssigned):
		return helper.JsonError(c, http.StatusForbidden, "flag di luar assignment Anda")
	case errors.Is(err, service.ErrAssignmentExpired):
		return helper.JsonError(c, http.StatusConflict, "assignment kadaluarsa, silakan request ulang")
	case errors.Is(err, service.ErrAlreadyCorrected):
		return helper.JsonError(c, http.StatusConflict, "flag sudah dikoreksi dengan nilai berbeda")
	case errors.Is(err, service.ErrInvalidFieldValue):
		return helper.JsonError(c, http.StatusBadRequest, "nilai koreksi di luar domain field")
	case errors.Is(err, recordService.ErrRecordNotFound):
		return helper.JsonError(c, http.StatusNotFound, "record untuk flag ini tidak ditemukan")
	case err != nil:
		return helper.JsonError(c, http.StatusInternalServerError, "gagal menyimpan koreksi")
	}

	return helper.JsonUpdated(c, "flag dikoreksi", nil)
}

// POST /assignments/release-expired
// Bisa dipanggil manual; normalnya jalan via scheduler.
func (ctl *ReviewController) ReleaseExpired(c *fiber.Ctx) error {
	released, err := ctl.Assignments.ReleaseExpired(c.UserContext())
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal menjalankan sweep")
	}
	return helper.JsonOK(c, "sweep selesai", fiber.Map{"assignments_released": released})
}

// GET /flags?project_id=&field=&scope=open|corrected|project
func (ctl *ReviewController) ListFlags(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(strings.TrimSpace(c.Query("project_id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project_id tidak valid")
	}

	p := helper.ResolvePaging(c, 20, 200)

	q := ctl.DB.Model(&model.OmrFlagModel{}).
		Where("omr_flag_project_id = ?", projectID)
	if field := strings.TrimSpace(c.Query("field")); field != "" {
		q = q.Where("omr_flag_field_name = ?", field)
	}
	switch strings.TrimSpace(c.Query("scope")) {
	case "open":
		q = q.Where("omr_flag_is_corrected = ?", false)
	case "corrected":
		q = q.Where("omr_flag_is_corrected = ?", true)
	case "project":
		// flag level-project, tidak terikat record
		q = q.Where("omr_flag_barcode IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal hitung flags")
	}

	var rows []model.OmrFlagModel
	if err := q.Order("omr_flag_id ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal ambil flags")
	}

	out := make([]dto.FlagResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewFlagResponse(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromOffset(total, p.Offset, p.Limit))
}

// GET /corrections/:barcode?project_id=
// Riwayat koreksi satu lembar untuk layar re-audit.
func (ctl *ReviewController) CorrectionHistory(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(strings.TrimSpace(c.Query("project_id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project_id tidak valid")
	}
	barcode := strings.TrimSpace(c.Params("barcode"))

	rows, err := ctl.Assignments.Corrections.HistoryByBarcode(projectID, barcode)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal ambil riwayat koreksi")
	}

	out := make([]dto.CorrectedDataResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewCorrectedDataResponse(&rows[i]))
	}
	return helper.JsonOK(c, "ok", out)
}
