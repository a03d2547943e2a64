// file: internals/features/omr/records/controller/record_controller.go
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
	dto "omrku_backend/internals/features/omr/records/dto"
	model "omrku_backend/internals/features/omr/records/model"
	service "omrku_backend/internals/features/omr/records/service"
	helper "omrku_backend/internals/helpers"
)

/* ========================================================
   Controller
======================================================== */
type RecordController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Detector  *service.DetectorService
}

func NewRecordController(db *gorm.DB, audit *logsService.AuditSink) *RecordController {
	return &RecordController{
		DB:        db,
		Validator: validator.New(),
		Detector:  service.NewDetectorService(db, audit),
	}
}

/* ========================================================
   Handlers
======================================================== */

// POST /records/ingest
func (ctl *RecordController) Ingest(c *fiber.Ctx) error {
	var req dto.IngestRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	rec, err := ctl.Detector.Ingest(c.UserContext(), service.IngestInput{
		ProjectID:  req.OmrRecordProjectID,
		Barcode:    strings.TrimSpace(req.OmrRecordBarcode),
		CourseCode: strings.TrimSpace(req.OmrRecordCourseCode),
		SetCode:    strings.ToUpper(strings.TrimSpace(req.OmrRecordSetCode)),
		RollNumber: strings.TrimSpace(req.OmrRecordRollNumber),
		RawPayload: req.OmrRecordRawPayload,
	})
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		return helper.JsonError(c, http.StatusNotFound, "project tidak ditemukan")
	case errors.Is(err, service.ErrExtractionFailed):
		// record terparkir extraction_failed, tetap kembalikan state-nya
		return helper.JsonError(c, http.StatusUnprocessableEntity, "payload ekstraksi tidak bisa diparse, record diparkir")
	case err != nil:
		return helper.JsonError(c, http.StatusInternalServerError, "gagal ingest record")
	}

	return helper.JsonCreated(c, "record di-ingest", dto.NewRecordResponse(rec))
}

// POST /records/detect-pending?project_id=
// Re-run deteksi untuk input set siklus audit.
func (ctl *RecordController) DetectPending(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(strings.TrimSpace(c.Query("project_id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project_id tidak valid")
	}

	done, err := ctl.Detector.DetectPending(c.UserContext(), projectID)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal menjalankan deteksi")
	}
	return helper.JsonOK(c, "deteksi selesai", fiber.Map{"records_detected": done})
}

// GET /records?project_id=&status=
func (ctl *RecordController) List(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(strings.TrimSpace(c.Query("project_id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project_id tidak valid")
	}
	status := strings.TrimSpace(c.Query("status"))

	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.Model(&model.OmrRecordModel{}).
		Where("omr_record_project_id = ?", projectID)
	if status != "" {
		q = q.Where("omr_record_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal hitung records")
	}

	var rows []model.OmrRecordModel
	if err := q.Order("omr_record_barcode ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal ambil records")
	}

	out := make([]dto.RecordResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewRecordResponse(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromOffset(total, p.Offset, p.Limit))
}

// GET /records/:barcode?project_id=
func (ctl *RecordController) Detail(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(strings.TrimSpace(c.Query("project_id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project_id tidak valid")
	}
	barcode := strings.TrimSpace(c.Params("barcode"))

	var rec model.OmrRecordModel
	if err := ctl.DB.
		Where("omr_record_barcode = ? AND omr_record_project_id = ?", barcode, projectID).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "record tidak ditemukan")
		}
		return helper.JsonError(c, http.StatusInternalServerError, "gagal ambil record")
	}

	var items []model.AmbiguousItemModel
	if err := ctl.DB.
		Where("ambiguous_item_project_id = ? AND ambiguous_item_barcode = ?", projectID, barcode).
		Order("ambiguous_item_question_no ASC").
		Find(&items).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal ambil ambiguous items")
	}

	itemsOut := make([]dto.AmbiguousItemResponse, 0, len(items))
	for i := range items {
		itemsOut = append(itemsOut, dto.NewAmbiguousItemResponse(&items[i]))
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"record":          dto.NewRecordResponse(&rec),
		"ambiguous_items": itemsOut,
	})
}
