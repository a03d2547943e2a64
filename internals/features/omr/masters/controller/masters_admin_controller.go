// file: internals/features/omr/masters/controller/masters_admin_controller.go
package controller

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "omrku_backend/internals/features/omr/masters/dto"
	model "omrku_backend/internals/features/omr/masters/model"
	helper "omrku_backend/internals/helpers"
)

/* ========================================================
   Controller
======================================================== */
type MastersAdminController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewMastersAdminController(db *gorm.DB) *MastersAdminController {
	return &MastersAdminController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* ========================================================
   Marking rules
======================================================== */

// POST /marking-rules
func (ctl *MastersAdminController) CreateMarkingRule(c *fiber.Ctx) error {
	var req dto.CreateMarkingRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m := model.MarkingRuleModel{
		MarkingRuleID:          uuid.New(),
		MarkingRuleProjectID:   req.MarkingRuleProjectID,
		MarkingRuleName:        strings.TrimSpace(req.MarkingRuleName),
		MarkingRuleCorrectMark: req.MarkingRuleCorrectMark,
		MarkingRuleWrongMark:   req.MarkingRuleWrongMark,
		MarkingRuleBlankMark:   req.MarkingRuleBlankMark,
	}
	if err := ctl.DB.Create(&m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal simpan marking rule")
	}
	return helper.JsonCreated(c, "marking rule dibuat", dto.NewMarkingRuleResponse(&m))
}

// GET /marking-rules?project_id=
func (ctl *MastersAdminController) ListMarkingRules(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(strings.TrimSpace(c.Query("project_id")))
	if err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "project_id tidak valid")
	}

	var rows []model.MarkingRuleModel
	if err := ctl.DB.
		Where("marking_rule_project_id = ?", projectID).
		Order("marking_rule_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal ambil marking rules")
	}

	out := make([]dto.MarkingRuleResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewMarkingRuleResponse(&rows[i]))
	}
	return helper.JsonOK(c, "ok", out)
}

/* ========================================================
   Response configs
======================================================== */

// POST /response-configs
func (ctl *MastersAdminController) CreateResponseConfig(c *fiber.Ctx) error {
	var req dto.CreateResponseConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	sections := make([]model.SectionConfig, 0, len(req.ResponseConfigSections))
	for _, s := range req.ResponseConfigSections {
		if s.EndQ < s.StartQ {
			return helper.JsonError(c, http.StatusBadRequest, "section "+s.Name+": end_q < start_q")
		}
		sections = append(sections, model.SectionConfig{
			Name:     strings.TrimSpace(s.Name),
			StartQ:   s.StartQ,
			EndQ:     s.EndQ,
			Options:  strings.ToUpper(strings.TrimSpace(s.Options)),
			Expected: s.Expected,
			CanBlank: s.CanBlank,
		})
	}

	m := model.ResponseConfigModel{
		ResponseConfigID:         uuid.New(),
		ResponseConfigProjectID:  req.ResponseConfigProjectID,
		ResponseConfigCourseCode: strings.TrimSpace(req.ResponseConfigCourseCode),
	}
	if err := m.SetSections(sections); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "sections tidak bisa diserialisasi")
	}
	if err := ctl.DB.Create(&m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal simpan response config")
	}

	resp, err := dto.NewResponseConfigResponse(&m)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal baca response config")
	}
	return helper.JsonCreated(c, "response config dibuat", resp)
}

/* ========================================================
   Answer keys
======================================================== */

// POST /answer-keys
func (ctl *MastersAdminController) CreateAnswerKey(c *fiber.Ctx) error {
	var req dto.CreateAnswerKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	entries := make(map[string]string, len(req.AnswerKeyEntries))
	for q, a := range req.AnswerKeyEntries {
		entries[strings.TrimSpace(q)] = strings.ToUpper(strings.TrimSpace(a))
	}

	m := model.AnswerKeyModel{
		AnswerKeyID:         uuid.New(),
		AnswerKeyProjectID:  req.AnswerKeyProjectID,
		AnswerKeyCourseCode: strings.TrimSpace(req.AnswerKeyCourseCode),
		AnswerKeySetCode:    strings.ToUpper(strings.TrimSpace(req.AnswerKeySetCode)),
	}
	if err := m.SetEntries(entries); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "entries tidak bisa diserialisasi")
	}
	if err := ctl.DB.Create(&m).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal simpan answer key")
	}

	resp, err := dto.NewAnswerKeyResponse(&m)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, "gagal baca answer key")
	}
	return helper.JsonCreated(c, "answer key dibuat", resp)
}
