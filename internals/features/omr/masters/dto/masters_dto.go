// file: internals/features/omr/masters/dto/masters_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "omrku_backend/internals/features/omr/masters/model"
)

/* =========================================================
   1) REQUEST DTO — key JSON = nama kolom (singular)
========================================================= */

// Create marking rule
type CreateMarkingRuleRequest struct {
	MarkingRuleProjectID   uuid.UUID `json:"marking_rule_project_id" validate:"required"`
	MarkingRuleName        string    `json:"marking_rule_name" validate:"required,max=120"`
	MarkingRuleCorrectMark float64   `json:"marking_rule_correct_mark" validate:"required"`
	MarkingRuleWrongMark   float64   `json:"marking_rule_wrong_mark"`
	MarkingRuleBlankMark   float64   `json:"marking_rule_blank_mark"`
}

// Section dikirim apa adanya sebagai value object (bukan string serialized).
type SectionConfigRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	StartQ   int    `json:"start_q" validate:"required,min=1"`
	EndQ     int    `json:"end_q" validate:"required,min=1"`
	Options  string `json:"options" validate:"required,max=12"`
	Expected int    `json:"expected" validate:"omitempty,min=1,max=12"`
	CanBlank bool   `json:"can_blank"`
}

type CreateResponseConfigRequest struct {
	ResponseConfigProjectID  uuid.UUID              `json:"response_config_project_id" validate:"required"`
	ResponseConfigCourseCode string                 `json:"response_config_course_code" validate:"required,max=40"`
	ResponseConfigSections   []SectionConfigRequest `json:"response_config_sections" validate:"required,min=1,dive"`
}

type CreateAnswerKeyRequest struct {
	AnswerKeyProjectID  uuid.UUID         `json:"answer_key_project_id" validate:"required"`
	AnswerKeyCourseCode string            `json:"answer_key_course_code" validate:"required,max=40"`
	AnswerKeySetCode    string            `json:"answer_key_set_code" validate:"required,max=10"`
	AnswerKeyEntries    map[string]string `json:"answer_key_entries" validate:"required,min=1"`
}

/* =========================================================
   2) RESPONSE DTO
========================================================= */

type MarkingRuleResponse struct {
	MarkingRuleID          uuid.UUID `json:"marking_rule_id"`
	MarkingRuleProjectID   uuid.UUID `json:"marking_rule_project_id"`
	MarkingRuleName        string    `json:"marking_rule_name"`
	MarkingRuleCorrectMark float64   `json:"marking_rule_correct_mark"`
	MarkingRuleWrongMark   float64   `json:"marking_rule_wrong_mark"`
	MarkingRuleBlankMark   float64   `json:"marking_rule_blank_mark"`
	MarkingRuleCreatedAt   time.Time `json:"marking_rule_created_at"`
}

func NewMarkingRuleResponse(m *model.MarkingRuleModel) MarkingRuleResponse {
	return MarkingRuleResponse{
		MarkingRuleID:          m.MarkingRuleID,
		MarkingRuleProjectID:   m.MarkingRuleProjectID,
		MarkingRuleName:        m.MarkingRuleName,
		MarkingRuleCorrectMark: m.MarkingRuleCorrectMark,
		MarkingRuleWrongMark:   m.MarkingRuleWrongMark,
		MarkingRuleBlankMark:   m.MarkingRuleBlankMark,
		MarkingRuleCreatedAt:   m.MarkingRuleCreatedAt,
	}
}

type ResponseConfigResponse struct {
	ResponseConfigID         uuid.UUID             `json:"response_config_id"`
	ResponseConfigProjectID  uuid.UUID             `json:"response_config_project_id"`
	ResponseConfigCourseCode string                `json:"response_config_course_code"`
	ResponseConfigSections   []model.SectionConfig `json:"response_config_sections"`
	ResponseConfigCreatedAt  time.Time             `json:"response_config_created_at"`
}

func NewResponseConfigResponse(m *model.ResponseConfigModel) (ResponseConfigResponse, error) {
	sections, err := m.Sections()
	if err != nil {
		return ResponseConfigResponse{}, err
	}
	return ResponseConfigResponse{
		ResponseConfigID:         m.ResponseConfigID,
		ResponseConfigProjectID:  m.ResponseConfigProjectID,
		ResponseConfigCourseCode: m.ResponseConfigCourseCode,
		ResponseConfigSections:   sections,
		ResponseConfigCreatedAt:  m.ResponseConfigCreatedAt,
	}, nil
}

type AnswerKeyResponse struct {
	AnswerKeyID         uuid.UUID         `json:"answer_key_id"`
	AnswerKeyProjectID  uuid.UUID         `json:"answer_key_project_id"`
	AnswerKeyCourseCode string            `json:"answer_key_course_code"`
	AnswerKeySetCode    string            `json:"answer_key_set_code"`
	AnswerKeyEntries    map[string]string `json:"answer_key_entries"`
	AnswerKeyCreatedAt  time.Time         `json:"answer_key_created_at"`
}

func NewAnswerKeyResponse(m *model.AnswerKeyModel) (AnswerKeyResponse, error) {
	entries, err := m.Entries()
	if err != nil {
		return AnswerKeyResponse{}, err
	}
	return AnswerKeyResponse{
		AnswerKeyID:         m.AnswerKeyID,
		AnswerKeyProjectID:  m.AnswerKeyProjectID,
		AnswerKeyCourseCode: m.AnswerKeyCourseCode,
		AnswerKeySetCode:    m.AnswerKeySetCode,
		AnswerKeyEntries:    entries,
		AnswerKeyCreatedAt:  m.AnswerKeyCreatedAt,
	}, nil
}
