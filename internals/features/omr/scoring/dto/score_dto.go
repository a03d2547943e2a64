// file: internals/features/omr/scoring/dto/score_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "omrku_backend/internals/features/omr/scoring/model"
)

type ScoreResponse struct {
	OmrScoreID            uuid.UUID            `json:"omr_score_id"`
	OmrScoreRollNumber    string               `json:"omr_score_roll_number"`
	OmrScoreProjectID     uuid.UUID            `json:"omr_score_project_id"`
	OmrScoreCourseCode    string               `json:"omr_score_course_code"`
	OmrScoreTotal         float64              `json:"omr_score_total"`
	OmrScoreSections      []model.SectionScore `json:"omr_score_sections"`
	OmrScoreMarkingRuleID uuid.UUID            `json:"omr_score_marking_rule_id"`
	OmrScoreAuditCycle    int                  `json:"omr_score_audit_cycle"`
	OmrScoreComputedAt    time.Time            `json:"omr_score_computed_at"`
}

func NewScoreResponse(m *model.OmrScoreModel) (ScoreResponse, error) {
	sections, err := m.SectionBreakdown()
	if err != nil {
		return ScoreResponse{}, err
	}
	return ScoreResponse{
		OmrScoreID:            m.OmrScoreID,
		OmrScoreRollNumber:    m.OmrScoreRollNumber,
		OmrScoreProjectID:     m.OmrScoreProjectID,
		OmrScoreCourseCode:    m.OmrScoreCourseCode,
		OmrScoreTotal:         m.OmrScoreTotal,
		OmrScoreSections:      sections,
		OmrScoreMarkingRuleID: m.OmrScoreMarkingRuleID,
		OmrScoreAuditCycle:    m.OmrScoreAuditCycle,
		OmrScoreComputedAt:    m.OmrScoreComputedAt,
	}, nil
}
