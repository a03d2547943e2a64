// file: internals/features/omr/scoring/model/omr_score_model.go
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================================
   Value object breakdown per section
========================================================= */

type SectionScore struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Correct int     `json:"correct"`
	Wrong   int     `json:"wrong"`
	Blank   int     `json:"blank"`
}

// OmrScoreModel merepresentasikan tabel `omr_scores`
// Hasil hitung per (roll number, project, course). Derived & recomputable,
// tidak pernah diedit tangan.
type OmrScoreModel struct {
	// =========================
	// Primary Key
	// =========================
	OmrScoreID uuid.UUID `json:"omr_score_id" gorm:"column:omr_score_id;type:uuid;primaryKey"`

	// =========================
	// Identitas hasil (unik)
	// =========================
	OmrScoreRollNumber string    `json:"omr_score_roll_number" gorm:"column:omr_score_roll_number;type:varchar(40);not null;uniqueIndex:uq_omr_scores_roll_project_course,priority:1"`
	OmrScoreProjectID  uuid.UUID `json:"omr_score_project_id" gorm:"column:omr_score_project_id;type:uuid;not null;uniqueIndex:uq_omr_scores_roll_project_course,priority:2"`
	OmrScoreCourseCode string    `json:"omr_score_course_code" gorm:"column:omr_score_course_code;type:varchar(40);not null;uniqueIndex:uq_omr_scores_roll_project_course,priority:3"`

	// =========================
	// Hasil
	// =========================
	OmrScoreTotal    float64        `json:"omr_score_total" gorm:"column:omr_score_total;type:numeric(8,2);not null"`
	OmrScoreSections datatypes.JSON `json:"omr_score_sections" gorm:"column:omr_score_sections;type:jsonb;not null"`

	OmrScoreMarkingRuleID uuid.UUID `json:"omr_score_marking_rule_id" gorm:"column:omr_score_marking_rule_id;type:uuid;not null"`
	OmrScoreAuditCycle    int       `json:"omr_score_audit_cycle" gorm:"column:omr_score_audit_cycle;not null;default:1"`

	// =========================
	// Timestamps
	// =========================
	OmrScoreComputedAt time.Time `json:"omr_score_computed_at" gorm:"column:omr_score_computed_at;not null"`
}

// TableName memastikan mapping ke tabel `omr_scores`
func (OmrScoreModel) TableName() string {
	return "omr_scores"
}

func (m *OmrScoreModel) SectionBreakdown() ([]SectionScore, error) {
	var out []SectionScore
	if len(m.OmrScoreSections) == 0 {
		return nil, fmt.Errorf("score %s: breakdown kosong", m.OmrScoreID)
	}
	if err := json.Unmarshal(m.OmrScoreSections, &out); err != nil {
		return nil, fmt.Errorf("score %s: %w", m.OmrScoreID, err)
	}
	return out, nil
}

func (m *OmrScoreModel) SetSectionBreakdown(sections []SectionScore) error {
	raw, err := json.Marshal(sections)
	if err != nil {
		return err
	}
	m.OmrScoreSections = datatypes.JSON(raw)
	return nil
}
