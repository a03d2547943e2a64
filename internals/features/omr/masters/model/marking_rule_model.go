// file: internals/features/omr/masters/model/marking_rule_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarkingRuleModel merepresentasikan tabel `marking_rules`
// Kebijakan skor per project, mis. negative marking 1/4.
type MarkingRuleModel struct {
	// =========================
	// Primary Key
	// =========================
	MarkingRuleID uuid.UUID `json:"marking_rule_id" gorm:"column:marking_rule_id;type:uuid;primaryKey"`

	// =========================
	// Relasi
	// =========================
	MarkingRuleProjectID uuid.UUID `json:"marking_rule_project_id" gorm:"column:marking_rule_project_id;type:uuid;not null;index:idx_marking_rules_project"`

	// =========================
	// Data Utama
	// =========================
	MarkingRuleName string `json:"marking_rule_name" gorm:"column:marking_rule_name;type:varchar(120);not null"`

	// Award/penalty per pertanyaan. WrongMark biasanya negatif (mis. -0.25).
	MarkingRuleCorrectMark float64 `json:"marking_rule_correct_mark" gorm:"column:marking_rule_correct_mark;type:numeric(6,3);not null;default:1"`
	MarkingRuleWrongMark   float64 `json:"marking_rule_wrong_mark" gorm:"column:marking_rule_wrong_mark;type:numeric(6,3);not null;default:0"`
	MarkingRuleBlankMark   float64 `json:"marking_rule_blank_mark" gorm:"column:marking_rule_blank_mark;type:numeric(6,3);not null;default:0"`

	// =========================
	// Timestamps
	// =========================
	MarkingRuleCreatedAt time.Time      `json:"marking_rule_created_at" gorm:"column:marking_rule_created_at;not null;autoCreateTime"`
	MarkingRuleUpdatedAt time.Time      `json:"marking_rule_updated_at" gorm:"column:marking_rule_updated_at;not null;autoUpdateTime"`
	MarkingRuleDeletedAt gorm.DeletedAt `json:"marking_rule_deleted_at" gorm:"column:marking_rule_deleted_at;index"`
}

// TableName memastikan mapping ke tabel `marking_rules`
func (MarkingRuleModel) TableName() string {
	return "marking_rules"
}
