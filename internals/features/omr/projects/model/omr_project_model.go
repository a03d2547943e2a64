// file: internals/features/omr/projects/model/omr_project_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OmrProjectModel merepresentasikan tabel `omr_projects`
// Satu project = satu batch pemindaian (ujian/periode).
// Status mengikuti siklus: ingested → reviewed → scored → reaudited.
type OmrProjectModel struct {
	// =========================
	// Primary Key
	// =========================
	OmrProjectID uuid.UUID `json:"omr_project_id" gorm:"column:omr_project_id;type:uuid;primaryKey"`

	// =========================
	// Data Utama
	// =========================
	OmrProjectName   string `json:"omr_project_name" gorm:"column:omr_project_name;type:varchar(160);not null"`
	OmrProjectStatus string `json:"omr_project_status" gorm:"column:omr_project_status;type:varchar(20);not null;default:'ingested';index:idx_omr_projects_status"`

	// Counter siklus audit. Naik tiap StartAuditCycle.
	OmrProjectAuditCycle int `json:"omr_project_audit_cycle" gorm:"column:omr_project_audit_cycle;not null;default:1"`

	// =========================
	// Timestamps
	// =========================
	OmrProjectCreatedAt time.Time      `json:"omr_project_created_at" gorm:"column:omr_project_created_at;not null;autoCreateTime"`
	OmrProjectUpdatedAt time.Time      `json:"omr_project_updated_at" gorm:"column:omr_project_updated_at;not null;autoUpdateTime"`
	OmrProjectDeletedAt gorm.DeletedAt `json:"omr_project_deleted_at" gorm:"column:omr_project_deleted_at;index"`
}

// TableName memastikan mapping ke tabel `omr_projects`
func (OmrProjectModel) TableName() string {
	return "omr_projects"
}
