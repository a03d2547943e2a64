// file: internals/features/omr/review/model/omr_flag_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// OmrFlagModel merepresentasikan tabel `omr_flags`
// Satu flag = satu unit kerja reviewer (field/pertanyaan pada satu record).
// PK sengaja bigserial (bukan uuid) supaya lease bisa pegang range
// [start, end] yang contiguous & deterministik.
type OmrFlagModel struct {
	// =========================
	// Primary Key (bigserial)
	// =========================
	OmrFlagID int64 `json:"omr_flag_id" gorm:"column:omr_flag_id;primaryKey;autoIncrement"`

	// =========================
	// Scope
	// =========================
	OmrFlagProjectID uuid.UUID `json:"omr_flag_project_id" gorm:"column:omr_flag_project_id;type:uuid;not null;index:idx_omr_flags_project_field,priority:1"`
	OmrFlagFieldName string    `json:"omr_flag_field_name" gorm:"column:omr_flag_field_name;type:varchar(40);not null;index:idx_omr_flags_project_field,priority:2"`

	// Barcode nullable: flag level-project (konfigurasi) tidak terikat record.
	OmrFlagBarcode *string `json:"omr_flag_barcode" gorm:"column:omr_flag_barcode;type:varchar(60);index:idx_omr_flags_barcode"`

	// =========================
	// Data Utama
	// =========================
	OmrFlagFieldValue *string `json:"omr_flag_field_value" gorm:"column:omr_flag_field_value;type:varchar(40)"`
	OmrFlagRemarks    *string `json:"omr_flag_remarks" gorm:"column:omr_flag_remarks;type:text"`

	// =========================
	// State koreksi
	// =========================
	OmrFlagIsCorrected    bool    `json:"omr_flag_is_corrected" gorm:"column:omr_flag_is_corrected;not null;default:false;index:idx_omr_flags_open"`
	OmrFlagCorrectedValue *string `json:"omr_flag_corrected_value" gorm:"column:omr_flag_corrected_value;type:varchar(40)"`

	// Claim marker: assignment aktif yang memegang flag ini.
	// NULL = bebas diambil. Di-reset oleh sweep ReleaseExpired.
	OmrFlagClaimedAssignmentID *uuid.UUID `json:"omr_flag_claimed_assignment_id" gorm:"column:omr_flag_claimed_assignment_id;type:uuid;index:idx_omr_flags_claimed"`

	OmrFlagUpdatedByUserID *uuid.UUID `json:"omr_flag_updated_by_user_id" gorm:"column:omr_flag_updated_by_user_id;type:uuid"`

	OmrFlagAuditCycle int `json:"omr_flag_audit_cycle" gorm:"column:omr_flag_audit_cycle;not null;default:1"`

	// =========================
	// Timestamps
	// =========================
	OmrFlagCreatedAt time.Time `json:"omr_flag_created_at" gorm:"column:omr_flag_created_at;not null;autoCreateTime"`
	OmrFlagUpdatedAt time.Time `json:"omr_flag_updated_at" gorm:"column:omr_flag_updated_at;not null;autoUpdateTime"`
}

// TableName memastikan mapping ke tabel `omr_flags`
func (OmrFlagModel) TableName() string {
	return "omr_flags"
}
