// file: internals/features/omr/records/model/ambiguous_item_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// AmbiguousItemModel merepresentasikan tabel `ambiguous_items`
// Satu baris = satu pertanyaan ambigu pada satu record.
// Dibuat detektor, read-only setelahnya (riwayat audit).
type AmbiguousItemModel struct {
	// =========================
	// Primary Key
	// =========================
	AmbiguousItemID uuid.UUID `json:"ambiguous_item_id" gorm:"column:ambiguous_item_id;type:uuid;primaryKey"`

	// =========================
	// Relasi
	// =========================
	AmbiguousItemProjectID     uuid.UUID `json:"ambiguous_item_project_id" gorm:"column:ambiguous_item_project_id;type:uuid;not null;index:idx_ambiguous_items_project"`
	AmbiguousItemMarkingRuleID uuid.UUID `json:"ambiguous_item_marking_rule_id" gorm:"column:ambiguous_item_marking_rule_id;type:uuid;not null"`
	AmbiguousItemBarcode       string    `json:"ambiguous_item_barcode" gorm:"column:ambiguous_item_barcode;type:varchar(60);not null;index:idx_ambiguous_items_barcode"`
	AmbiguousItemSetCode       string    `json:"ambiguous_item_set_code" gorm:"column:ambiguous_item_set_code;type:varchar(10);not null"`

	// =========================
	// Data Utama
	// =========================
	AmbiguousItemQuestionNo int    `json:"ambiguous_item_question_no" gorm:"column:ambiguous_item_question_no;not null"`
	AmbiguousItemObserved   string `json:"ambiguous_item_observed" gorm:"column:ambiguous_item_observed;type:varchar(20)"`
	AmbiguousItemReason     string `json:"ambiguous_item_reason" gorm:"column:ambiguous_item_reason;type:varchar(40);not null"`
	AmbiguousItemAuditCycle int    `json:"ambiguous_item_audit_cycle" gorm:"column:ambiguous_item_audit_cycle;not null;default:1"`

	// =========================
	// Timestamps
	// =========================
	AmbiguousItemCreatedAt time.Time `json:"ambiguous_item_created_at" gorm:"column:ambiguous_item_created_at;not null;autoCreateTime"`
}

// TableName memastikan mapping ke tabel `ambiguous_items`
func (AmbiguousItemModel) TableName() string {
	return "ambiguous_items"
}

// Alasan klasifikasi ambigu (kolom ambiguous_item_reason)
const (
	AmbiguousReasonMultiMark   = "multi_mark"
	AmbiguousReasonUnreadable  = "unreadable"
	AmbiguousReasonBlank       = "blank_not_allowed"
	AmbiguousReasonBadOption   = "option_outside_set"
	AmbiguousReasonCardinality = "cardinality_mismatch"
)
