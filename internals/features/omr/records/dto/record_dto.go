// file: internals/features/omr/records/dto/record_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	model "omrku_backend/internals/features/omr/records/model"
)

/* =========================================================
   1) REQUEST DTO — key JSON = nama kolom (singular)
========================================================= */

// Ingest hasil ekstraksi. raw_payload dibiarkan opaque (structured JSON),
// interpretasi baru terjadi saat deteksi terhadap response config.
type IngestRecordRequest struct {
	OmrRecordProjectID  uuid.UUID       `json:"omr_record_project_id" validate:"required"`
	OmrRecordBarcode    string          `json:"omr_record_barcode" validate:"required,max=60"`
	OmrRecordCourseCode string          `json:"omr_record_course_code" validate:"required,max=40"`
	OmrRecordSetCode    string          `json:"omr_record_set_code" validate:"required,max=10"`
	OmrRecordRollNumber string          `json:"omr_record_roll_number" validate:"omitempty,max=40"`
	OmrRecordRawPayload json.RawMessage `json:"omr_record_raw_payload" validate:"required"`
}

/* =========================================================
   2) RESPONSE DTO
========================================================= */

type RecordResponse struct {
	OmrRecordID         uuid.UUID `json:"omr_record_id"`
	OmrRecordBarcode    string    `json:"omr_record_barcode"`
	OmrRecordProjectID  uuid.UUID `json:"omr_record_project_id"`
	OmrRecordCourseCode string    `json:"omr_record_course_code"`
	OmrRecordSetCode    string    `json:"omr_record_set_code"`
	OmrRecordRollNumber string    `json:"omr_record_roll_number"`
	OmrRecordStatus     string    `json:"omr_record_status"`
	OmrRecordAuditCycle int       `json:"omr_record_audit_cycle"`
	OmrRecordCreatedAt  time.Time `json:"omr_record_created_at"`
	OmrRecordUpdatedAt  time.Time `json:"omr_record_updated_at"`
}

func NewRecordResponse(m *model.OmrRecordModel) RecordResponse {
	return RecordResponse{
		OmrRecordID:         m.OmrRecordID,
		OmrRecordBarcode:    m.OmrRecordBarcode,
		OmrRecordProjectID:  m.OmrRecordProjectID,
		OmrRecordCourseCode: m.OmrRecordCourseCode,
		OmrRecordSetCode:    m.OmrRecordSetCode,
		OmrRecordRollNumber: m.OmrRecordRollNumber,
		OmrRecordStatus:     m.OmrRecordStatus,
		OmrRecordAuditCycle: m.OmrRecordAuditCycle,
		OmrRecordCreatedAt:  m.OmrRecordCreatedAt,
		OmrRecordUpdatedAt:  m.OmrRecordUpdatedAt,
	}
}

type AmbiguousItemResponse struct {
	AmbiguousItemID         uuid.UUID `json:"ambiguous_item_id"`
	AmbiguousItemBarcode    string    `json:"ambiguous_item_barcode"`
	AmbiguousItemQuestionNo int       `json:"ambiguous_item_question_no"`
	AmbiguousItemObserved   string    `json:"ambiguous_item_observed"`
	AmbiguousItemReason     string    `json:"ambiguous_item_reason"`
	AmbiguousItemAuditCycle int       `json:"ambiguous_item_audit_cycle"`
}

func NewAmbiguousItemResponse(m *model.AmbiguousItemModel) AmbiguousItemResponse {
	return AmbiguousItemResponse{
		AmbiguousItemID:         m.AmbiguousItemID,
		AmbiguousItemBarcode:    m.AmbiguousItemBarcode,
		AmbiguousItemQuestionNo: m.AmbiguousItemQuestionNo,
		AmbiguousItemObserved:   m.AmbiguousItemObserved,
		AmbiguousItemReason:     m.AmbiguousItemReason,
		AmbiguousItemAuditCycle: m.AmbiguousItemAuditCycle,
	}
}
