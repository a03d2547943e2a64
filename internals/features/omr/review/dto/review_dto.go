// file: internals/features/omr/review/dto/review_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "omrku_backend/internals/features/omr/review/model"
)

/* =========================================================
   1) REQUEST DTO — key JSON = nama kolom (singular)
========================================================= */

type RequestAssignmentRequest struct {
	FlagAssignmentProjectID uuid.UUID `json:"flag_assignment_project_id" validate:"required"`
	FlagAssignmentFieldName string    `json:"flag_assignment_field_name" validate:"required,max=40"`
	// jumlah flag yang diminta reviewer (default 1, dibatasi controller)
	FlagAssignmentDesiredCount int `json:"flag_assignment_desired_count" validate:"omitempty,min=1,max=200"`
}

type ResolveFlagRequest struct {
	OmrFlagID             int64  `json:"omr_flag_id" validate:"required,min=1"`
	OmrFlagCorrectedValue string `json:"omr_flag_corrected_value"`
}

/* =========================================================
   2) RESPONSE DTO
========================================================= */

type FlagAssignmentResponse struct {
	FlagAssignmentID          uuid.UUID  `json:"flag_assignment_id"`
	FlagAssignmentProjectID   uuid.UUID  `json:"flag_assignment_project_id"`
	FlagAssignmentFieldName   string     `json:"flag_assignment_field_name"`
	FlagAssignmentUserID      uuid.UUID  `json:"flag_assignment_user_id"`
	FlagAssignmentStartFlagID int64      `json:"flag_assignment_start_flag_id"`
	FlagAssignmentEndFlagID   int64      `json:"flag_assignment_end_flag_id"`
	FlagAssignmentAssignedAt  time.Time  `json:"flag_assignment_assigned_at"`
	FlagAssignmentExpiresAt   time.Time  `json:"flag_assignment_expires_at"`
	FlagAssignmentReleasedAt  *time.Time `json:"flag_assignment_released_at"`
}

func NewFlagAssignmentResponse(m *model.FlagAssignmentModel) FlagAssignmentResponse {
	return FlagAssignmentResponse{
		FlagAssignmentID:          m.FlagAssignmentID,
		FlagAssignmentProjectID:   m.FlagAssignmentProjectID,
		FlagAssignmentFieldName:   m.FlagAssignmentFieldName,
		FlagAssignmentUserID:      m.FlagAssignmentUserID,
		FlagAssignmentStartFlagID: m.FlagAssignmentStartFlagID,
		FlagAssignmentEndFlagID:   m.FlagAssignmentEndFlagID,
		FlagAssignmentAssignedAt:  m.FlagAssignmentAssignedAt,
		FlagAssignmentExpiresAt:   m.FlagAssignmentExpiresAt,
		FlagAssignmentReleasedAt:  m.FlagAssignmentReleasedAt,
	}
}

type FlagResponse struct {
	OmrFlagID             int64      `json:"omr_flag_id"`
	OmrFlagProjectID      uuid.UUID  `json:"omr_flag_project_id"`
	OmrFlagFieldName      string     `json:"omr_flag_field_name"`
	OmrFlagBarcode        *string    `json:"omr_flag_barcode"`
	OmrFlagFieldValue     *string    `json:"omr_flag_field_value"`
	OmrFlagRemarks        *string    `json:"omr_flag_remarks"`
	OmrFlagIsCorrected    bool       `json:"omr_flag_is_corrected"`
	OmrFlagCorrectedValue *string    `json:"omr_flag_corrected_value"`
	OmrFlagUpdatedBy      *uuid.UUID `json:"omr_flag_updated_by_user_id"`
	OmrFlagAuditCycle     int        `json:"omr_flag_audit_cycle"`
	OmrFlagCreatedAt      time.Time  `json:"omr_flag_created_at"`
}

func NewFlagResponse(m *model.OmrFlagModel) FlagResponse {
	return FlagResponse{
		OmrFlagID:             m.OmrFlagID,
		OmrFlagProjectID:      m.OmrFlagProjectID,
		OmrFlagFieldName:      m.OmrFlagFieldName,
		OmrFlagBarcode:        m.OmrFlagBarcode,
		OmrFlagFieldValue:     m.OmrFlagFieldValue,
		OmrFlagRemarks:        m.OmrFlagRemarks,
		OmrFlagIsCorrected:    m.OmrFlagIsCorrected,
		OmrFlagCorrectedValue: m.OmrFlagCorrectedValue,
		OmrFlagUpdatedBy:      m.OmrFlagUpdatedByUserID,
		OmrFlagAuditCycle:     m.OmrFlagAuditCycle,
		OmrFlagCreatedAt:      m.OmrFlagCreatedAt,
	}
}

type CorrectedDataResponse struct {
	CorrectedOMRDataID        uuid.UUID `json:"corrected_omr_data_id"`
	CorrectedOMRDataFlagID    int64     `json:"corrected_omr_data_flag_id"`
	CorrectedOMRDataFieldName string    `json:"corrected_omr_data_field_name"`
	CorrectedOMRDataRawValue  *string   `json:"corrected_omr_data_raw_value"`
	CorrectedOMRDataNewValue  string    `json:"corrected_omr_data_new_value"`
	CorrectedOMRDataBy        uuid.UUID `json:"corrected_omr_data_corrected_by"`
	CorrectedOMRDataCreatedAt time.Time `json:"corrected_omr_data_created_at"`
}

func NewCorrectedDataResponse(m *model.CorrectedOMRDataModel) CorrectedDataResponse {
	return CorrectedDataResponse{
		CorrectedOMRDataID:        m.CorrectedOMRDataID,
		CorrectedOMRDataFlagID:    m.CorrectedOMRDataFlagID,
		CorrectedOMRDataFieldName: m.CorrectedOMRDataFieldName,
		CorrectedOMRDataRawValue:  m.CorrectedOMRDataRawValue,
		CorrectedOMRDataNewValue:  m.CorrectedOMRDataNewValue,
		CorrectedOMRDataBy:        m.CorrectedOMRDataCorrectedBy,
		CorrectedOMRDataCreatedAt: m.CorrectedOMRDataCreatedAt,
	}
}
