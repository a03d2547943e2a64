// file: internals/features/omr/records/model/omr_record_model.go
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================================
   Value object payload — hasil ekstraksi per lembar jawaban.
   Bentuk serialized (JSONB) cuma disentuh lewat Decode/Encode.
========================================================= */

type ResponsePayload struct {
	RollNumber string            `json:"roll_number"`
	Responses  map[string]string `json:"responses"` // nomor pertanyaan → jawaban terbaca ("" = blank, "*" = unreadable)
}

// OmrRecordModel merepresentasikan tabel `omr_records`
// Identitas global: (barcode, project). Tidak pernah dihapus fisik,
// hanya maju status.
type OmrRecordModel struct {
	// =========================
	// Primary Key
	// =========================
	OmrRecordID uuid.UUID `json:"omr_record_id" gorm:"column:omr_record_id;type:uuid;primaryKey"`

	// =========================
	// Identitas (unik per database)
	// =========================
	OmrRecordBarcode   string    `json:"omr_record_barcode" gorm:"column:omr_record_barcode;type:varchar(60);not null;uniqueIndex:uq_omr_records_barcode_project,priority:1"`
	OmrRecordProjectID uuid.UUID `json:"omr_record_project_id" gorm:"column:omr_record_project_id;type:uuid;not null;uniqueIndex:uq_omr_records_barcode_project,priority:2;index:idx_omr_records_project_status,priority:1"`

	// =========================
	// Konteks interpretasi
	// =========================
	OmrRecordCourseCode string `json:"omr_record_course_code" gorm:"column:omr_record_course_code;type:varchar(40);not null"`
	OmrRecordSetCode    string `json:"omr_record_set_code" gorm:"column:omr_record_set_code;type:varchar(10);not null"`
	OmrRecordRollNumber string `json:"omr_record_roll_number" gorm:"column:omr_record_roll_number;type:varchar(40);index:idx_omr_records_roll_number"`

	// =========================
	// Payload
	// =========================
	OmrRecordRawPayload       datatypes.JSON `json:"omr_record_raw_payload" gorm:"column:omr_record_raw_payload;type:jsonb;not null"`
	OmrRecordCorrectedPayload datatypes.JSON `json:"omr_record_corrected_payload" gorm:"column:omr_record_corrected_payload;type:jsonb"`

	// =========================
	// Lifecycle
	// =========================
	OmrRecordStatus     string `json:"omr_record_status" gorm:"column:omr_record_status;type:varchar(20);not null;default:'pending';index:idx_omr_records_project_status,priority:2"`
	OmrRecordAuditCycle int    `json:"omr_record_audit_cycle" gorm:"column:omr_record_audit_cycle;not null;default:1"`

	// =========================
	// Timestamps
	// =========================
	OmrRecordCreatedAt time.Time `json:"omr_record_created_at" gorm:"column:omr_record_created_at;not null;autoCreateTime"`
	OmrRecordUpdatedAt time.Time `json:"omr_record_updated_at" gorm:"column:omr_record_updated_at;not null;autoUpdateTime"`
}

// TableName memastikan mapping ke tabel `omr_records`
func (OmrRecordModel) TableName() string {
	return "omr_records"
}

/* =========================================================
   Encode/decode di boundary storage
========================================================= */

func (m *OmrRecordModel) DecodeRaw() (*ResponsePayload, error) {
	return decodePayload(m.OmrRecordRawPayload, "raw")
}

// DecodeEffective: payload terkoreksi kalau ada, else raw.
// Scoring selalu membaca lewat sini.
func (m *OmrRecordModel) DecodeEffective() (*ResponsePayload, error) {
	if len(m.OmrRecordCorrectedPayload) > 0 {
		return decodePayload(m.OmrRecordCorrectedPayload, "corrected")
	}
	return m.DecodeRaw()
}

func (m *OmrRecordModel) SetCorrected(p *ResponsePayload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	m.OmrRecordCorrectedPayload = datatypes.JSON(raw)
	return nil
}

func decodePayload(raw datatypes.JSON, kind string) (*ResponsePayload, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("payload %s kosong", kind)
	}
	var p ResponsePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("payload %s tidak bisa diparse: %w", kind, err)
	}
	if p.Responses == nil {
		return nil, fmt.Errorf("payload %s tanpa field responses", kind)
	}
	return &p, nil
}
