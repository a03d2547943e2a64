// file: internals/features/omr/review/model/corrected_omr_data_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// CorrectedOMRDataModel merepresentasikan tabel `corrected_omr_data`
// Jejak koreksi: nilai mentah sebelum vs nilai reviewer sesudah.
// Append-only, dipakai re-audit.
type CorrectedOMRDataModel struct {
	// =========================
	// Primary Key
	// =========================
	CorrectedOMRDataID uuid.UUID `json:"corrected_omr_data_id" gorm:"column:corrected_omr_data_id;type:uuid;primaryKey"`

	// =========================
	// Relasi
	// =========================
	CorrectedOMRDataFlagID    int64     `json:"corrected_omr_data_flag_id" gorm:"column:corrected_omr_data_flag_id;not null;index:idx_corrected_omr_data_flag"`
	CorrectedOMRDataProjectID uuid.UUID `json:"corrected_omr_data_project_id" gorm:"column:corrected_omr_data_project_id;type:uuid;not null;index:idx_corrected_omr_data_project"`
	CorrectedOMRDataBarcode   *string   `json:"corrected_omr_data_barcode" gorm:"column:corrected_omr_data_barcode;type:varchar(60);index:idx_corrected_omr_data_barcode"`

	// =========================
	// Data Utama
	// =========================
	CorrectedOMRDataFieldName string  `json:"corrected_omr_data_field_name" gorm:"column:corrected_omr_data_field_name;type:varchar(40);not null"`
	CorrectedOMRDataRawValue  *string `json:"corrected_omr_data_raw_value" gorm:"column:corrected_omr_data_raw_value;type:varchar(40)"`
	CorrectedOMRDataNewValue  string  `json:"corrected_omr_data_new_value" gorm:"column:corrected_omr_data_new_value;type:varchar(40);not null"`

	CorrectedOMRDataCorrectedBy uuid.UUID `json:"corrected_omr_data_corrected_by" gorm:"column:corrected_omr_data_corrected_by;type:uuid;not null"`

	// =========================
	// Timestamps
	// =========================
	CorrectedOMRDataCreatedAt time.Time `json:"corrected_omr_data_created_at" gorm:"column:corrected_omr_data_created_at;not null;autoCreateTime"`
}

// TableName memastikan mapping ke tabel `corrected_omr_data`
func (CorrectedOMRDataModel) TableName() string {
	return "corrected_omr_data"
}
