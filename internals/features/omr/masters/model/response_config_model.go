// file: internals/features/omr/masters/model/response_config_model.go
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   Value object section/field — bentuk serialized cuma hidup
   di boundary storage (kolom JSONB), core pakai tipe ini.
========================================================= */

// SectionConfig mendeskripsikan satu blok pertanyaan pada lembar jawaban.
type SectionConfig struct {
	Name     string `json:"name"`
	StartQ   int    `json:"start_q"`
	EndQ     int    `json:"end_q"`
	Options  string `json:"options"`  // set opsi valid, mis. "ABCD"
	Expected int    `json:"expected"` // kardinalitas jawaban (default 1)
	CanBlank bool   `json:"can_blank"`
}

// FieldConfig hasil resolve per pertanyaan (turunan SectionConfig).
type FieldConfig struct {
	Section  string
	Options  string
	Expected int
	CanBlank bool
}

// ResponseConfigModel merepresentasikan tabel `response_configs`
// Deskripsi struktur lembar jawaban per project+course.
type ResponseConfigModel struct {
	// =========================
	// Primary Key
	// =========================
	ResponseConfigID uuid.UUID `json:"response_config_id" gorm:"column:response_config_id;type:uuid;primaryKey"`

	// =========================
	// Relasi
	// =========================
	ResponseConfigProjectID  uuid.UUID `json:"response_config_project_id" gorm:"column:response_config_project_id;type:uuid;not null;uniqueIndex:uq_response_configs_project_course,priority:1"`
	ResponseConfigCourseCode string    `json:"response_config_course_code" gorm:"column:response_config_course_code;type:varchar(40);not null;uniqueIndex:uq_response_configs_project_course,priority:2"`

	// =========================
	// Data Utama
	// =========================
	ResponseConfigSections datatypes.JSON `json:"response_config_sections" gorm:"column:response_config_sections;type:jsonb;not null"`

	// =========================
	// Timestamps
	// =========================
	ResponseConfigCreatedAt time.Time      `json:"response_config_created_at" gorm:"column:response_config_created_at;not null;autoCreateTime"`
	ResponseConfigUpdatedAt time.Time      `json:"response_config_updated_at" gorm:"column:response_config_updated_at;not null;autoUpdateTime"`
	ResponseConfigDeletedAt gorm.DeletedAt `json:"response_config_deleted_at" gorm:"column:response_config_deleted_at;index"`
}

// TableName memastikan mapping ke tabel `response_configs`
func (ResponseConfigModel) TableName() string {
	return "response_configs"
}

/* =========================================================
   Encode/decode di boundary storage
========================================================= */

func (m *ResponseConfigModel) Sections() ([]SectionConfig, error) {
	var out []SectionConfig
	if len(m.ResponseConfigSections) == 0 {
		return nil, fmt.Errorf("response config %s: sections kosong", m.ResponseConfigID)
	}
	if err := json.Unmarshal(m.ResponseConfigSections, &out); err != nil {
		return nil, fmt.Errorf("response config %s: %w", m.ResponseConfigID, err)
	}
	return out, nil
}

func (m *ResponseConfigModel) SetSections(sections []SectionConfig) error {
	raw, err := json.Marshal(sections)
	if err != nil {
		return err
	}
	m.ResponseConfigSections = datatypes.JSON(raw)
	return nil
}

// FieldConfigFor me-resolve config untuk satu nomor pertanyaan.
// ok=false kalau nomor di luar semua section.
func FieldConfigFor(sections []SectionConfig, questionNo int) (FieldConfig, bool) {
	for _, sec := range sections {
		if questionNo >= sec.StartQ && questionNo <= sec.EndQ {
			expected := sec.Expected
			if expected <= 0 {
				expected = 1
			}
			return FieldConfig{
				Section:  sec.Name,
				Options:  strings.ToUpper(sec.Options),
				Expected: expected,
				CanBlank: sec.CanBlank,
			}, true
		}
	}
	return FieldConfig{}, false
}
