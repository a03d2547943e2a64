// file: internals/features/omr/masters/model/answer_key_model.go
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnswerKeyModel merepresentasikan tabel `answer_keys`
// Kunci jawaban per project+course+set (varian soal).
type AnswerKeyModel struct {
	// =========================
	// Primary Key
	// =========================
	AnswerKeyID uuid.UUID `json:"answer_key_id" gorm:"column:answer_key_id;type:uuid;primaryKey"`

	// =========================
	// Relasi
	// =========================
	AnswerKeyProjectID  uuid.UUID `json:"answer_key_project_id" gorm:"column:answer_key_project_id;type:uuid;not null;uniqueIndex:uq_answer_keys_project_course_set,priority:1"`
	AnswerKeyCourseCode string    `json:"answer_key_course_code" gorm:"column:answer_key_course_code;type:varchar(40);not null;uniqueIndex:uq_answer_keys_project_course_set,priority:2"`
	AnswerKeySetCode    string    `json:"answer_key_set_code" gorm:"column:answer_key_set_code;type:varchar(10);not null;uniqueIndex:uq_answer_keys_project_course_set,priority:3"`

	// =========================
	// Data Utama
	// =========================
	// map nomor pertanyaan (string) → jawaban benar, mis. {"1":"A","2":"BD"}
	AnswerKeyEntries datatypes.JSON `json:"answer_key_entries" gorm:"column:answer_key_entries;type:jsonb;not null"`

	// =========================
	// Timestamps
	// =========================
	AnswerKeyCreatedAt time.Time      `json:"answer_key_created_at" gorm:"column:answer_key_created_at;not null;autoCreateTime"`
	AnswerKeyUpdatedAt time.Time      `json:"answer_key_updated_at" gorm:"column:answer_key_updated_at;not null;autoUpdateTime"`
	AnswerKeyDeletedAt gorm.DeletedAt `json:"answer_key_deleted_at" gorm:"column:answer_key_deleted_at;index"`
}

// TableName memastikan mapping ke tabel `answer_keys`
func (AnswerKeyModel) TableName() string {
	return "answer_keys"
}

func (m *AnswerKeyModel) Entries() (map[string]string, error) {
	out := map[string]string{}
	if len(m.AnswerKeyEntries) == 0 {
		return nil, fmt.Errorf("answer key %s: entries kosong", m.AnswerKeyID)
	}
	if err := json.Unmarshal(m.AnswerKeyEntries, &out); err != nil {
		return nil, fmt.Errorf("answer key %s: %w", m.AnswerKeyID, err)
	}
	return out, nil
}

func (m *AnswerKeyModel) SetEntries(entries map[string]string) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	m.AnswerKeyEntries = datatypes.JSON(raw)
	return nil
}
