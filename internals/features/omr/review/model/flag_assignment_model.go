// file: internals/features/omr/review/model/flag_assignment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// FlagAssignmentModel merepresentasikan tabel `flag_assignments`
// Lease eksklusif time-boxed atas range flag [start, end] untuk satu user.
// Invariant: untuk (project, field) yang sama, tidak boleh ada dua lease
// aktif yang range-nya overlap — dijaga lewat claim marker di omr_flags,
// bukan lewat pengecekan range di sini.
type FlagAssignmentModel struct {
	// =========================
	// Primary Key
	// =========================
	FlagAssignmentID uuid.UUID `json:"flag_assignment_id" gorm:"column:flag_assignment_id;type:uuid;primaryKey"`

	// =========================
	// Scope + pemegang lease
	// =========================
	FlagAssignmentProjectID uuid.UUID `json:"flag_assignment_project_id" gorm:"column:flag_assignment_project_id;type:uuid;not null;index:idx_flag_assignments_project_field,priority:1"`
	FlagAssignmentFieldName string    `json:"flag_assignment_field_name" gorm:"column:flag_assignment_field_name;type:varchar(40);not null;index:idx_flag_assignments_project_field,priority:2"`
	FlagAssignmentUserID    uuid.UUID `json:"flag_assignment_user_id" gorm:"column:flag_assignment_user_id;type:uuid;not null;index:idx_flag_assignments_user"`

	// =========================
	// Range flag (inklusif)
	// =========================
	FlagAssignmentStartFlagID int64 `json:"flag_assignment_start_flag_id" gorm:"column:flag_assignment_start_flag_id;not null"`
	FlagAssignmentEndFlagID   int64 `json:"flag_assignment_end_flag_id" gorm:"column:flag_assignment_end_flag_id;not null"`

	// =========================
	// Lease window
	// =========================
	FlagAssignmentAssignedAt time.Time  `json:"flag_assignment_assigned_at" gorm:"column:flag_assignment_assigned_at;not null"`
	FlagAssignmentExpiresAt  time.Time  `json:"flag_assignment_expires_at" gorm:"column:flag_assignment_expires_at;not null;index:idx_flag_assignments_expires"`
	FlagAssignmentReleasedAt *time.Time `json:"flag_assignment_released_at" gorm:"column:flag_assignment_released_at"`
}

// TableName memastikan mapping ke tabel `flag_assignments`
func (FlagAssignmentModel) TableName() string {
	return "flag_assignments"
}

// ActiveAt: lease masih berlaku pada waktu t.
func (m *FlagAssignmentModel) ActiveAt(t time.Time) bool {
	return m.FlagAssignmentReleasedAt == nil && t.Before(m.FlagAssignmentExpiresAt)
}

// Covers: flagID masuk range lease ini.
func (m *FlagAssignmentModel) Covers(flagID int64) bool {
	return flagID >= m.FlagAssignmentStartFlagID && flagID <= m.FlagAssignmentEndFlagID
}
