// file: internals/features/logs/model/log_models.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
   Sink audit: append-only, ditulis semua komponen OMR.
   Timestamp selalu UTC (dinormalisasi di service).
========================================================= */

// EventLogModel merepresentasikan tabel `event_logs`
type EventLogModel struct {
	EventLogID        uuid.UUID  `json:"event_log_id" gorm:"column:event_log_id;type:uuid;primaryKey"`
	EventLogCategory  string     `json:"event_log_category" gorm:"column:event_log_category;type:varchar(40);not null;index:idx_event_logs_category"`
	EventLogMessage   string     `json:"event_log_message" gorm:"column:event_log_message;type:text;not null"`
	EventLogActorID   *uuid.UUID `json:"event_log_actor_id" gorm:"column:event_log_actor_id;type:uuid"`
	EventLogCreatedAt time.Time  `json:"event_log_created_at" gorm:"column:event_log_created_at;not null;index:idx_event_logs_created_at,sort:desc"`
}

func (EventLogModel) TableName() string {
	return "event_logs"
}

// ErrorLogModel merepresentasikan tabel `error_logs`
type ErrorLogModel struct {
	ErrorLogID        uuid.UUID  `json:"error_log_id" gorm:"column:error_log_id;type:uuid;primaryKey"`
	ErrorLogCategory  string     `json:"error_log_category" gorm:"column:error_log_category;type:varchar(40);not null;index:idx_error_logs_category"`
	ErrorLogMessage   string     `json:"error_log_message" gorm:"column:error_log_message;type:text;not null"`
	ErrorLogActorID   *uuid.UUID `json:"error_log_actor_id" gorm:"column:error_log_actor_id;type:uuid"`
	ErrorLogCreatedAt time.Time  `json:"error_log_created_at" gorm:"column:error_log_created_at;not null"`
}

func (ErrorLogModel) TableName() string {
	return "error_logs"
}

// ChangeLogModel merepresentasikan tabel `change_logs`
// Dipakai untuk jejak before/after saat koreksi & transisi status.
type ChangeLogModel struct {
	ChangeLogID        uuid.UUID  `json:"change_log_id" gorm:"column:change_log_id;type:uuid;primaryKey"`
	ChangeLogCategory  string     `json:"change_log_category" gorm:"column:change_log_category;type:varchar(40);not null;index:idx_change_logs_category"`
	ChangeLogBefore    string     `json:"change_log_before" gorm:"column:change_log_before;type:text"`
	ChangeLogAfter     string     `json:"change_log_after" gorm:"column:change_log_after;type:text"`
	ChangeLogActorID   *uuid.UUID `json:"change_log_actor_id" gorm:"column:change_log_actor_id;type:uuid"`
	ChangeLogCreatedAt time.Time  `json:"change_log_created_at" gorm:"column:change_log_created_at;not null"`
}

func (ChangeLogModel) TableName() string {
	return "change_logs"
}
