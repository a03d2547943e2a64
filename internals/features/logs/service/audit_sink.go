// file: internals/features/logs/service/audit_sink.go
package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	logModel "omrku_backend/internals/features/logs/model"
)

/* =========================================================
   AuditSink: capability injeksi untuk EventLog/ErrorLog/ChangeLog.
   Write-only dari sisi pipeline OMR. Kegagalan tulis log tidak boleh
   menggagalkan operasi utama → error cuma di-log ke stdout.
========================================================= */

type AuditSink struct {
	DB *gorm.DB
}

func NewAuditSink(db *gorm.DB) *AuditSink {
	return &AuditSink{DB: db}
}

// db: tx boleh nil → pakai s.DB
func (s *AuditSink) db(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.DB
}

func (s *AuditSink) Event(tx *gorm.DB, category string, actorID *uuid.UUID, message string) {
	row := logModel.EventLogModel{
		EventLogID:        uuid.New(),
		EventLogCategory:  category,
		EventLogMessage:   message,
		EventLogActorID:   actorID,
		EventLogCreatedAt: time.Now().UTC(),
	}
	if err := s.db(tx).Create(&row).Error; err != nil {
		log.Printf("[AUDIT] gagal tulis event log: %v", err)
	}
}

func (s *AuditSink) Error(tx *gorm.DB, category string, actorID *uuid.UUID, message string) {
	row := logModel.ErrorLogModel{
		ErrorLogID:        uuid.New(),
		ErrorLogCategory:  category,
		ErrorLogMessage:   message,
		ErrorLogActorID:   actorID,
		ErrorLogCreatedAt: time.Now().UTC(),
	}
	if err := s.db(tx).Create(&row).Error; err != nil {
		log.Printf("[AUDIT] gagal tulis error log: %v", err)
	}
}

func (s *AuditSink) Change(tx *gorm.DB, category string, actorID *uuid.UUID, before, after string) {
	row := logModel.ChangeLogModel{
		ChangeLogID:        uuid.New(),
		ChangeLogCategory:  category,
		ChangeLogBefore:    before,
		ChangeLogAfter:     after,
		ChangeLogActorID:   actorID,
		ChangeLogCreatedAt: time.Now().UTC(),
	}
	if err := s.db(tx).Create(&row).Error; err != nil {
		log.Printf("[AUDIT] gagal tulis change log: %v", err)
	}
}
