// file: internals/features/omr/projects/service/audit_cycle_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"omrku_backend/internals/constants"
	logsService "omrku_backend/internals/features/logs/service"
	model "omrku_backend/internals/features/omr/projects/model"
	recordModel "omrku_backend/internals/features/omr/records/model"
	reviewModel "omrku_backend/internals/features/omr/review/model"
)

var (
	ErrCycleInProgress = errors.New("masih ada assignment aktif dari siklus sebelumnya")
	ErrProjectNotFound = errors.New("project tidak ditemukan")
)

/* =========================================================
   Audit Cycle Controller — state machine per project:
   ingested → reviewed → scored → reaudited (boleh berulang).
========================================================= */

type AuditCycleService struct {
	DB    *gorm.DB
	Audit *logsService.AuditSink
}

func NewAuditCycleService(db *gorm.DB, audit *logsService.AuditSink) *AuditCycleService {
	return &AuditCycleService{DB: db, Audit: audit}
}

func (s *AuditCycleService) CreateProject(ctx context.Context, name string) (*model.OmrProjectModel, error) {
	project := model.OmrProjectModel{
		OmrProjectID:         uuid.New(),
		OmrProjectName:       strings.TrimSpace(name),
		OmrProjectStatus:     constants.ProjectStatusIngested,
		OmrProjectAuditCycle: 1,
	}
	if err := s.DB.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *AuditCycleService) GetProject(ctx context.Context, projectID uuid.UUID) (*model.OmrProjectModel, error) {
	var project model.OmrProjectModel
	err := s.DB.WithContext(ctx).First(&project, "omr_project_id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// StartAuditCycle menaikkan counter siklus dan mengembalikan semua record
// yang belum corrected/scored ke input set detektor. Ditolak kalau masih
// ada lease aktif — dua siklus overlap bisa merusak penomoran flag.
// Resolusi siklus lama TIDAK di-replay: flag lama tetap jadi riwayat.
func (s *AuditCycleService) StartAuditCycle(ctx context.Context, projectID uuid.UUID, actorID uuid.UUID) (*model.OmrProjectModel, error) {
	var project model.OmrProjectModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, "omr_project_id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		now := time.Now().UTC()
		var active int64
		if err := tx.Model(&reviewModel.FlagAssignmentModel{}).
			Where("flag_assignment_project_id = ?", projectID).
			Where("flag_assignment_released_at IS NULL AND flag_assignment_expires_at > ?", now).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrCycleInProgress
		}

		newCycle := project.OmrProjectAuditCycle + 1
		if err := tx.Model(&project).Updates(map[string]interface{}{
			"omr_project_audit_cycle": newCycle,
			"omr_project_status":      constants.ProjectStatusReaudited,
		}).Error; err != nil {
			return err
		}
		project.OmrProjectAuditCycle = newCycle
		project.OmrProjectStatus = constants.ProjectStatusReaudited

		res := tx.Model(&recordModel.OmrRecordModel{}).
			Where("omr_record_project_id = ?", projectID).
			Where("omr_record_status NOT IN ?", []string{
				constants.RecordStatusCorrected, constants.RecordStatusScored,
			}).
			Updates(map[string]interface{}{
				"omr_record_status":      constants.RecordStatusPending,
				"omr_record_audit_cycle": newCycle,
			})
		if res.Error != nil {
			return res.Error
		}

		s.Audit.Event(tx, constants.LogCategoryAuditCycle, &actorID,
			fmt.Sprintf("project=%s cycle=%d records_reset=%d", projectID, newCycle, res.RowsAffected))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}
