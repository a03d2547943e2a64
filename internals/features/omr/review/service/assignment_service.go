// file: internals/features/omr/review/service/assignment_service.go
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
	model "omrku_backend/internals/features/omr/review/model"
)

var (
	ErrNoWorkAvailable   = errors.New("tidak ada flag yang bisa di-assign")
	ErrNotAssigned       = errors.New("flag di luar assignment aktif caller")
	ErrAssignmentExpired = errors.New("assignment sudah kadaluarsa, silakan request ulang")

	// internal: klaim kalah balapan, di-retry dalam RequestAssignment
	errClaimConflict = errors.New("claim conflict")
)

const claimRetries = 3

/* =========================================================
   AssignmentService — protokol lease eksklusif atas range flag.

   Klaim = compare-and-set transaksional: UPDATE bersyarat menandai
   flag dengan assignment id, RowsAffected harus sama dengan jumlah
   flag yang dipilih, kalau tidak → rollback + retry. Asumsi isolasi:
   READ COMMITTED (lihat DESIGN.md).
========================================================= */

type AssignmentService struct {
	DB            *gorm.DB
	Audit         *logsService.AuditSink
	Corrections   *CorrectionService
	LeaseDuration time.Duration
}

func NewAssignmentService(db *gorm.DB, audit *logsService.AuditSink, lease time.Duration) *AssignmentService {
	if lease <= 0 {
		lease = 15 * time.Minute
	}
	return &AssignmentService{
		DB:            db,
		Audit:         audit,
		Corrections:   NewCorrectionService(db, audit),
		LeaseDuration: lease,
	}
}

// RequestAssignment memberi satu user lease eksklusif atas maksimal
// desiredCount flag terbuka (project, field), contiguous & ascending by id.
// Dua operator konkuren tidak mungkin dapat range yang overlap.
func (s *AssignmentService) RequestAssignment(ctx context.Context, userID, projectID uuid.UUID, fieldName string, desiredCount int) (*model.FlagAssignmentModel, error) {
	if desiredCount <= 0 {
		desiredCount = 1
	}

	var out *model.FlagAssignmentModel
	for attempt := 0; attempt < claimRetries; attempt++ {
		out = nil
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := time.Now().UTC()

			// Lease kadaluarsa untuk scope ini dilepas dulu supaya flag-nya
			// langsung bisa diklaim ulang tanpa menunggu sweep periodik.
			if err := s.releaseExpiredTx(tx, now, &projectID, &fieldName); err != nil {
				return err
			}

			var flags []model.OmrFlagModel
			if err := tx.
				Where("omr_flag_project_id = ? AND omr_flag_field_name = ?", projectID, fieldName).
				Where("omr_flag_is_corrected = ?", false).
				Where("omr_flag_claimed_assignment_id IS NULL").
				Order("omr_flag_id ASC").
				Limit(desiredCount).
				Find(&flags).Error; err != nil {
				return err
			}
			if len(flags) == 0 {
				return ErrNoWorkAvailable
			}

			ids := contiguousPrefix(flags)

			asg := model.FlagAssignmentModel{
				FlagAssignmentID:          uuid.New(),
				FlagAssignmentProjectID:   projectID,
				FlagAssignmentFieldName:   fieldName,
				FlagAssignmentUserID:      userID,
				FlagAssignmentStartFlagID: ids[0],
				FlagAssignmentEndFlagID:   ids[len(ids)-1],
				FlagAssignmentAssignedAt:  now,
				FlagAssignmentExpiresAt:   now.Add(s.LeaseDuration),
			}

			res := tx.Model(&model.OmrFlagModel{}).
				Where("omr_flag_id IN ?", ids).
				Where("omr_flag_is_corrected = ? AND omr_flag_claimed_assignment_id IS NULL", false).
				Update("omr_flag_claimed_assignment_id", asg.FlagAssignmentID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != int64(len(ids)) {
				// klaim lain menyerobot sebagian range → ulang dari awal
				return errClaimConflict
			}

			if err := tx.Create(&asg).Error; err != nil {
				return err
			}

			s.Audit.Event(tx, constants.LogCategoryAssignment, &userID,
				fmt.Sprintf("assignment=%s field=%s range=[%d,%d] expires=%s",
					asg.FlagAssignmentID, fieldName, asg.FlagAssignmentStartFlagID, asg.FlagAssignmentEndFlagID,
					asg.FlagAssignmentExpiresAt.Format(time.RFC3339)))

			out = &asg
			return nil
		})
		if errors.Is(err, errClaimConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, errClaimConflict
}

// ResolveFlag menyelesaikan satu flag dalam lease caller: validasi lease,
// teruskan ke Correction Merger, tandai flag corrected. Kadaluarsa dicek
// ulang di sini (bukan cuma saat request) — resolve telat selalu ditolak.
func (s *AssignmentService) ResolveFlag(ctx context.Context, assignmentID uuid.UUID, flagID int64, newValue string, userID uuid.UUID) error {
	newValue = strings.ToUpper(strings.TrimSpace(newValue))

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var asg model.FlagAssignmentModel
		if err := tx.First(&asg, "flag_assignment_id = ?", assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAssigned
			}
			return err
		}
		if asg.FlagAssignmentUserID != userID || !asg.Covers(flagID) {
			return ErrNotAssigned
		}

		var flag model.OmrFlagModel
		if err := tx.First(&flag, "omr_flag_id = ?", flagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAssigned
			}
			return err
		}

		if flag.OmrFlagIsCorrected {
			// Idempoten: retry nilai sama = no-op (walau lease sudah selesai),
			// nilai beda = tolak.
			if flag.OmrFlagCorrectedValue != nil && *flag.OmrFlagCorrectedValue == newValue {
				return nil
			}
			return ErrAlreadyCorrected
		}

		if !asg.ActiveAt(now) {
			return ErrAssignmentExpired
		}

		// Sweep bisa saja sudah melepas claim di antara dua statement di atas.
		if flag.OmrFlagClaimedAssignmentID == nil || *flag.OmrFlagClaimedAssignmentID != assignmentID {
			return ErrAssignmentExpired
		}

		if err := s.Corrections.applyTx(tx, &flag, newValue, userID); err != nil {
			return err
		}

		res := tx.Model(&model.OmrFlagModel{}).
			Where("omr_flag_id = ? AND omr_flag_is_corrected = ? AND omr_flag_claimed_assignment_id = ?",
				flagID, false, assignmentID).
			Updates(map[string]interface{}{
				"omr_flag_is_corrected":       true,
				"omr_flag_corrected_value":    newValue,
				"omr_flag_updated_by_user_id": userID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrAssignmentExpired
		}

		s.Audit.Event(tx, constants.LogCategoryCorrection, &userID,
			fmt.Sprintf("flag=%d assignment=%s value=%s", flagID, assignmentID, newValue))

		// Semua flag dalam range beres → lease selesai lebih awal.
		var remaining int64
		if err := tx.Model(&model.OmrFlagModel{}).
			Where("omr_flag_id BETWEEN ? AND ?", asg.FlagAssignmentStartFlagID, asg.FlagAssignmentEndFlagID).
			Where("omr_flag_is_corrected = ?", false).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.Model(&model.FlagAssignmentModel{}).
				Where("flag_assignment_id = ? AND flag_assignment_released_at IS NULL", assignmentID).
				Update("flag_assignment_released_at", now).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReleaseExpired mengembalikan flag milik lease kadaluarsa ke pool terbuka.
// Aman dijalankan konkuren dengan dirinya sendiri maupun dengan ResolveFlag:
// pemenang ditentukan CAS di released_at, bukan last-writer-wins.
func (s *AssignmentService) ReleaseExpired(ctx context.Context) (int, error) {
	released := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.releaseExpiredCountTx(tx, time.Now().UTC(), nil, nil)
		released = n
		return err
	})
	return released, err
}

func (s *AssignmentService) releaseExpiredTx(tx *gorm.DB, now time.Time, projectID *uuid.UUID, fieldName *string) error {
	_, err := s.releaseExpiredCountTx(tx, now, projectID, fieldName)
	return err
}

func (s *AssignmentService) releaseExpiredCountTx(tx *gorm.DB, now time.Time, projectID *uuid.UUID, fieldName *string) (int, error) {
	q := tx.Where("flag_assignment_released_at IS NULL AND flag_assignment_expires_at <= ?", now)
	if projectID != nil {
		q = q.Where("flag_assignment_project_id = ?", *projectID)
	}
	if fieldName != nil {
		q = q.Where("flag_assignment_field_name = ?", *fieldName)
	}

	var expired []model.FlagAssignmentModel
	if err := q.Find(&expired).Error; err != nil {
		return 0, err
	}

	released := 0
	for i := range expired {
		asg := &expired[i]

		// CAS: cuma pemenang released_at yang boleh melepas flag.
		res := tx.Model(&model.FlagAssignmentModel{}).
			Where("flag_assignment_id = ? AND flag_assignment_released_at IS NULL", asg.FlagAssignmentID).
			Update("flag_assignment_released_at", now)
		if res.Error != nil {
			return released, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}

		if err := tx.Model(&model.OmrFlagModel{}).
			Where("omr_flag_claimed_assignment_id = ? AND omr_flag_is_corrected = ?", asg.FlagAssignmentID, false).
			Update("omr_flag_claimed_assignment_id", nil).Error; err != nil {
			return released, err
		}
		released++

		s.Audit.Event(tx, constants.LogCategoryAssignment, nil,
			fmt.Sprintf("assignment=%s expired, range=[%d,%d] dikembalikan ke pool",
				asg.FlagAssignmentID, asg.FlagAssignmentStartFlagID, asg.FlagAssignmentEndFlagID))
	}
	return released, nil
}

// contiguousPrefix memotong hasil scan jadi prefix yang contiguous by id,
// supaya batch reviewer deterministik & reproducible.
func contiguousPrefix(flags []model.OmrFlagModel) []int64 {
	ids := make([]int64, 0, len(flags))
	for i, f := range flags {
		if i > 0 && f.OmrFlagID != ids[i-1]+1 {
			break
		}
		ids = append(ids, f.OmrFlagID)
	}
	return ids
}
