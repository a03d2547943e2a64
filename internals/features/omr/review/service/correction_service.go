// file: internals/features/omr/review/service/correction_service.go
package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"omrku_backend/internals/constants"
	logsService "omrku_backend/internals/features/logs/service"
	mastersModel "omrku_backend/internals/features/omr/masters/model"
	mastersService "omrku_backend/internals/features/omr/masters/service"
	projectModel "omrku_backend/internals/features/omr/projects/model"
	recordModel "omrku_backend/internals/features/omr/records/model"
	recordService "omrku_backend/internals/features/omr/records/service"
	model "omrku_backend/internals/features/omr/review/model"
)

var (
	ErrInvalidFieldValue = errors.New("nilai koreksi di luar domain field")
	ErrAlreadyCorrected  = errors.New("flag sudah dikoreksi dengan nilai berbeda")
)

/* =========================================================
   Correction Merger — menerapkan nilai reviewer ke record.
   Selalu jalan di dalam transaksi ResolveFlag (applyTx).
========================================================= */

type CorrectionService struct {
	DB      *gorm.DB
	Audit   *logsService.AuditSink
	Masters *mastersService.MarkingContextService
}

func NewCorrectionService(db *gorm.DB, audit *logsService.AuditSink) *CorrectionService {
	return &CorrectionService{
		DB:      db,
		Audit:   audit,
		Masters: mastersService.NewMarkingContextService(db),
	}
}

// applyTx memvalidasi nilai baru, menulis jejak corrected_omr_data, dan
// (untuk flag ber-barcode) merge ke payload terkoreksi record + advance
// status. Flag level-project (barcode NULL) tidak punya record → cukup
// jejak koreksinya.
func (s *CorrectionService) applyTx(tx *gorm.DB, flag *model.OmrFlagModel, newValue string, userID uuid.UUID) error {
	newValue = strings.ToUpper(strings.TrimSpace(newValue))

	var rec *recordModel.OmrRecordModel
	if flag.OmrFlagBarcode != nil {
		var r recordModel.OmrRecordModel
		if err := tx.
			Where("omr_record_barcode = ? AND omr_record_project_id = ?", *flag.OmrFlagBarcode, flag.OmrFlagProjectID).
			First(&r).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recordService.ErrRecordNotFound
			}
			return err
		}
		rec = &r

		qn, ok := recordService.ParseQuestionField(flag.OmrFlagFieldName)
		if !ok {
			return fmt.Errorf("field %q bukan field pertanyaan padahal flag ber-barcode", flag.OmrFlagFieldName)
		}

		mc, err := s.Masters.Resolve(tx, rec.OmrRecordProjectID, rec.OmrRecordCourseCode, rec.OmrRecordSetCode)
		if err != nil {
			return err
		}
		fc, ok := mastersModel.FieldConfigFor(mc.Sections, qn)
		if !ok {
			return fmt.Errorf("pertanyaan %d di luar semua section response config", qn)
		}
		if err := validateCorrection(newValue, fc); err != nil {
			return err
		}

		payload, err := rec.DecodeEffective()
		if err != nil {
			return err
		}
		payload.Responses[strconv.Itoa(qn)] = newValue
		if err := rec.SetCorrected(payload); err != nil {
			return err
		}
		if err := tx.Model(rec).
			Update("omr_record_corrected_payload", rec.OmrRecordCorrectedPayload).Error; err != nil {
			return err
		}
	} else if newValue == "" {
		return ErrInvalidFieldValue
	}

	row := model.CorrectedOMRDataModel{
		CorrectedOMRDataID:          uuid.New(),
		CorrectedOMRDataFlagID:      flag.OmrFlagID,
		CorrectedOMRDataProjectID:   flag.OmrFlagProjectID,
		CorrectedOMRDataBarcode:     flag.OmrFlagBarcode,
		CorrectedOMRDataFieldName:   flag.OmrFlagFieldName,
		CorrectedOMRDataRawValue:    flag.OmrFlagFieldValue,
		CorrectedOMRDataNewValue:    newValue,
		CorrectedOMRDataCorrectedBy: userID,
	}
	if err := tx.Create(&row).Error; err != nil {
		return err
	}

	before := ""
	if flag.OmrFlagFieldValue != nil {
		before = *flag.OmrFlagFieldValue
	}
	s.Audit.Change(tx, constants.LogCategoryCorrection, &userID, before, newValue)

	if rec != nil {
		// Flag ini dianggap selesai (di-mark corrected oleh caller dalam tx
		// yang sama), jadi sisa open flag dihitung tanpa dia.
		var remaining int64
		if err := tx.Model(&model.OmrFlagModel{}).
			Where("omr_flag_project_id = ? AND omr_flag_barcode = ?", rec.OmrRecordProjectID, rec.OmrRecordBarcode).
			Where("omr_flag_is_corrected = ? AND omr_flag_id <> ?", false, flag.OmrFlagID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.Model(rec).
				Where("omr_record_status = ?", constants.RecordStatusNeedsReview).
				Update("omr_record_status", constants.RecordStatusCorrected).Error; err != nil {
				return err
			}
			rec.OmrRecordStatus = constants.RecordStatusCorrected

			// Record terakhir yang butuh review selesai → project maju ke reviewed.
			var outstanding int64
			if err := tx.Model(&recordModel.OmrRecordModel{}).
				Where("omr_record_project_id = ?", rec.OmrRecordProjectID).
				Where("omr_record_status IN ?", []string{constants.RecordStatusPending, constants.RecordStatusNeedsReview}).
				Count(&outstanding).Error; err != nil {
				return err
			}
			if outstanding == 0 {
				if err := tx.Model(&projectModel.OmrProjectModel{}).
					Where("omr_project_id = ?", rec.OmrRecordProjectID).
					Where("omr_project_status IN ?", []string{constants.ProjectStatusIngested, constants.ProjectStatusReaudited}).
					Update("omr_project_status", constants.ProjectStatusReviewed).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// validateCorrection: nilai koreksi harus memenuhi syarat jawaban clean.
func validateCorrection(value string, fc mastersModel.FieldConfig) error {
	if value == "" {
		if fc.CanBlank {
			return nil
		}
		return ErrInvalidFieldValue
	}
	for _, r := range value {
		if !strings.ContainsRune(fc.Options, r) {
			return ErrInvalidFieldValue
		}
	}
	if len(value) != fc.Expected {
		return ErrInvalidFieldValue
	}
	return nil
}

// HistoryByBarcode: riwayat koreksi satu lembar, untuk layar re-audit.
func (s *CorrectionService) HistoryByBarcode(projectID uuid.UUID, barcode string) ([]model.CorrectedOMRDataModel, error) {
	var rows []model.CorrectedOMRDataModel
	err := s.DB.
		Where("corrected_omr_data_project_id = ? AND corrected_omr_data_barcode = ?", projectID, barcode).
		Order("corrected_omr_data_created_at ASC").
		Find(&rows).Error
	return rows, err
}
