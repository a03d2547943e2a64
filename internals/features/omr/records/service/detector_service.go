// file: internals/features/omr/records/service/detector_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"omrku_backend/internals/constants"
	logsService "omrku_backend/internals/features/logs/service"
	mastersModel "omrku_backend/internals/features/omr/masters/model"
	mastersService "omrku_backend/internals/features/omr/masters/service"
	projectModel "omrku_backend/internals/features/omr/projects/model"
	model "omrku_backend/internals/features/omr/records/model"
	reviewModel "omrku_backend/internals/features/omr/review/model"
)

var (
	ErrExtractionFailed = errors.New("payload ekstraksi tidak bisa diparse")
	ErrProjectNotFound  = errors.New("project tidak ditemukan")
	ErrRecordNotFound   = errors.New("record tidak ditemukan")
)

// FieldNameForQuestion: nama field flag untuk pertanyaan n, mis. "Q12".
func FieldNameForQuestion(n int) string {
	return "Q" + strconv.Itoa(n)
}

// ParseQuestionField kebalikan FieldNameForQuestion. ok=false untuk
// field non-pertanyaan (mis. flag level-project).
func ParseQuestionField(field string) (int, bool) {
	if !strings.HasPrefix(field, "Q") {
		return 0, false
	}
	n, err := strconv.Atoi(field[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

/* =========================================================
   Detektor ambiguitas
========================================================= */

type DetectorService struct {
	DB      *gorm.DB
	Masters *mastersService.MarkingContextService
	Audit   *logsService.AuditSink
}

func NewDetectorService(db *gorm.DB, audit *logsService.AuditSink) *DetectorService {
	return &DetectorService{
		DB:      db,
		Masters: mastersService.NewMarkingContextService(db),
		Audit:   audit,
	}
}

type IngestInput struct {
	ProjectID  uuid.UUID
	Barcode    string
	CourseCode string
	SetCode    string
	RollNumber string
	RawPayload json.RawMessage
}

// Ingest meng-upsert record hasil ekstraksi lalu langsung menjalankan deteksi.
// Re-ingest barcode yang sama = re-ekstraksi: payload mentah ditimpa, status
// balik ke pending. Payload terkoreksi ikut di-reset karena turunan raw lama;
// riwayat koreksi tetap ada di corrected_omr_data.
func (s *DetectorService) Ingest(ctx context.Context, in IngestInput) (*model.OmrRecordModel, error) {
	var project projectModel.OmrProjectModel
	if err := s.DB.WithContext(ctx).
		First(&project, "omr_project_id = ?", in.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	var rec model.OmrRecordModel
	err := s.DB.WithContext(ctx).
		Where("omr_record_barcode = ? AND omr_record_project_id = ?", in.Barcode, in.ProjectID).
		First(&rec).Error
	switch {
	case err == nil:
		rec.OmrRecordRawPayload = datatypes.JSON(in.RawPayload)
		rec.OmrRecordCorrectedPayload = nil
		rec.OmrRecordStatus = constants.RecordStatusPending
		rec.OmrRecordCourseCode = in.CourseCode
		rec.OmrRecordSetCode = in.SetCode
		rec.OmrRecordRollNumber = in.RollNumber
		rec.OmrRecordAuditCycle = project.OmrProjectAuditCycle
		if err := s.DB.WithContext(ctx).Save(&rec).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = model.OmrRecordModel{
			OmrRecordID:         uuid.New(),
			OmrRecordBarcode:    in.Barcode,
			OmrRecordProjectID:  in.ProjectID,
			OmrRecordCourseCode: in.CourseCode,
			OmrRecordSetCode:    in.SetCode,
			OmrRecordRollNumber: in.RollNumber,
			OmrRecordRawPayload: datatypes.JSON(in.RawPayload),
			OmrRecordStatus:     constants.RecordStatusPending,
			OmrRecordAuditCycle: project.OmrProjectAuditCycle,
		}
		if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.Detect(ctx, &rec); err != nil {
		return &rec, err
	}
	return &rec, nil
}

// Detect mengklasifikasi semua pertanyaan satu record dan membuat
// AmbiguousItem + Flag untuk yang ambigu. Idempoten: flag terbuka yang
// sudah ada untuk (project, barcode, field) tidak diduplikasi.
func (s *DetectorService) Detect(ctx context.Context, rec *model.OmrRecordModel) error {
	mc, err := s.Masters.Resolve(nil, rec.OmrRecordProjectID, rec.OmrRecordCourseCode, rec.OmrRecordSetCode)
	if err != nil {
		return err
	}

	payload, decodeErr := rec.DecodeRaw()
	if decodeErr == nil && strings.TrimSpace(payload.RollNumber) == "" {
		decodeErr = errors.New("roll_number kosong")
	}
	if decodeErr != nil {
		// Payload rusak → parkir record, jangan ikut scoring sampai re-ekstraksi.
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(rec).
				Update("omr_record_status", constants.RecordStatusExtractionFailed).Error; err != nil {
				return err
			}
			s.Audit.Error(tx, constants.LogCategoryDetection, nil,
				fmt.Sprintf("barcode=%s project=%s: %v", rec.OmrRecordBarcode, rec.OmrRecordProjectID, decodeErr))
			rec.OmrRecordStatus = constants.RecordStatusExtractionFailed
			return nil
		})
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: %v", ErrExtractionFailed, decodeErr)
	}

	type ambiguity struct {
		questionNo int
		observed   string
		reason     string
	}
	var found []ambiguity

	for _, sec := range mc.Sections {
		for q := sec.StartQ; q <= sec.EndQ; q++ {
			fc, _ := mastersModel.FieldConfigFor(mc.Sections, q)
			resp := normalizeResponse(payload.Responses[strconv.Itoa(q)])

			if reason, ambiguous := classify(resp, fc); ambiguous {
				found = append(found, ambiguity{questionNo: q, observed: resp, reason: reason})
			}
		}
	}

	status := constants.RecordStatusClean
	if len(found) > 0 {
		status = constants.RecordStatusNeedsReview
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range found {
			item := model.AmbiguousItemModel{
				AmbiguousItemID:            uuid.New(),
				AmbiguousItemProjectID:     rec.OmrRecordProjectID,
				AmbiguousItemMarkingRuleID: mc.Rule.MarkingRuleID,
				AmbiguousItemBarcode:       rec.OmrRecordBarcode,
				AmbiguousItemSetCode:       rec.OmrRecordSetCode,
				AmbiguousItemQuestionNo:    a.questionNo,
				AmbiguousItemObserved:      a.observed,
				AmbiguousItemReason:        a.reason,
				AmbiguousItemAuditCycle:    rec.OmrRecordAuditCycle,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			fieldName := FieldNameForQuestion(a.questionNo)
			var existing int64
			if err := tx.Model(&reviewModel.OmrFlagModel{}).
				Where("omr_flag_project_id = ? AND omr_flag_barcode = ? AND omr_flag_field_name = ? AND omr_flag_is_corrected = ?",
					rec.OmrRecordProjectID, rec.OmrRecordBarcode, fieldName, false).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}

			observed := a.observed
			remarks := a.reason
			flag := reviewModel.OmrFlagModel{
				OmrFlagProjectID:  rec.OmrRecordProjectID,
				OmrFlagFieldName:  fieldName,
				OmrFlagBarcode:    &rec.OmrRecordBarcode,
				OmrFlagFieldValue: &observed,
				OmrFlagRemarks:    &remarks,
				OmrFlagAuditCycle: rec.OmrRecordAuditCycle,
			}
			if err := tx.Create(&flag).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(rec).Update("omr_record_status", status).Error; err != nil {
			return err
		}
		rec.OmrRecordStatus = status

		s.Audit.Event(tx, constants.LogCategoryDetection, nil,
			fmt.Sprintf("barcode=%s project=%s status=%s ambiguous=%d",
				rec.OmrRecordBarcode, rec.OmrRecordProjectID, status, len(found)))
		return nil
	})
}

// DetectPending menjalankan deteksi untuk semua record pending satu project
// (input set siklus audit). Record yang gagal ekstraksi dicatat & dilewati.
func (s *DetectorService) DetectPending(ctx context.Context, projectID uuid.UUID) (int, error) {
	var records []model.OmrRecordModel
	if err := s.DB.WithContext(ctx).
		Where("omr_record_project_id = ? AND omr_record_status = ?", projectID, constants.RecordStatusPending).
		Order("omr_record_barcode ASC").
		Find(&records).Error; err != nil {
		return 0, err
	}

	done := 0
	for i := range records {
		if err := s.Detect(ctx, &records[i]); err != nil {
			continue
		}
		done++
	}
	return done, nil
}

/* =========================================================
   Klasifikasi per pertanyaan
========================================================= */

func normalizeResponse(raw string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
}

// classify mengembalikan (reason, true) kalau jawaban ambigu.
func classify(resp string, fc mastersModel.FieldConfig) (string, bool) {
	if resp == "" {
		if fc.CanBlank {
			return "", false
		}
		return model.AmbiguousReasonBlank, true
	}
	if strings.ContainsAny(resp, "*?") {
		return model.AmbiguousReasonUnreadable, true
	}
	for _, r := range resp {
		if !strings.ContainsRune(fc.Options, r) {
			return model.AmbiguousReasonBadOption, true
		}
	}
	if len(resp) > fc.Expected {
		return model.AmbiguousReasonMultiMark, true
	}
	if len(resp) < fc.Expected {
		return model.AmbiguousReasonCardinality, true
	}
	return "", false
}
