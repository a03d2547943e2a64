// file: internals/features/omr/records/service/detector_service_test.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"omrku_backend/internals/constants"
	logModel "omrku_backend/internals/features/logs/model"
	logsService "omrku_backend/internals/features/logs/service"
	mastersModel "omrku_backend/internals/features/omr/masters/model"
	projectModel "omrku_backend/internals/features/omr/projects/model"
	model "omrku_backend/internals/features/omr/records/model"
	reviewModel "omrku_backend/internals/features/omr/review/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&mastersModel.MarkingRuleModel{},
		&mastersModel.ResponseConfigModel{},
		&mastersModel.AnswerKeyModel{},
		&projectModel.OmrProjectModel{},
		&model.OmrRecordModel{},
		&model.AmbiguousItemModel{},
		&reviewModel.OmrFlagModel{},
		&reviewModel.FlagAssignmentModel{},
		&reviewModel.CorrectedOMRDataModel{},
		&logModel.EventLogModel{},
		&logModel.ErrorLogModel{},
		&logModel.ChangeLogModel{},
	))
	return db
}

func seedMasters(t *testing.T, db *gorm.DB, canBlank bool) uuid.UUID {
	t.Helper()

	project := projectModel.OmrProjectModel{
		OmrProjectID:         uuid.New(),
		OmrProjectName:       "Ujian Semester Ganjil",
		OmrProjectStatus:     constants.ProjectStatusIngested,
		OmrProjectAuditCycle: 1,
	}
	require.NoError(t, db.Create(&project).Error)

	rule := mastersModel.MarkingRuleModel{
		MarkingRuleID:          uuid.New(),
		MarkingRuleProjectID:   project.OmrProjectID,
		MarkingRuleName:        "negative 1/4",
		MarkingRuleCorrectMark: 1,
		MarkingRuleWrongMark:   -0.25,
		MarkingRuleBlankMark:   0,
	}
	require.NoError(t, db.Create(&rule).Error)

	cfg := mastersModel.ResponseConfigModel{
		ResponseConfigID:         uuid.New(),
		ResponseConfigProjectID:  project.OmrProjectID,
		ResponseConfigCourseCode: "MAT",
	}
	require.NoError(t, cfg.SetSections([]mastersModel.SectionConfig{
		{Name: "Bagian A", StartQ: 1, EndQ: 5, Options: "ABCD", Expected: 1, CanBlank: canBlank},
	}))
	require.NoError(t, db.Create(&cfg).Error)

	key := mastersModel.AnswerKeyModel{
		AnswerKeyID:         uuid.New(),
		AnswerKeyProjectID:  project.OmrProjectID,
		AnswerKeyCourseCode: "MAT",
		AnswerKeySetCode:    "A",
	}
	require.NoError(t, key.SetEntries(map[string]string{
		"1": "A", "2": "B", "3": "C", "4": "D", "5": "C",
	}))
	require.NoError(t, db.Create(&key).Error)

	return project.OmrProjectID
}

func rawPayload(t *testing.T, roll string, responses map[string]string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(model.ResponsePayload{RollNumber: roll, Responses: responses})
	require.NoError(t, err)
	return raw
}

func newDetector(db *gorm.DB) *DetectorService {
	return NewDetectorService(db, logsService.NewAuditSink(db))
}

func TestDetectCleanRecord(t *testing.T) {
	db := openTestDB(t)
	projectID := seedMasters(t, db, false)
	svc := newDetector(db)

	rec, err := svc.Ingest(context.Background(), IngestInput{
		ProjectID:  projectID,
		Barcode:    "B001",
		CourseCode: "MAT",
		SetCode:    "A",
		RollNumber: "1001",
		RawPayload: rawPayload(t, "1001", map[string]string{
			"1": "A", "2": "B", "3": "C", "4": "D", "5": "C",
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RecordStatusClean, rec.OmrRecordStatus)

	var flags int64
	require.NoError(t, db.Model(&reviewModel.OmrFlagModel{}).Count(&flags).Error)
	assert.Zero(t, flags, "record clean tidak boleh menghasilkan flag")
}

func TestDetectAmbiguousCreatesFlagAndItem(t *testing.T) {
	db := openTestDB(t)
	projectID := seedMasters(t, db, false)
	svc := newDetector(db)

	rec, err := svc.Ingest(context.Background(), IngestInput{
		ProjectID:  projectID,
		Barcode:    "B001",
		CourseCode: "MAT",
		SetCode:    "A",
		RollNumber: "1001",
		RawPayload: rawPayload(t, "1001", map[string]string{
			"1": "A", "2": "B", "3": "C", "4": "D", "5": "AC",
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RecordStatusNeedsReview, rec.OmrRecordStatus)

	var items []model.AmbiguousItemModel
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].AmbiguousItemQuestionNo)
	assert.Equal(t, model.AmbiguousReasonMultiMark, items[0].AmbiguousItemReason)
	assert.Equal(t, "AC", items[0].AmbiguousItemObserved)

	var flags []reviewModel.OmrFlagModel
	require.NoError(t, db.Find(&flags).Error)
	require.Len(t, flags, 1)
	assert.Equal(t, "Q5", flags[0].OmrFlagFieldName)
	assert.False(t, flags[0].OmrFlagIsCorrected)
	require.NotNil(t, flags[0].OmrFlagBarcode)
	assert.Equal(t, "B001", *flags[0].OmrFlagBarcode)
}

func TestDetectBlankPolicy(t *testing.T) {
	payload := map[string]string{"1": "A", "2": "B", "3": "C", "4": "D", "5": ""}

	t.Run("blank dilarang → ambigu", func(t *testing.T) {
		db := openTestDB(t)
		projectID := seedMasters(t, db, false)
		svc := newDetector(db)

		rec, err := svc.Ingest(context.Background(), IngestInput{
			ProjectID: projectID, Barcode: "B001", CourseCode: "MAT", SetCode: "A",
			RollNumber: "1001", RawPayload: rawPayload(t, "1001", payload),
		})
		require.NoError(t, err)
		assert.Equal(t, constants.RecordStatusNeedsReview, rec.OmrRecordStatus)

		var item model.AmbiguousItemModel
		require.NoError(t, db.First(&item).Error)
		assert.Equal(t, model.AmbiguousReasonBlank, item.AmbiguousItemReason)
	})

	t.Run("blank diizinkan → clean", func(t *testing.T) {
		db := openTestDB(t)
		projectID := seedMasters(t, db, true)
		svc := newDetector(db)

		rec, err := svc.Ingest(context.Background(), IngestInput{
			ProjectID: projectID, Barcode: "B001", CourseCode: "MAT", SetCode: "A",
			RollNumber: "1001", RawPayload: rawPayload(t, "1001", payload),
		})
		require.NoError(t, err)
		assert.Equal(t, constants.RecordStatusClean, rec.OmrRecordStatus)
	})
}

func TestDetectUnreadableMark(t *testing.T) {
	db := openTestDB(t)
	projectID := seedMasters(t, db, false)
	svc := newDetector(db)

	rec, err := svc.Ingest(context.Background(), IngestInput{
		ProjectID: projectID, Barcode: "B001", CourseCode: "MAT", SetCode: "A",
		RollNumber: "1001",
		RawPayload: rawPayload(t, "1001", map[string]string{
			"1": "A", "2": "B", "3": "*", "4": "D", "5": "C",
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RecordStatusNeedsReview, rec.OmrRecordStatus)

	var item model.AmbiguousItemModel
	require.NoError(t, db.First(&item).Error)
	assert.Equal(t, model.AmbiguousReasonUnreadable, item.AmbiguousItemReason)
}

func TestDetectMalformedPayloadParksRecord(t *testing.T) {
	db := openTestDB(t)
	projectID := seedMasters(t, db, false)
	svc := newDetector(db)

	rec, err := svc.Ingest(context.Background(), IngestInput{
		ProjectID: projectID, Barcode: "B001", CourseCode: "MAT", SetCode: "A",
		RollNumber: "1001",
		RawPayload: json.RawMessage(`{"bukan":"payload omr"}`),
	})
	require.ErrorIs(t, err, ErrExtractionFailed)
	require.NotNil(t, rec)
	assert.Equal(t, constants.RecordStatusExtractionFailed, rec.OmrRecordStatus)

	var errorLogs int64
	require.NoError(t, db.Model(&logModel.ErrorLogModel{}).Count(&errorLogs).Error)
	assert.Equal(t, int64(1), errorLogs)
}

func TestReingestDoesNotDuplicateOpenFlags(t *testing.T) {
	db := openTestDB(t)
	projectID := seedMasters(t, db, false)
	svc := newDetector(db)

	in := IngestInput{
		ProjectID: projectID, Barcode: "B001", CourseCode: "MAT", SetCode: "A",
		RollNumber: "1001",
		RawPayload: rawPayload(t, "1001", map[string]string{
			"1": "A", "2": "B", "3": "C", "4": "D", "5": "AC",
		}),
	}

	_, err := svc.Ingest(context.Background(), in)
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), in)
	require.NoError(t, err)

	var flags int64
	require.NoError(t, db.Model(&reviewModel.OmrFlagModel{}).
		Where("omr_flag_is_corrected = ?", false).
		Count(&flags).Error)
	assert.Equal(t, int64(1), flags, "re-ekstraksi tidak boleh menduplikasi flag terbuka")

	var records int64
	require.NoError(t, db.Model(&model.OmrRecordModel{}).Count(&records).Error)
	assert.Equal(t, int64(1), records, "(barcode, project) harus tetap unik")
}
