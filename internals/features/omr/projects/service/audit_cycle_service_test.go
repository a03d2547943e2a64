// file: internals/features/omr/projects/service/audit_cycle_service_test.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"omrku_backend/internals/constants"
	logModel "omrku_backend/internals/features/logs/model"
	logsService "omrku_backend/internals/features/logs/service"
	model "omrku_backend/internals/features/omr/projects/model"
	recordModel "omrku_backend/internals/features/omr/records/model"
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
		&model.OmrProjectModel{},
		&recordModel.OmrRecordModel{},
		&recordModel.AmbiguousItemModel{},
		&reviewModel.OmrFlagModel{},
		&reviewModel.FlagAssignmentModel{},
		&logModel.EventLogModel{},
		&logModel.ErrorLogModel{},
		&logModel.ChangeLogModel{},
	))
	return db
}

func newCycleService(db *gorm.DB) *AuditCycleService {
	return NewAuditCycleService(db, logsService.NewAuditSink(db))
}

func seedRecord(t *testing.T, db *gorm.DB, projectID uuid.UUID, barcode, status string) *recordModel.OmrRecordModel {
	t.Helper()
	raw, err := json.Marshal(recordModel.ResponsePayload{
		RollNumber: "1001",
		Responses:  map[string]string{"1": "A"},
	})
	require.NoError(t, err)
	rec := recordModel.OmrRecordModel{
		OmrRecordID:         uuid.New(),
		OmrRecordBarcode:    barcode,
		OmrRecordProjectID:  projectID,
		OmrRecordCourseCode: "MAT",
		OmrRecordSetCode:    "A",
		OmrRecordRollNumber: "1001",
		OmrRecordRawPayload: datatypes.JSON(raw),
		OmrRecordStatus:     status,
		OmrRecordAuditCycle: 1,
	}
	require.NoError(t, db.Create(&rec).Error)
	return &rec
}

func TestCreateProjectStartsAtCycleOne(t *testing.T) {
	db := openTestDB(t)
	svc := newCycleService(db)

	project, err := svc.CreateProject(context.Background(), "  Seleksi Mandiri  ")
	require.NoError(t, err)
	assert.Equal(t, "Seleksi Mandiri", project.OmrProjectName)
	assert.Equal(t, constants.ProjectStatusIngested, project.OmrProjectStatus)
	assert.Equal(t, 1, project.OmrProjectAuditCycle)

	_, err = svc.GetProject(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestStartAuditCycleResetsUnfinishedRecords(t *testing.T) {
	db := openTestDB(t)
	svc := newCycleService(db)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, "Ujian Akhir")
	require.NoError(t, err)
	projectID := project.OmrProjectID

	seedRecord(t, db, projectID, "B001", constants.RecordStatusScored)
	seedRecord(t, db, projectID, "B002", constants.RecordStatusCorrected)
	seedRecord(t, db, projectID, "B003", constants.RecordStatusNeedsReview)
	seedRecord(t, db, projectID, "B004", constants.RecordStatusClean)
	seedRecord(t, db, projectID, "B005", constants.RecordStatusExtractionFailed)

	updated, err := svc.StartAuditCycle(ctx, projectID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, updated.OmrProjectAuditCycle)
	assert.Equal(t, constants.ProjectStatusReaudited, updated.OmrProjectStatus)

	wantStatus := map[string]string{
		"B001": constants.RecordStatusScored,    // hasil final siklus lama dipertahankan
		"B002": constants.RecordStatusCorrected, // resolusi lama tidak di-replay
		"B003": constants.RecordStatusPending,
		"B004": constants.RecordStatusPending,
		"B005": constants.RecordStatusPending, // parkir → dapat kesempatan re-ekstraksi
	}
	for barcode, want := range wantStatus {
		var rec recordModel.OmrRecordModel
		require.NoError(t, db.First(&rec, "omr_record_barcode = ?", barcode).Error)
		assert.Equal(t, want, rec.OmrRecordStatus, "barcode %s", barcode)
		if want == constants.RecordStatusPending {
			assert.Equal(t, 2, rec.OmrRecordAuditCycle)
		} else {
			assert.Equal(t, 1, rec.OmrRecordAuditCycle)
		}
	}
}

func TestStartAuditCycleRejectsActiveLease(t *testing.T) {
	db := openTestDB(t)
	svc := newCycleService(db)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, "Ujian Akhir")
	require.NoError(t, err)

	now := time.Now().UTC()
	asg := reviewModel.FlagAssignmentModel{
		FlagAssignmentID:          uuid.New(),
		FlagAssignmentProjectID:   project.OmrProjectID,
		FlagAssignmentFieldName:   "Q5",
		FlagAssignmentUserID:      uuid.New(),
		FlagAssignmentStartFlagID: 1,
		FlagAssignmentEndFlagID:   3,
		FlagAssignmentAssignedAt:  now,
		FlagAssignmentExpiresAt:   now.Add(10 * time.Minute),
	}
	require.NoError(t, db.Create(&asg).Error)

	_, err = svc.StartAuditCycle(ctx, project.OmrProjectID, uuid.New())
	assert.ErrorIs(t, err, ErrCycleInProgress)

	// lease kadaluarsa tidak lagi menghalangi siklus baru
	require.NoError(t, db.Model(&reviewModel.FlagAssignmentModel{}).
		Where("flag_assignment_id = ?", asg.FlagAssignmentID).
		Update("flag_assignment_expires_at", now.Add(-time.Minute)).Error)

	updated, err := svc.StartAuditCycle(ctx, project.OmrProjectID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, updated.OmrProjectAuditCycle)
}

func TestStartAuditCycleUnknownProject(t *testing.T) {
	db := openTestDB(t)
	svc := newCycleService(db)

	_, err := svc.StartAuditCycle(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
