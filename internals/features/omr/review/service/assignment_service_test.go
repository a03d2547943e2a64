// file: internals/features/omr/review/service/assignment_service_test.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

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
	recordModel "omrku_backend/internals/features/omr/records/model"
	recordService "omrku_backend/internals/features/omr/records/service"
	model "omrku_backend/internals/features/omr/review/model"
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
		&recordModel.OmrRecordModel{},
		&recordModel.AmbiguousItemModel{},
		&model.OmrFlagModel{},
		&model.FlagAssignmentModel{},
		&model.CorrectedOMRDataModel{},
		&logModel.EventLogModel{},
		&logModel.ErrorLogModel{},
		&logModel.ChangeLogModel{},
	))
	return db
}

// seedReviewWorld membuat project + master data lalu meng-ingest flagCount
// lembar yang masing-masing menghasilkan satu flag terbuka di Q5.
func seedReviewWorld(t *testing.T, db *gorm.DB, flagCount int) uuid.UUID {
	t.Helper()

	project := projectModel.OmrProjectModel{
		OmrProjectID:         uuid.New(),
		OmrProjectName:       "Tryout Akbar",
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
		{Name: "Bagian A", StartQ: 1, EndQ: 5, Options: "ABCD", Expected: 1, CanBlank: false},
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

	detector := recordService.NewDetectorService(db, logsService.NewAuditSink(db))
	for i := 0; i < flagCount; i++ {
		roll := fmt.Sprintf("10%02d", i+1)
		raw, err := json.Marshal(recordModel.ResponsePayload{
			RollNumber: roll,
			Responses:  map[string]string{"1": "A", "2": "B", "3": "C", "4": "D", "5": "AC"},
		})
		require.NoError(t, err)
		_, err = detector.Ingest(context.Background(), recordService.IngestInput{
			ProjectID:  project.OmrProjectID,
			Barcode:    fmt.Sprintf("B%03d", i+1),
			CourseCode: "MAT",
			SetCode:    "A",
			RollNumber: roll,
			RawPayload: raw,
		})
		require.NoError(t, err)
	}
	return project.OmrProjectID
}

func newAssignments(db *gorm.DB, lease time.Duration) *AssignmentService {
	audit := logsService.NewAuditSink(db)
	return &AssignmentService{
		DB:            db,
		Audit:         audit,
		Corrections:   NewCorrectionService(db, audit),
		LeaseDuration: lease,
	}
}

func TestRequestAssignmentExclusiveRanges(t *testing.T) {
	db := openTestDB(t)
	projectID := seedReviewWorld(t, db, 3)
	svc := newAssignments(db, 15*time.Minute)
	ctx := context.Background()

	userA, userB, userC := uuid.New(), uuid.New(), uuid.New()

	asgA, err := svc.RequestAssignment(ctx, userA, projectID, "Q5", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), asgA.FlagAssignmentEndFlagID-asgA.FlagAssignmentStartFlagID, "minta 2 → range selebar 2")

	asgB, err := svc.RequestAssignment(ctx, userB, projectID, "Q5", 5)
	require.NoError(t, err)
	assert.Equal(t, asgB.FlagAssignmentStartFlagID, asgB.FlagAssignmentEndFlagID, "sisa pool cuma 1 flag")
	assert.Greater(t, asgB.FlagAssignmentStartFlagID, asgA.FlagAssignmentEndFlagID, "range tidak boleh overlap")

	_, err = svc.RequestAssignment(ctx, userC, projectID, "Q5", 1)
	assert.ErrorIs(t, err, ErrNoWorkAvailable)
}

func TestRequestAssignmentConcurrentDisjoint(t *testing.T) {
	db := openTestDB(t)
	projectID := seedReviewWorld(t, db, 6)
	svc := newAssignments(db, 15*time.Minute)

	var mu sync.Mutex
	var granted []*model.FlagAssignmentModel

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			asg, err := svc.RequestAssignment(context.Background(), uuid.New(), projectID, "Q5", 2)
			if err != nil {
				return
			}
			mu.Lock()
			granted = append(granted, asg)
			mu.Unlock()
		}()
	}
	wg.Wait()

	claimed := map[int64]bool{}
	for _, asg := range granted {
		for id := asg.FlagAssignmentStartFlagID; id <= asg.FlagAssignmentEndFlagID; id++ {
			assert.False(t, claimed[id], "flag %d diklaim dua assignment", id)
			claimed[id] = true
		}
	}

	var unclaimed int64
	require.NoError(t, db.Model(&model.OmrFlagModel{}).
		Where("omr_flag_claimed_assignment_id IS NULL").
		Count(&unclaimed).Error)
	assert.Equal(t, int64(6-len(claimed)), unclaimed)
}

func TestResolveFlagOutsideAssignment(t *testing.T) {
	db := openTestDB(t)
	projectID := seedReviewWorld(t, db, 2)
	svc := newAssignments(db, 15*time.Minute)
	ctx := context.Background()

	userA, userB := uuid.New(), uuid.New()
	asgA, err := svc.RequestAssignment(ctx, userA, projectID, "Q5", 1)
	require.NoError(t, err)

	// flag di luar range lease A
	err = svc.ResolveFlag(ctx, asgA.FlagAssignmentID, asgA.FlagAssignmentEndFlagID+1, "C", userA)
	assert.ErrorIs(t, err, ErrNotAssigned)

	// user lain memakai assignment id milik A
	err = svc.ResolveFlag(ctx, asgA.FlagAssignmentID, asgA.FlagAssignmentStartFlagID, "C", userB)
	assert.ErrorIs(t, err, ErrNotAssigned)

	// assignment id ngaco
	err = svc.ResolveFlag(ctx, uuid.New(), asgA.FlagAssignmentStartFlagID, "C", userA)
	assert.ErrorIs(t, err, ErrNotAssigned)
}

func TestResolveFlagExpiredLease(t *testing.T) {
	db := openTestDB(t)
	projectID := seedReviewWorld(t, db, 1)
	ctx := context.Background()

	// lease negatif → langsung kadaluarsa begitu diberikan
	expiredSvc := newAssignments(db, -time.Minute)
	userA := uuid.New()
	asgA, err := expiredSvc.RequestAssignment(ctx, userA, projectID, "Q5", 1)
	require.NoError(t, err)

	err = expiredSvc.ResolveFlag(ctx, asgA.FlagAssignmentID, asgA.FlagAssignmentStartFlagID, "C", userA)
	assert.ErrorIs(t, err, ErrAssignmentExpired)

	// sweep melepas lease A, reviewer lain dapat range yang sama
	svc := newAssignments(db, 15*time.Minute)
	released, err := svc.ReleaseExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	userB := uuid.New()
	asgB, err := svc.RequestAssignment(ctx, userB, projectID, "Q5", 1)
	require.NoError(t, err)
	assert.Equal(t, asgA.FlagAssignmentStartFlagID, asgB.FlagAssignmentStartFlagID)

	// resolve telat A tetap ditolak walau flag-nya sudah pindah tangan
	err = expiredSvc.ResolveFlag(ctx, asgA.FlagAssignmentID, asgA.FlagAssignmentStartFlagID, "B", userA)
	assert.ErrorIs(t, err, ErrAssignmentExpired)

	require.NoError(t, svc.ResolveFlag(ctx, asgB.FlagAssignmentID, asgB.FlagAssignmentStartFlagID, "C", userB))
}

func TestResolveFlagIdempotent(t *testing.T) {
	db := openTestDB(t)
	projectID := seedReviewWorld(t, db, 1)
	svc := newAssignments(db, 15*time.Minute)
	ctx := context.Background()

	user := uuid.New()
	asg, err := svc.RequestAssignment(ctx, user, projectID, "Q5", 1)
	require.NoError(t, err)
	flagID := asg.FlagAssignmentStartFlagID

	require.NoError(t, svc.ResolveFlag(ctx, asg.FlagAssignmentID, flagID, "C", user))
	assert.NoError(t, svc.ResolveFlag(ctx, asg.FlagAssignmentID, flagID, "C", user), "resolve ulang nilai sama = no-op")
	assert.ErrorIs(t, svc.ResolveFlag(ctx, asg.FlagAssignmentID, flagID, "B", user), ErrAlreadyCorrected)

	var rows int64
	require.NoError(t, db.Model(&model.CorrectedOMRDataModel{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows, "jejak koreksi hanya ditulis sekali")
}

func TestResolveFlagInvalidValue(t *testing.T) {
	db := openTestDB(t)
	projectID := seedReviewWorld(t, db, 1)
	svc := newAssignments(db, 15*time.Minute)
	ctx := context.Background()

	user := uuid.New()
	asg, err := svc.RequestAssignment(ctx, user, projectID, "Q5", 1)
	require.NoError(t, err)
	flagID := asg.FlagAssignmentStartFlagID

	assert.ErrorIs(t, svc.ResolveFlag(ctx, asg.FlagAssignmentID, flagID, "Z", user), ErrInvalidFieldValue)
	assert.ErrorIs(t, svc.ResolveFlag(ctx, asg.FlagAssignmentID, flagID, "", user), ErrInvalidFieldValue)
	assert.ErrorIs(t, svc.ResolveFlag(ctx, asg.FlagAssignmentID, flagID, "AB", user), ErrInvalidFieldValue)

	var flag model.OmrFlagModel
	require.NoError(t, db.First(&flag, "omr_flag_id = ?", flagID).Error)
	assert.False(t, flag.OmrFlagIsCorrected, "nilai invalid tidak boleh menutup flag")
}

func TestResolveFlagMergesCorrectionIntoRecord(t *testing.T) {
	db := openTestDB(t)
	projectID := seedReviewWorld(t, db, 1)
	svc := newAssignments(db, 15*time.Minute)
	ctx := context.Background()

	user := uuid.New()
	asg, err := svc.RequestAssignment(ctx, user, projectID, "Q5", 1)
	require.NoError(t, err)
	require.NoError(t, svc.ResolveFlag(ctx, asg.FlagAssignmentID, asg.FlagAssignmentStartFlagID, "c", user))

	var rec recordModel.OmrRecordModel
	require.NoError(t, db.First(&rec, "omr_record_barcode = ?", "B001").Error)
	assert.Equal(t, constants.RecordStatusCorrected, rec.OmrRecordStatus)

	payload, err := rec.DecodeEffective()
	require.NoError(t, err)
	assert.Equal(t, "C", payload.Responses["5"], "nilai reviewer dinormalisasi ke kapital lalu di-merge")
	assert.Equal(t, "A", payload.Responses["1"], "jawaban clean ikut terbawa di payload efektif")

	raw, err := rec.DecodeRaw()
	require.NoError(t, err)
	assert.Equal(t, "AC", raw.Responses["5"], "payload mentah tidak boleh berubah")

	var project projectModel.OmrProjectModel
	require.NoError(t, db.First(&project, "omr_project_id = ?", projectID).Error)
	assert.Equal(t, constants.ProjectStatusReviewed, project.OmrProjectStatus)

	// semua flag range beres → lease dilepas lebih awal
	var after model.FlagAssignmentModel
	require.NoError(t, db.First(&after, "flag_assignment_id = ?", asg.FlagAssignmentID).Error)
	assert.NotNil(t, after.FlagAssignmentReleasedAt)
}

func TestResolveProjectScopeFlag(t *testing.T) {
	db := openTestDB(t)
	projectID := seedReviewWorld(t, db, 1)
	svc := newAssignments(db, 15*time.Minute)
	ctx := context.Background()

	// flag level-project: barcode NULL, tidak nempel ke record manapun
	observed := "10?1"
	remarks := "roll number tidak terbaca"
	flag := model.OmrFlagModel{
		OmrFlagProjectID:  projectID,
		OmrFlagFieldName:  "roll_number",
		OmrFlagFieldValue: &observed,
		OmrFlagRemarks:    &remarks,
		OmrFlagAuditCycle: 1,
	}
	require.NoError(t, db.Create(&flag).Error)

	user := uuid.New()
	asg, err := svc.RequestAssignment(ctx, user, projectID, "roll_number", 1)
	require.NoError(t, err)
	require.NoError(t, svc.ResolveFlag(ctx, asg.FlagAssignmentID, flag.OmrFlagID, "1051", user))

	var row model.CorrectedOMRDataModel
	require.NoError(t, db.First(&row, "corrected_omr_data_flag_id = ?", flag.OmrFlagID).Error)
	assert.Equal(t, "1051", row.CorrectedOMRDataNewValue)
	assert.Nil(t, row.CorrectedOMRDataBarcode)

	// record Q5 masih needs_review, tidak tersentuh koreksi level-project
	var rec recordModel.OmrRecordModel
	require.NoError(t, db.First(&rec, "omr_record_barcode = ?", "B001").Error)
	assert.Equal(t, constants.RecordStatusNeedsReview, rec.OmrRecordStatus)
}
