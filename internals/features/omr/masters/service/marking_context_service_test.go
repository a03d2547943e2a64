// file: internals/features/omr/masters/service/marking_context_service_test.go
package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "omrku_backend/internals/features/omr/masters/model"
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
		&model.MarkingRuleModel{},
		&model.ResponseConfigModel{},
		&model.AnswerKeyModel{},
	))
	return db
}

func TestResolveMissingMasters(t *testing.T) {
	db := openTestDB(t)
	svc := NewMarkingContextService(db)
	projectID := uuid.New()

	_, err := svc.Resolve(nil, projectID, "MAT", "A")
	assert.ErrorIs(t, err, ErrMarkingRuleNotFound)

	rule := model.MarkingRuleModel{
		MarkingRuleID:          uuid.New(),
		MarkingRuleProjectID:   projectID,
		MarkingRuleName:        "default",
		MarkingRuleCorrectMark: 1,
	}
	require.NoError(t, db.Create(&rule).Error)

	_, err = svc.Resolve(nil, projectID, "MAT", "A")
	assert.ErrorIs(t, err, ErrResponseConfigNotFound)

	cfg := model.ResponseConfigModel{
		ResponseConfigID:         uuid.New(),
		ResponseConfigProjectID:  projectID,
		ResponseConfigCourseCode: "MAT",
	}
	require.NoError(t, cfg.SetSections([]model.SectionConfig{
		{Name: "Bagian A", StartQ: 1, EndQ: 10, Options: "ABCD", Expected: 1},
	}))
	require.NoError(t, db.Create(&cfg).Error)

	_, err = svc.Resolve(nil, projectID, "MAT", "A")
	assert.ErrorIs(t, err, ErrAnswerKeyNotFound)

	key := model.AnswerKeyModel{
		AnswerKeyID:         uuid.New(),
		AnswerKeyProjectID:  projectID,
		AnswerKeyCourseCode: "MAT",
		AnswerKeySetCode:    "A",
	}
	require.NoError(t, key.SetEntries(map[string]string{"1": "A"}))
	require.NoError(t, db.Create(&key).Error)

	mc, err := svc.Resolve(nil, projectID, "MAT", "A")
	require.NoError(t, err)
	require.Len(t, mc.Sections, 1)
	assert.Equal(t, "A", mc.Keys["1"])

	// set code lain belum punya kunci
	_, err = svc.Resolve(nil, projectID, "MAT", "B")
	assert.ErrorIs(t, err, ErrAnswerKeyNotFound)
}

func TestFieldConfigFor(t *testing.T) {
	sections := []model.SectionConfig{
		{Name: "Bagian A", StartQ: 1, EndQ: 20, Options: "ABCD", Expected: 1},
		{Name: "Bagian B", StartQ: 21, EndQ: 30, Options: "ABCDE", Expected: 2, CanBlank: true},
	}

	fc, ok := model.FieldConfigFor(sections, 5)
	require.True(t, ok)
	assert.Equal(t, "ABCD", fc.Options)
	assert.Equal(t, 1, fc.Expected)
	assert.False(t, fc.CanBlank)

	fc, ok = model.FieldConfigFor(sections, 21)
	require.True(t, ok)
	assert.Equal(t, "ABCDE", fc.Options)
	assert.Equal(t, 2, fc.Expected)
	assert.True(t, fc.CanBlank)

	_, ok = model.FieldConfigFor(sections, 31)
	assert.False(t, ok)
}
