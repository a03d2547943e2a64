// file: internals/features/omr/masters/service/marking_context_service.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "omrku_backend/internals/features/omr/masters/model"
)

var (
	ErrMarkingRuleNotFound    = errors.New("marking rule tidak ditemukan untuk project ini")
	ErrResponseConfigNotFound = errors.New("response config tidak ditemukan untuk project+course ini")
	ErrAnswerKeyNotFound      = errors.New("answer key tidak ditemukan untuk set code ini")
)

// MarkingContext: semua konteks yang dibutuhkan detektor & scoring
// untuk menginterpretasi satu record.
type MarkingContext struct {
	Rule     model.MarkingRuleModel
	Config   model.ResponseConfigModel
	Sections []model.SectionConfig
	Keys     map[string]string // nomor pertanyaan → jawaban kunci
}

type MarkingContextService struct {
	DB *gorm.DB
}

func NewMarkingContextService(db *gorm.DB) *MarkingContextService {
	return &MarkingContextService{DB: db}
}

// Resolve mencari rule + config + kunci untuk (project, course, set).
// tx boleh nil → pakai s.DB
func (s *MarkingContextService) Resolve(tx *gorm.DB, projectID uuid.UUID, courseCode, setCode string) (*MarkingContext, error) {
	db := s.DB
	if tx != nil {
		db = tx
	}

	var rule model.MarkingRuleModel
	if err := db.
		Where("marking_rule_project_id = ?", projectID).
		Order("marking_rule_created_at ASC").
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMarkingRuleNotFound
		}
		return nil, err
	}

	var cfg model.ResponseConfigModel
	if err := db.
		Where("response_config_project_id = ? AND response_config_course_code = ?", projectID, courseCode).
		First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResponseConfigNotFound
		}
		return nil, err
	}

	sections, err := cfg.Sections()
	if err != nil {
		return nil, err
	}

	var key model.AnswerKeyModel
	if err := db.
		Where("answer_key_project_id = ? AND answer_key_course_code = ? AND answer_key_set_code = ?", projectID, courseCode, setCode).
		First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerKeyNotFound
		}
		return nil, err
	}

	entries, err := key.Entries()
	if err != nil {
		return nil, err
	}

	return &MarkingContext{
		Rule:     rule,
		Config:   cfg,
		Sections: sections,
		Keys:     entries,
	}, nil
}
