// file: internals/features/omr/scoring/service/scoring_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"omrku_backend/internals/constants"
	logsService "omrku_backend/internals/features/logs/service"
	mastersService "omrku_backend/internals/features/omr/masters/service"
	recordModel "omrku_backend/internals/features/omr/records/model"
	model "omrku_backend/internals/features/omr/scoring/model"
)

var (
	ErrRecordNotScoreable = errors.New("record belum clean/corrected, tidak bisa di-skor")
	ErrScoreNotFound      = errors.New("score tidak ditemukan")
)

/* =========================================================
   Scoring Engine — fungsi murni atas (payload, config, kunci, rule).
   Input sama → hasil bit-identik, berapa kali pun dihitung ulang.
========================================================= */

type ScoringService struct {
	DB      *gorm.DB
	Audit   *logsService.AuditSink
	Masters *mastersService.MarkingContextService
}

func NewScoringService(db *gorm.DB, audit *logsService.AuditSink) *ScoringService {
	return &ScoringService{
		DB:      db,
		Audit:   audit,
		Masters: mastersService.NewMarkingContextService(db),
	}
}

// ScoreRecord menghitung & mempersist skor satu record clean/corrected.
// Record scored boleh dihitung ulang (derived data). Serialisasi per-record
// lewat CAS status: record yang lagi dimerge koreksinya tidak akan lolos.
func (s *ScoringService) ScoreRecord(ctx context.Context, rec *recordModel.OmrRecordModel) (*model.OmrScoreModel, error) {
	switch rec.OmrRecordStatus {
	case constants.RecordStatusClean, constants.RecordStatusCorrected, constants.RecordStatusScored:
	default:
		return nil, ErrRecordNotScoreable
	}

	mc, err := s.Masters.Resolve(nil, rec.OmrRecordProjectID, rec.OmrRecordCourseCode, rec.OmrRecordSetCode)
	if err != nil {
		return nil, err
	}

	payload, err := rec.DecodeEffective()
	if err != nil {
		return nil, err
	}

	sections, total := ComputeScore(payload, mc)

	score := model.OmrScoreModel{
		OmrScoreID:            uuid.New(),
		OmrScoreRollNumber:    rec.OmrRecordRollNumber,
		OmrScoreProjectID:     rec.OmrRecordProjectID,
		OmrScoreCourseCode:    rec.OmrRecordCourseCode,
		OmrScoreTotal:         math.Round(total*100) / 100, // pembulatan cuma di persist
		OmrScoreMarkingRuleID: mc.Rule.MarkingRuleID,
		OmrScoreAuditCycle:    rec.OmrRecordAuditCycle,
		OmrScoreComputedAt:    time.Now().UTC(),
	}
	if err := score.SetSectionBreakdown(sections); err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "omr_score_roll_number"},
				{Name: "omr_score_project_id"},
				{Name: "omr_score_course_code"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"omr_score_total", "omr_score_sections",
				"omr_score_marking_rule_id", "omr_score_audit_cycle", "omr_score_computed_at",
			}),
		}).Create(&score).Error; err != nil {
			return err
		}

		res := tx.Model(rec).
			Where("omr_record_status IN ?", []string{
				constants.RecordStatusClean, constants.RecordStatusCorrected, constants.RecordStatusScored,
			}).
			Update("omr_record_status", constants.RecordStatusScored)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrRecordNotScoreable
		}
		rec.OmrRecordStatus = constants.RecordStatusScored

		s.Audit.Event(tx, constants.LogCategoryScoring, nil,
			fmt.Sprintf("roll=%s project=%s course=%s total=%.2f",
				score.OmrScoreRollNumber, score.OmrScoreProjectID, score.OmrScoreCourseCode, score.OmrScoreTotal))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// ScoreProject menghitung skor semua record clean/corrected satu project.
// Kalau setelah itu tidak ada lagi record yang belum scored (di luar yang
// gagal ekstraksi), status project maju ke scored.
func (s *ScoringService) ScoreProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var records []recordModel.OmrRecordModel
	if err := s.DB.WithContext(ctx).
		Where("omr_record_project_id = ?", projectID).
		Where("omr_record_status IN ?", []string{constants.RecordStatusClean, constants.RecordStatusCorrected}).
		Order("omr_record_barcode ASC").
		Find(&records).Error; err != nil {
		return 0, err
	}

	scored := 0
	for i := range records {
		if _, err := s.ScoreRecord(ctx, &records[i]); err != nil {
			continue
		}
		scored++
	}

	var unscored int64
	if err := s.DB.WithContext(ctx).Model(&recordModel.OmrRecordModel{}).
		Where("omr_record_project_id = ?", projectID).
		Where("omr_record_status NOT IN ?", []string{constants.RecordStatusScored, constants.RecordStatusExtractionFailed}).
		Count(&unscored).Error; err != nil {
		return scored, err
	}
	if unscored == 0 {
		if err := s.DB.WithContext(ctx).Table("omr_projects").
			Where("omr_project_id = ?", projectID).
			Update("omr_project_status", constants.ProjectStatusScored).Error; err != nil {
			return scored, err
		}
	}
	return scored, nil
}

// GetScore mengambil hasil per (roll number, project, course).
func (s *ScoringService) GetScore(rollNumber string, projectID uuid.UUID, courseCode string) (*model.OmrScoreModel, error) {
	var score model.OmrScoreModel
	err := s.DB.
		Where("omr_score_roll_number = ? AND omr_score_project_id = ? AND omr_score_course_code = ?",
			rollNumber, projectID, courseCode).
		First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

/* =========================================================
   Perhitungan murni
========================================================= */

// ComputeScore menerapkan marking rule per section. Iterasi selalu urut
// section lalu nomor pertanyaan, akumulasi float tanpa pembulatan antara.
func ComputeScore(payload *recordModel.ResponsePayload, mc *mastersService.MarkingContext) ([]model.SectionScore, float64) {
	sections := make([]model.SectionScore, 0, len(mc.Sections))
	total := 0.0

	for _, sec := range mc.Sections {
		ss := model.SectionScore{Name: sec.Name}
		for q := sec.StartQ; q <= sec.EndQ; q++ {
			qs := strconv.Itoa(q)
			resp := sortLetters(payload.Responses[qs])
			key := sortLetters(mc.Keys[qs])

			switch {
			case resp == "":
				ss.Blank++
				ss.Score += mc.Rule.MarkingRuleBlankMark
			case key != "" && resp == key:
				ss.Correct++
				ss.Score += mc.Rule.MarkingRuleCorrectMark
			default:
				ss.Wrong++
				ss.Score += mc.Rule.MarkingRuleWrongMark
			}
		}
		total += ss.Score
		sections = append(sections, ss)
	}
	return sections, total
}

// sortLetters menormalisasi jawaban multi-mark: "CA" dan "AC" setara.
func sortLetters(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return s
	}
	letters := strings.Split(s, "")
	sort.Strings(letters)
	return strings.Join(letters, "")
}
