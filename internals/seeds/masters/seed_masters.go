package masters

import (
	"encoding/json"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"omrku_backend/internals/constants"
	mastersModel "omrku_backend/internals/features/omr/masters/model"
	projectModel "omrku_backend/internals/features/omr/projects/model"
)

type MastersSeed struct {
	ProjectName string                       `json:"project_name"`
	CourseCode  string                       `json:"course_code"`
	SetCode     string                       `json:"set_code"`
	RuleName    string                       `json:"rule_name"`
	CorrectMark float64                      `json:"correct_mark"`
	WrongMark   float64                      `json:"wrong_mark"`
	BlankMark   float64                      `json:"blank_mark"`
	Sections    []mastersModel.SectionConfig `json:"sections"`
	AnswerKey   map[string]string            `json:"answer_key"`
}

// SeedMastersFromJSON membuat project demo beserta marking rule, response
// config, dan answer key-nya. Project dengan nama sama dilewati.
func SeedMastersFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Gagal membaca file JSON: %v", err)
		return
	}

	var seeds []MastersSeed
	if err := json.Unmarshal(file, &seeds); err != nil {
		log.Printf("❌ Gagal decode JSON: %v", err)
		return
	}

	for _, seed := range seeds {
		var existing int64
		if err := db.Model(&projectModel.OmrProjectModel{}).
			Where("omr_project_name = ?", seed.ProjectName).
			Count(&existing).Error; err != nil {
			log.Printf("❌ Gagal cek project %s: %v", seed.ProjectName, err)
			continue
		}
		if existing > 0 {
			log.Printf("⏩ Project %s sudah ada, dilewati", seed.ProjectName)
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			project := projectModel.OmrProjectModel{
				OmrProjectID:         uuid.New(),
				OmrProjectName:       seed.ProjectName,
				OmrProjectStatus:     constants.ProjectStatusIngested,
				OmrProjectAuditCycle: 1,
			}
			if err := tx.Create(&project).Error; err != nil {
				return err
			}

			rule := mastersModel.MarkingRuleModel{
				MarkingRuleID:          uuid.New(),
				MarkingRuleProjectID:   project.OmrProjectID,
				MarkingRuleName:        seed.RuleName,
				MarkingRuleCorrectMark: seed.CorrectMark,
				MarkingRuleWrongMark:   seed.WrongMark,
				MarkingRuleBlankMark:   seed.BlankMark,
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}

			cfg := mastersModel.ResponseConfigModel{
				ResponseConfigID:         uuid.New(),
				ResponseConfigProjectID:  project.OmrProjectID,
				ResponseConfigCourseCode: seed.CourseCode,
			}
			if err := cfg.SetSections(seed.Sections); err != nil {
				return err
			}
			if err := tx.Create(&cfg).Error; err != nil {
				return err
			}

			key := mastersModel.AnswerKeyModel{
				AnswerKeyID:         uuid.New(),
				AnswerKeyProjectID:  project.OmrProjectID,
				AnswerKeyCourseCode: seed.CourseCode,
				AnswerKeySetCode:    seed.SetCode,
			}
			if err := key.SetEntries(seed.AnswerKey); err != nil {
				return err
			}
			return tx.Create(&key).Error
		})
		if err != nil {
			log.Printf("❌ Gagal seed project %s: %v", seed.ProjectName, err)
			continue
		}
		log.Printf("✅ Project %s ter-seed", seed.ProjectName)
	}
}
