package seeds

import (
	"gorm.io/gorm"

	masters "omrku_backend/internals/seeds/masters"
)

func RunAllSeeds(db *gorm.DB) {
	masters.SeedMastersFromJSON(db, "internals/seeds/masters/data_masters.json")
}
