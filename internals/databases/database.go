package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"omrku_backend/internals/configs"
	logModel "omrku_backend/internals/features/logs/model"
	masterModel "omrku_backend/internals/features/omr/masters/model"
	projectModel "omrku_backend/internals/features/omr/projects/model"
	recordModel "omrku_backend/internals/features/omr/records/model"
	reviewModel "omrku_backend/internals/features/omr/review/model"
	scoreModel "omrku_backend/internals/features/omr/scoring/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	// ✅ Gunakan URL/DSN lengkap + statement_timeout
	// Catatan: kalau pakai PgBouncer, ganti host/port ke port PgBouncer (mis. 6543) dan biarkan PreferSimpleProtocol=true
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=omrku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

// Migrate menjalankan auto-migrate semua tabel OMR.
// Urutan: master → project → record → review → score → log.
func Migrate() {
	if err := DB.AutoMigrate(
		&masterModel.MarkingRuleModel{},
		&masterModel.ResponseConfigModel{},
		&masterModel.AnswerKeyModel{},
		&projectModel.OmrProjectModel{},
		&recordModel.OmrRecordModel{},
		&recordModel.AmbiguousItemModel{},
		&reviewModel.OmrFlagModel{},
		&reviewModel.FlagAssignmentModel{},
		&reviewModel.CorrectedOMRDataModel{},
		&scoreModel.OmrScoreModel{},
		&logModel.EventLogModel{},
		&logModel.ErrorLogModel{},
		&logModel.ChangeLogModel{},
	); err != nil {
		log.Fatalf("❌ Gagal migrate: %v", err)
	}
	log.Println("✅ Migrasi tabel OMR selesai.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	// ⚖️ Sesuaikan dengan limit PgBouncer
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
