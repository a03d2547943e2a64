// file: internals/constants/omr_status.go
package constants

/* =========================================================
   Status record OMR (per lembar jawaban)
========================================================= */

const (
	// Baru di-ingest / di-reset oleh audit cycle, belum lewat deteksi
	RecordStatusPending = "pending"

	// Payload mentah tidak bisa diparse terhadap response config
	RecordStatusExtractionFailed = "extraction_failed"

	// Ada minimal satu pertanyaan ambigu → menunggu reviewer
	RecordStatusNeedsReview = "needs_review"

	// Semua pertanyaan clean, siap di-skor tanpa koreksi
	RecordStatusClean = "clean"

	// Semua flag record ini sudah dikoreksi reviewer
	RecordStatusCorrected = "corrected"

	// Skor sudah dihitung & dipersist
	RecordStatusScored = "scored"
)

/* =========================================================
   Status project (siklus audit)
========================================================= */

const (
	ProjectStatusIngested  = "ingested"
	ProjectStatusReviewed  = "reviewed"
	ProjectStatusScored    = "scored"
	ProjectStatusReaudited = "reaudited"
)

/* =========================================================
   Kategori log audit (EventLog / ErrorLog / ChangeLog)
========================================================= */

const (
	LogCategoryIngest     = "ingest"
	LogCategoryDetection  = "detection"
	LogCategoryAssignment = "assignment"
	LogCategoryCorrection = "correction"
	LogCategoryScoring    = "scoring"
	LogCategoryAuditCycle = "audit_cycle"
)
