package service

import (
	"database/sql"
	"fmt"
)

// DoctorReport counts detached rows: sections whose routine was deleted
// before them and section exercises created without a section.
type DoctorReport struct {
	OrphanSections  int `json:"orphan_sections"`
	OrphanBundles   int `json:"orphan_bundles"`
	EmptyBundles    int `json:"empty_bundles"`
	RemovedSections int `json:"removed_sections,omitempty"`
	RemovedBundles  int `json:"removed_bundles,omitempty"`
}

func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	if err := db.QueryRow(`SELECT COUNT(1) FROM sections WHERE routine_id IS NULL`).Scan(&report.OrphanSections); err != nil {
		return report, fmt.Errorf("doctor orphan section check: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM section_exercises WHERE section_id IS NULL`).Scan(&report.OrphanBundles); err != nil {
		return report, fmt.Errorf("doctor orphan bundle check: %w", err)
	}
	if err := db.QueryRow(`
SELECT COUNT(1) FROM section_exercises se
WHERE NOT EXISTS (SELECT 1 FROM section_exercise_exercises x WHERE x.section_exercise_id = se.id)
`).Scan(&report.EmptyBundles); err != nil {
		return report, fmt.Errorf("doctor empty bundle check: %w", err)
	}

	if !fix || report.OrphanSections+report.OrphanBundles == 0 {
		return report, nil
	}
	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("doctor fix begin tx: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM section_exercises WHERE section_id IS NULL OR section_id IN (SELECT id FROM sections WHERE routine_id IS NULL)`)
	if err != nil {
		_ = tx.Rollback()
		return report, fmt.Errorf("doctor fix bundles: %w", err)
	}
	n, _ := res.RowsAffected()
	report.RemovedBundles = int(n)
	res, err = tx.Exec(`DELETE FROM sections WHERE routine_id IS NULL`)
	if err != nil {
		_ = tx.Rollback()
		return report, fmt.Errorf("doctor fix sections: %w", err)
	}
	n, _ = res.RowsAffected()
	report.RemovedSections = int(n)
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("doctor fix commit: %w", err)
	}
	return report, nil
}
