package service

import (
	"database/sql"
	"fmt"
)

type SectionExercise struct {
	ID          int64
	Order       int
	SectionID   *int64
	ExerciseIDs []int64
	SetCount    int
	RepCount    int
	RestAfter   bool
}

type SectionExerciseInput struct {
	Order       int `validate:"gte=0" label:"order"`
	SectionID   *int64
	ExerciseIDs []int64
	SetCount    int `validate:"gte=0" label:"set count"`
	RepCount    int `validate:"gte=0" label:"rep count"`
	RestAfter   bool
}

type UpdateSectionExerciseInput struct {
	ID int64
	SectionExerciseInput
}

func CreateSectionExercise(db *sql.DB, in SectionExerciseInput) (int64, error) {
	in, err := normalizeSectionExerciseInput(db, in)
	if err != nil {
		return 0, err
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin section exercise tx: %w", err)
	}
	res, err := tx.Exec(`
INSERT INTO section_exercises(position, section_id, set_count, rep_count, rest_after)
VALUES(?, ?, ?, ?, ?)
`, in.Order, nullableID(in.SectionID), in.SetCount, in.RepCount, boolToInt(in.RestAfter))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("add section exercise: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("resolve section exercise id: %w", err)
	}
	if err := replaceBundleExercises(tx, id, in.ExerciseIDs); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit section exercise: %w", err)
	}
	return id, nil
}

func GetSectionExercise(db *sql.DB, id int64) (SectionExercise, error) {
	var item SectionExercise
	var sectionID sql.NullInt64
	var restAfter int
	err := db.QueryRow(`SELECT id, position, section_id, set_count, rep_count, rest_after FROM section_exercises WHERE id = ?`, id).
		Scan(&item.ID, &item.Order, &sectionID, &item.SetCount, &item.RepCount, &restAfter)
	if err == sql.ErrNoRows {
		return SectionExercise{}, fmt.Errorf("section exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return SectionExercise{}, fmt.Errorf("get section exercise %d: %w", id, err)
	}
	if sectionID.Valid {
		v := sectionID.Int64
		item.SectionID = &v
	}
	item.RestAfter = restAfter == 1
	item.ExerciseIDs, err = idList(db, `SELECT exercise_id FROM section_exercise_exercises WHERE section_exercise_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return SectionExercise{}, fmt.Errorf("list exercises of section exercise %d: %w", id, err)
	}
	return item, nil
}

func ListSectionExercises(db *sql.DB) ([]SectionExercise, error) {
	ids, err := idList(db, `SELECT id FROM section_exercises ORDER BY section_id ASC, position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list section exercises: %w", err)
	}
	items := make([]SectionExercise, 0, len(ids))
	for _, id := range ids {
		item, err := GetSectionExercise(db, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func UpdateSectionExercise(db *sql.DB, in UpdateSectionExerciseInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("%w: section exercise id must be > 0", ErrInvalidInput)
	}
	normalized, err := normalizeSectionExerciseInput(db, in.SectionExerciseInput)
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin section exercise tx: %w", err)
	}
	res, err := tx.Exec(`
UPDATE section_exercises
SET position = ?, section_id = ?, set_count = ?, rep_count = ?, rest_after = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, normalized.Order, nullableID(normalized.SectionID), normalized.SetCount, normalized.RepCount, boolToInt(normalized.RestAfter), in.ID)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update section exercise %d: %w", in.ID, err)
	}
	if err := checkAffected(res, "section exercise", in.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := replaceBundleExercises(tx, in.ID, normalized.ExerciseIDs); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit section exercise %d: %w", in.ID, err)
	}
	return nil
}

func DeleteSectionExercise(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: section exercise id must be > 0", ErrInvalidInput)
	}
	res, err := db.Exec(`DELETE FROM section_exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete section exercise %d: %w", id, err)
	}
	return checkAffected(res, "section exercise", id)
}

func replaceBundleExercises(tx *sql.Tx, bundleID int64, exerciseIDs []int64) error {
	if _, err := tx.Exec(`DELETE FROM section_exercise_exercises WHERE section_exercise_id = ?`, bundleID); err != nil {
		return fmt.Errorf("clear exercises of section exercise %d: %w", bundleID, err)
	}
	for i, exerciseID := range exerciseIDs {
		if _, err := tx.Exec(`INSERT INTO section_exercise_exercises(section_exercise_id, exercise_id, position) VALUES(?, ?, ?)`, bundleID, exerciseID, i); err != nil {
			return fmt.Errorf("link exercise %d to section exercise %d: %w", exerciseID, bundleID, err)
		}
	}
	return nil
}

func normalizeSectionExerciseInput(db *sql.DB, in SectionExerciseInput) (SectionExerciseInput, error) {
	if err := validateInput(in); err != nil {
		return SectionExerciseInput{}, err
	}
	if in.SectionID != nil {
		if *in.SectionID <= 0 {
			in.SectionID = nil
		} else if err := ensureExists(db, "sections", "section", *in.SectionID); err != nil {
			return SectionExerciseInput{}, err
		}
	}
	seen := make(map[int64]bool, len(in.ExerciseIDs))
	unique := make([]int64, 0, len(in.ExerciseIDs))
	for _, id := range in.ExerciseIDs {
		if id <= 0 {
			return SectionExerciseInput{}, fmt.Errorf("%w: exercise id must be > 0", ErrInvalidInput)
		}
		if seen[id] {
			continue
		}
		if err := ensureExists(db, "exercises", "exercise", id); err != nil {
			return SectionExerciseInput{}, err
		}
		seen[id] = true
		unique = append(unique, id)
	}
	in.ExerciseIDs = unique
	return in, nil
}
