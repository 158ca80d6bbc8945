package service

import (
	"database/sql"
	"fmt"
	"strings"
)

type Section struct {
	ID                 int64
	Name               string
	RoutineID          *int64
	SectionExerciseIDs []int64
}

type SectionInput struct {
	Name      string `validate:"required,max=200" label:"name"`
	RoutineID *int64
}

type UpdateSectionInput struct {
	ID int64
	SectionInput
}

func CreateSection(db *sql.DB, in SectionInput) (int64, error) {
	in, err := normalizeSectionInput(db, in)
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(`INSERT INTO sections(name, routine_id) VALUES(?, ?)`, in.Name, nullableID(in.RoutineID))
	if err != nil {
		return 0, fmt.Errorf("add section: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve section id: %w", err)
	}
	return id, nil
}

func GetSection(db *sql.DB, id int64) (Section, error) {
	var item Section
	var routineID sql.NullInt64
	err := db.QueryRow(`SELECT id, name, routine_id FROM sections WHERE id = ?`, id).Scan(&item.ID, &item.Name, &routineID)
	if err == sql.ErrNoRows {
		return Section{}, fmt.Errorf("section %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Section{}, fmt.Errorf("get section %d: %w", id, err)
	}
	if routineID.Valid {
		v := routineID.Int64
		item.RoutineID = &v
	}
	if item.SectionExerciseIDs, err = sectionBundleIDs(db, id); err != nil {
		return Section{}, err
	}
	return item, nil
}

func ListSections(db *sql.DB) ([]Section, error) {
	ids, err := idList(db, `SELECT id FROM sections ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	items := make([]Section, 0, len(ids))
	for _, id := range ids {
		item, err := GetSection(db, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func UpdateSection(db *sql.DB, in UpdateSectionInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("%w: section id must be > 0", ErrInvalidInput)
	}
	normalized, err := normalizeSectionInput(db, in.SectionInput)
	if err != nil {
		return err
	}
	res, err := db.Exec(`UPDATE sections SET name = ?, routine_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, normalized.Name, nullableID(normalized.RoutineID), in.ID)
	if err != nil {
		return fmt.Errorf("update section %d: %w", in.ID, err)
	}
	return checkAffected(res, "section", in.ID)
}

func DeleteSection(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: section id must be > 0", ErrInvalidInput)
	}
	res, err := db.Exec(`DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete section %d: %w", id, err)
	}
	return checkAffected(res, "section", id)
}

func sectionBundleIDs(db *sql.DB, sectionID int64) ([]int64, error) {
	ids, err := idList(db, `SELECT id FROM section_exercises WHERE section_id = ? ORDER BY position ASC, id ASC`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list bundles of section %d: %w", sectionID, err)
	}
	return ids, nil
}

func normalizeSectionInput(db *sql.DB, in SectionInput) (SectionInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return SectionInput{}, err
	}
	if in.RoutineID != nil {
		if *in.RoutineID <= 0 {
			in.RoutineID = nil
		} else if err := ensureExists(db, "routines", "routine", *in.RoutineID); err != nil {
			return SectionInput{}, err
		}
	}
	return in, nil
}
