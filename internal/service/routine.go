package service

import (
	"database/sql"
	"fmt"
	"strings"
)

type Routine struct {
	ID         int64
	Name       string
	IsPublic   bool
	Copyright  string
	SectionIDs []int64
}

type RoutineInput struct {
	Name      string `validate:"required,max=200" label:"name"`
	IsPublic  bool
	Copyright string
}

type UpdateRoutineInput struct {
	ID int64
	RoutineInput
}

func CreateRoutine(db *sql.DB, in RoutineInput) (int64, error) {
	in, err := normalizeRoutineInput(in)
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(`INSERT INTO routines(name, is_public, copyright) VALUES(?, ?, ?)`, in.Name, boolToInt(in.IsPublic), in.Copyright)
	if err != nil {
		return 0, fmt.Errorf("add routine: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve routine id: %w", err)
	}
	return id, nil
}

func GetRoutine(db *sql.DB, id int64) (Routine, error) {
	var item Routine
	var isPublic int
	err := db.QueryRow(`SELECT id, name, is_public, copyright FROM routines WHERE id = ?`, id).Scan(&item.ID, &item.Name, &isPublic, &item.Copyright)
	if err == sql.ErrNoRows {
		return Routine{}, fmt.Errorf("routine %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Routine{}, fmt.Errorf("get routine %d: %w", id, err)
	}
	item.IsPublic = isPublic == 1
	if item.SectionIDs, err = routineSectionIDs(db, id); err != nil {
		return Routine{}, err
	}
	return item, nil
}

func ListRoutines(db *sql.DB) ([]Routine, error) {
	rows, err := db.Query(`SELECT id, name, is_public, copyright FROM routines ORDER BY name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	items := make([]Routine, 0)
	for rows.Next() {
		var item Routine
		var isPublic int
		if err := rows.Scan(&item.ID, &item.Name, &isPublic, &item.Copyright); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan routine: %w", err)
		}
		item.IsPublic = isPublic == 1
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate routines: %w", err)
	}
	_ = rows.Close()

	// Section ids are read after the cursor is closed; the pool holds one connection.
	for i := range items {
		if items[i].SectionIDs, err = routineSectionIDs(db, items[i].ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func UpdateRoutine(db *sql.DB, in UpdateRoutineInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("%w: routine id must be > 0", ErrInvalidInput)
	}
	normalized, err := normalizeRoutineInput(in.RoutineInput)
	if err != nil {
		return err
	}
	res, err := db.Exec(`
UPDATE routines SET name = ?, is_public = ?, copyright = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`, normalized.Name, boolToInt(normalized.IsPublic), normalized.Copyright, in.ID)
	if err != nil {
		return fmt.Errorf("update routine %d: %w", in.ID, err)
	}
	return checkAffected(res, "routine", in.ID)
}

// DeleteRoutine removes only the routine row; its sections are detached by
// the foreign key and must be deleted by the caller.
func DeleteRoutine(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: routine id must be > 0", ErrInvalidInput)
	}
	res, err := db.Exec(`DELETE FROM routines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete routine %d: %w", id, err)
	}
	return checkAffected(res, "routine", id)
}

func routineSectionIDs(db *sql.DB, routineID int64) ([]int64, error) {
	ids, err := idList(db, `SELECT id FROM sections WHERE routine_id = ? ORDER BY id ASC`, routineID)
	if err != nil {
		return nil, fmt.Errorf("list sections of routine %d: %w", routineID, err)
	}
	return ids, nil
}

func normalizeRoutineInput(in RoutineInput) (RoutineInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Copyright = strings.TrimSpace(in.Copyright)
	if err := validateInput(in); err != nil {
		return RoutineInput{}, err
	}
	return in, nil
}
