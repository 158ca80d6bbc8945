package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type Exercise struct {
	ID          int64
	Name        string
	Description string
	IsHold      bool
	YoutubeIDs  string
	AmazonIDs   string
	Copyright   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ExerciseInput struct {
	Name        string `validate:"required,max=200" label:"name"`
	Description string
	IsHold      bool
	YoutubeIDs  string
	AmazonIDs   string
	Copyright   string
}

type UpdateExerciseInput struct {
	ID int64
	ExerciseInput
}

const exerciseColumns = `id, name, description, is_hold, youtube_ids, amazon_ids, copyright, created_at, updated_at`

func CreateExercise(db *sql.DB, in ExerciseInput) (int64, error) {
	in, err := normalizeExerciseInput(in)
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(`
INSERT INTO exercises(name, description, is_hold, youtube_ids, amazon_ids, copyright)
VALUES(?, ?, ?, ?, ?, ?)
`, in.Name, in.Description, boolToInt(in.IsHold), in.YoutubeIDs, in.AmazonIDs, in.Copyright)
	if err != nil {
		return 0, fmt.Errorf("add exercise: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve exercise id: %w", err)
	}
	return id, nil
}

func GetExercise(db *sql.DB, id int64) (Exercise, error) {
	row := db.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
	item, err := scanExercise(row)
	if err == sql.ErrNoRows {
		return Exercise{}, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("get exercise %d: %w", id, err)
	}
	return item, nil
}

func ListExercises(db *sql.DB) ([]Exercise, error) {
	rows, err := db.Query(`SELECT ` + exerciseColumns + ` FROM exercises ORDER BY name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	items := make([]Exercise, 0)
	for rows.Next() {
		item, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}
	return items, nil
}

func UpdateExercise(db *sql.DB, in UpdateExerciseInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("%w: exercise id must be > 0", ErrInvalidInput)
	}
	normalized, err := normalizeExerciseInput(in.ExerciseInput)
	if err != nil {
		return err
	}
	res, err := db.Exec(`
UPDATE exercises
SET name = ?, description = ?, is_hold = ?, youtube_ids = ?, amazon_ids = ?, copyright = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, normalized.Name, normalized.Description, boolToInt(normalized.IsHold), normalized.YoutubeIDs, normalized.AmazonIDs, normalized.Copyright, in.ID)
	if err != nil {
		return fmt.Errorf("update exercise %d: %w", in.ID, err)
	}
	return checkAffected(res, "exercise", in.ID)
}

func DeleteExercise(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: exercise id must be > 0", ErrInvalidInput)
	}
	res, err := db.Exec(`DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete exercise %d: %w", id, err)
	}
	return checkAffected(res, "exercise", id)
}

func normalizeExerciseInput(in ExerciseInput) (ExerciseInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.YoutubeIDs = strings.TrimSpace(in.YoutubeIDs)
	in.AmazonIDs = strings.TrimSpace(in.AmazonIDs)
	in.Copyright = strings.TrimSpace(in.Copyright)
	if err := validateInput(in); err != nil {
		return ExerciseInput{}, err
	}
	return in, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (Exercise, error) {
	var item Exercise
	var isHold int
	var createdRaw, updatedRaw string
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &isHold, &item.YoutubeIDs, &item.AmazonIDs, &item.Copyright, &createdRaw, &updatedRaw); err != nil {
		return Exercise{}, err
	}
	item.IsHold = isHold == 1
	item.CreatedAt = parseTimestamp(createdRaw)
	item.UpdatedAt = parseTimestamp(updatedRaw)
	return item, nil
}

func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
