package model

import "strings"

const (
	TypeHold = "Hold"
	TypeReps = "Reps"
)

type ExerciseAttrs struct {
	Name        string
	Description string
	IsHold      bool
	YoutubeIDs  string
	AmazonIDs   string
	Copyright   string
}

type Exercise struct {
	Record[ExerciseAttrs]
}

func NewExercise(attrs ExerciseAttrs) *Exercise {
	e := &Exercise{}
	e.init(attrs)
	return e
}

func (e *Exercise) Kind() string { return KindExercise }

// Type is derived from IsHold on every call and is never stored.
func (e *Exercise) Type() string {
	if e.Attrs.IsHold {
		return TypeHold
	}
	return TypeReps
}

func (e *Exercise) YoutubeList() []string { return splitIDs(e.Attrs.YoutubeIDs) }

func (e *Exercise) AmazonList() []string { return splitIDs(e.Attrs.AmazonIDs) }

func splitIDs(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
