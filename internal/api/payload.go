package api

import "github.com/prikhi/bodyweight-client/internal/service"

type exerciseJSON struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsHold      bool   `json:"isHold"`
	YoutubeIDs  string `json:"youtubeIds"`
	AmazonIDs   string `json:"amazonIds"`
	Copyright   string `json:"copyright"`
}

type routineJSON struct {
	ID        int64   `json:"id,omitempty"`
	Name      string  `json:"name"`
	IsPublic  bool    `json:"isPublic"`
	Copyright string  `json:"copyright"`
	Sections  []int64 `json:"sections"`
}

// Relationship ids are bound as integers; a quoted id fails to bind.
type sectionJSON struct {
	ID               int64   `json:"id,omitempty"`
	Name             string  `json:"name"`
	Routine          *int64  `json:"routine"`
	SectionExercises []int64 `json:"sectionExercises"`
}

type sectionExerciseJSON struct {
	ID        int64   `json:"id,omitempty"`
	Order     int     `json:"order"`
	Section   *int64  `json:"section"`
	Exercises []int64 `json:"exercises"`
	SetCount  int     `json:"setCount"`
	RepCount  int     `json:"repCount"`
	RestAfter bool    `json:"restAfter"`
}

type exerciseEnvelope struct {
	Exercise *exerciseJSON `json:"exercise" binding:"required"`
}

type routineEnvelope struct {
	Routine *routineJSON `json:"routine" binding:"required"`
}

type sectionEnvelope struct {
	Section *sectionJSON `json:"section" binding:"required"`
}

type sectionExerciseEnvelope struct {
	SectionExercise *sectionExerciseJSON `json:"sectionExercise" binding:"required"`
}

func exerciseOut(e service.Exercise) exerciseJSON {
	return exerciseJSON{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		IsHold:      e.IsHold,
		YoutubeIDs:  e.YoutubeIDs,
		AmazonIDs:   e.AmazonIDs,
		Copyright:   e.Copyright,
	}
}

func (p exerciseJSON) input() service.ExerciseInput {
	return service.ExerciseInput{
		Name:        p.Name,
		Description: p.Description,
		IsHold:      p.IsHold,
		YoutubeIDs:  p.YoutubeIDs,
		AmazonIDs:   p.AmazonIDs,
		Copyright:   p.Copyright,
	}
}

func routineOut(r service.Routine) routineJSON {
	return routineJSON{ID: r.ID, Name: r.Name, IsPublic: r.IsPublic, Copyright: r.Copyright, Sections: nonNil(r.SectionIDs)}
}

func (p routineJSON) input() service.RoutineInput {
	return service.RoutineInput{Name: p.Name, IsPublic: p.IsPublic, Copyright: p.Copyright}
}

func sectionOut(s service.Section) sectionJSON {
	return sectionJSON{ID: s.ID, Name: s.Name, Routine: s.RoutineID, SectionExercises: nonNil(s.SectionExerciseIDs)}
}

func (p sectionJSON) input() service.SectionInput {
	return service.SectionInput{Name: p.Name, RoutineID: p.Routine}
}

func sectionExerciseOut(se service.SectionExercise) sectionExerciseJSON {
	return sectionExerciseJSON{
		ID:        se.ID,
		Order:     se.Order,
		Section:   se.SectionID,
		Exercises: nonNil(se.ExerciseIDs),
		SetCount:  se.SetCount,
		RepCount:  se.RepCount,
		RestAfter: se.RestAfter,
	}
}

func (p sectionExerciseJSON) input() service.SectionExerciseInput {
	return service.SectionExerciseInput{
		Order:       p.Order,
		SectionID:   p.Section,
		ExerciseIDs: p.Exercises,
		SetCount:    p.SetCount,
		RepCount:    p.RepCount,
		RestAfter:   p.RestAfter,
	}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
