package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/prikhi/bodyweight-client/internal/model"
	"github.com/prikhi/bodyweight-client/internal/serializer"
)

var Schemas = []serializer.Schema{
	{
		Kind:       model.KindExercise,
		Attributes: []string{"name", "description", "isHold", "youtubeIds", "amazonIds", "copyright"},
	},
	{
		Kind:       model.KindRoutine,
		Attributes: []string{"name", "isPublic", "copyright"},
		Relationships: []serializer.Descriptor{
			{Key: "sections", Cardinality: serializer.HasMany, Type: model.KindSection},
		},
	},
	{
		Kind:       model.KindSection,
		Attributes: []string{"name"},
		Relationships: []serializer.Descriptor{
			{Key: "routine", Cardinality: serializer.BelongsTo, Type: model.KindRoutine},
			{Key: "sectionExercises", Cardinality: serializer.HasMany, Type: model.KindSectionExercise},
		},
	},
	{
		Kind:       model.KindSectionExercise,
		Attributes: []string{"order", "setCount", "repCount", "restAfter"},
		Relationships: []serializer.Descriptor{
			{Key: "section", Cardinality: serializer.BelongsTo, Type: model.KindSection},
			{Key: "exercises", Cardinality: serializer.HasMany, Type: model.KindExercise},
		},
	},
}

func snapshotOf(e model.Entity) (serializer.Snapshot, error) {
	snap := serializer.Snapshot{
		Kind:          e.Kind(),
		ID:            idString(e.Key()),
		Relationships: map[string]serializer.Relationship{},
	}
	switch v := e.(type) {
	case *model.Exercise:
		a := v.Attrs
		snap.Attributes = map[string]any{
			"name":        a.Name,
			"description": a.Description,
			"isHold":      a.IsHold,
			"youtubeIds":  a.YoutubeIDs,
			"amazonIds":   a.AmazonIDs,
			"copyright":   a.Copyright,
		}
	case *model.Routine:
		a := v.Attrs
		snap.Attributes = map[string]any{"name": a.Name, "isPublic": a.IsPublic, "copyright": a.Copyright}
		snap.Relationships["sections"] = serializer.Relationship{IDs: idStrings(v.SectionIDs())}
	case *model.Section:
		snap.Attributes = map[string]any{"name": v.Attrs.Name}
		var routineID int64
		if v.Routine != nil {
			routineID = v.Routine.Key()
		}
		snap.Relationships["routine"] = serializer.Relationship{ID: idString(routineID)}
		snap.Relationships["sectionExercises"] = serializer.Relationship{IDs: idStrings(v.SectionExerciseIDs())}
	case *model.SectionExercise:
		a := v.Attrs
		snap.Attributes = map[string]any{
			"order":     a.Order,
			"setCount":  a.SetCount,
			"repCount":  a.RepCount,
			"restAfter": a.RestAfter,
		}
		var sectionID int64
		if v.Section != nil {
			sectionID = v.Section.Key()
		}
		snap.Relationships["section"] = serializer.Relationship{ID: idString(sectionID)}
		snap.Relationships["exercises"] = serializer.Relationship{IDs: idStrings(v.ExerciseIDs())}
	default:
		return serializer.Snapshot{}, fmt.Errorf("snapshot %T: %w", e, serializer.ErrUnknownKind)
	}
	return snap, nil
}

func exerciseAttrs(snap serializer.Snapshot) model.ExerciseAttrs {
	a := snap.Attributes
	return model.ExerciseAttrs{
		Name:        attrString(a, "name"),
		Description: attrString(a, "description"),
		IsHold:      attrBool(a, "isHold"),
		YoutubeIDs:  attrString(a, "youtubeIds"),
		AmazonIDs:   attrString(a, "amazonIds"),
		Copyright:   attrString(a, "copyright"),
	}
}

func routineAttrs(snap serializer.Snapshot) model.RoutineAttrs {
	a := snap.Attributes
	return model.RoutineAttrs{
		Name:      attrString(a, "name"),
		IsPublic:  attrBool(a, "isPublic"),
		Copyright: attrString(a, "copyright"),
	}
}

func sectionAttrs(snap serializer.Snapshot) model.SectionAttrs {
	return model.SectionAttrs{Name: attrString(snap.Attributes, "name")}
}

func sectionExerciseAttrs(snap serializer.Snapshot) model.SectionExerciseAttrs {
	a := snap.Attributes
	return model.SectionExerciseAttrs{
		Order:     attrInt(a, "order"),
		SetCount:  attrInt(a, "setCount"),
		RepCount:  attrInt(a, "repCount"),
		RestAfter: attrBool(a, "restAfter"),
	}
}

func attrString(a map[string]any, key string) string {
	s, _ := a[key].(string)
	return s
}

func attrBool(a map[string]any, key string) bool {
	b, _ := a[key].(bool)
	return b
}

func attrInt(a map[string]any, key string) int {
	switch v := a[key].(type) {
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func idString(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func idStrings(ids []int64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out
}

func parseID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	return id, nil
}

func parseIDs(ss []string) ([]int64, error) {
	out := make([]int64, 0, len(ss))
	for _, s := range ss {
		id, err := parseID(s)
		if err != nil {
			return nil, err
		}
		if id > 0 {
			out = append(out, id)
		}
	}
	return out, nil
}
