package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/prikhi/bodyweight-client/internal/model"
	"github.com/prikhi/bodyweight-client/internal/serializer"
)

func (s *Store) fetch(ctx context.Context, kind string, id int64) (serializer.Snapshot, error) {
	resp, err := s.adapter.FindRecord(ctx, kind, id)
	if err != nil {
		return serializer.Snapshot{}, fmt.Errorf("find %s %d: %w", kind, id, err)
	}
	snaps, err := s.serializer.Normalize(kind, resp)
	if err != nil {
		return serializer.Snapshot{}, err
	}
	if len(snaps) != 1 {
		return serializer.Snapshot{}, fmt.Errorf("find %s %d: expected one record, got %d", kind, id, len(snaps))
	}
	return snaps[0], nil
}

func (s *Store) fetchMany(ctx context.Context, kind string, ids []int64) ([]serializer.Snapshot, error) {
	out := make([]serializer.Snapshot, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for i, id := range ids {
		g.Go(func() error {
			snap, err := s.fetch(gctx, kind, id)
			if err != nil {
				return err
			}
			out[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) fetchAll(ctx context.Context, kind string) ([]serializer.Snapshot, error) {
	resp, err := s.adapter.FindAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", serializer.PluralKey(kind), err)
	}
	return s.serializer.Normalize(kind, resp)
}

func (s *Store) FindExercise(ctx context.Context, id int64) (*model.Exercise, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	snap, err := s.fetch(ctx, model.KindExercise, id)
	if err != nil {
		return nil, s.findError(ctx, err)
	}
	return s.hydrateExercise(snap)
}

// FindAllExercises loads every exercise from the server and returns the live
// list, which also holds exercises created locally and not yet saved.
func (s *Store) FindAllExercises(ctx context.Context) ([]*model.Exercise, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	snaps, err := s.fetchAll(ctx, model.KindExercise)
	if err != nil {
		return nil, s.findError(ctx, err)
	}
	for _, snap := range snaps {
		if _, err := s.hydrateExercise(snap); err != nil {
			return nil, err
		}
	}
	return s.Exercises(), nil
}

// FindRoutine loads a routine with its sections, their bundles and the
// exercises those bundle.
func (s *Store) FindRoutine(ctx context.Context, id int64) (*model.Routine, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rsnap, err := s.fetch(ctx, model.KindRoutine, id)
	if err != nil {
		return nil, s.findError(ctx, err)
	}
	sectionIDs, err := parseIDs(rsnap.Relationships["sections"].IDs)
	if err != nil {
		return nil, err
	}
	sections, err := s.fetchMany(ctx, model.KindSection, sectionIDs)
	if err != nil {
		return nil, s.findError(ctx, err)
	}
	bundleIDs, err := collectIDs(sections, "sectionExercises")
	if err != nil {
		return nil, err
	}
	bundles, err := s.fetchMany(ctx, model.KindSectionExercise, bundleIDs)
	if err != nil {
		return nil, s.findError(ctx, err)
	}
	exerciseIDs, err := collectIDs(bundles, "exercises")
	if err != nil {
		return nil, err
	}
	exercises, err := s.fetchMany(ctx, model.KindExercise, s.missingExercises(exerciseIDs))
	if err != nil {
		return nil, s.findError(ctx, err)
	}

	routines, err := s.assemble([]serializer.Snapshot{rsnap}, sections, bundles, exercises)
	if err != nil {
		return nil, err
	}
	return routines[0], nil
}

// FindAllRoutines loads every routine together with all sections, bundles
// and exercises in four concurrent collection requests.
func (s *Store) FindAllRoutines(ctx context.Context) ([]*model.Routine, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	kinds := []string{model.KindRoutine, model.KindSection, model.KindSectionExercise, model.KindExercise}
	results := make([][]serializer.Snapshot, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			snaps, err := s.fetchAll(gctx, kind)
			if err != nil {
				return err
			}
			results[i] = snaps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.findError(ctx, err)
	}
	return s.assemble(results[0], results[1], results[2], results[3])
}

func (s *Store) findError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func (s *Store) missingExercises(ids []int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.exercises[id]; !ok || e.State() == model.StateDeleted {
			out = append(out, id)
		}
	}
	return out
}

func collectIDs(snaps []serializer.Snapshot, rel string) ([]int64, error) {
	seen := make(map[int64]bool)
	out := make([]int64, 0)
	for _, snap := range snaps {
		ids, err := parseIDs(snap.Relationships[rel].IDs)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out, nil
}

func (s *Store) assemble(routines, sections, bundles, exercises []serializer.Snapshot) ([]*model.Routine, error) {
	for _, snap := range exercises {
		if _, err := s.hydrateExercise(snap); err != nil {
			return nil, err
		}
	}

	loadedBundles := make(map[int64]*model.SectionExercise, len(bundles))
	for _, snap := range bundles {
		se, err := s.hydrateSectionExercise(snap)
		if err != nil {
			return nil, err
		}
		ids, err := parseIDs(snap.Relationships["exercises"].IDs)
		if err != nil {
			return nil, err
		}
		se.Exercises = nil
		for _, id := range ids {
			if e := s.cachedExercise(id); e != nil {
				se.AddExercise(e)
			}
		}
		loadedBundles[se.Key()] = se
	}

	loadedSections := make(map[int64]*model.Section, len(sections))
	for _, snap := range sections {
		sec, err := s.hydrateSection(snap)
		if err != nil {
			return nil, err
		}
		ids, err := parseIDs(snap.Relationships["sectionExercises"].IDs)
		if err != nil {
			return nil, err
		}
		sec.SectionExercises = nil
		for _, id := range ids {
			if se, ok := loadedBundles[id]; ok {
				if err := sec.AttachSectionExercise(se); err != nil {
					return nil, err
				}
			}
		}
		loadedSections[sec.Key()] = sec
	}

	out := make([]*model.Routine, 0, len(routines))
	for _, snap := range routines {
		r, err := s.hydrateRoutine(snap)
		if err != nil {
			return nil, err
		}
		ids, err := parseIDs(snap.Relationships["sections"].IDs)
		if err != nil {
			return nil, err
		}
		r.Sections = nil
		for _, id := range ids {
			if sec, ok := loadedSections[id]; ok {
				if err := r.AttachSection(sec); err != nil {
					return nil, err
				}
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) cachedExercise(id int64) *model.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exercises[id]
}

func snapshotID(snap serializer.Snapshot) (int64, error) {
	id, err := parseID(snap.ID)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("%s record without id: %w", snap.Kind, serializer.ErrBadPayload)
	}
	return id, nil
}

func (s *Store) hydrateExercise(snap serializer.Snapshot) (*model.Exercise, error) {
	id, err := snapshotID(snap)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	e, ok := s.exercises[id]
	if !ok {
		e = model.NewExercise(model.ExerciseAttrs{})
		s.exercises[id] = e
		s.exerciseOrder = append(s.exerciseOrder, e)
	}
	s.mu.Unlock()
	e.Hydrate(id, exerciseAttrs(snap))
	return e, nil
}

func (s *Store) hydrateRoutine(snap serializer.Snapshot) (*model.Routine, error) {
	id, err := snapshotID(snap)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	r, ok := s.routines[id]
	if !ok {
		r = model.NewRoutine(model.RoutineAttrs{})
		s.routines[id] = r
	}
	s.mu.Unlock()
	r.Hydrate(id, routineAttrs(snap))
	return r, nil
}

func (s *Store) hydrateSection(snap serializer.Snapshot) (*model.Section, error) {
	id, err := snapshotID(snap)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	sec, ok := s.sections[id]
	if !ok {
		sec = model.NewSection(model.SectionAttrs{})
		s.sections[id] = sec
	}
	s.mu.Unlock()
	sec.Hydrate(id, sectionAttrs(snap))
	return sec, nil
}

func (s *Store) hydrateSectionExercise(snap serializer.Snapshot) (*model.SectionExercise, error) {
	id, err := snapshotID(snap)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	se, ok := s.sectionExercises[id]
	if !ok {
		se = model.NewSectionExercise(model.SectionExerciseAttrs{})
		s.sectionExercises[id] = se
	}
	s.mu.Unlock()
	se.Hydrate(id, sectionExerciseAttrs(snap))
	return se, nil
}
