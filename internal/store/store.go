// Package store keeps an identity map of loaded records and persists them
// through an Adapter, serializing with the relationship-coercing serializer.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/prikhi/bodyweight-client/internal/model"
	"github.com/prikhi/bodyweight-client/internal/serializer"
)

const (
	DefaultTimeout = 15 * time.Second
	fetchLimit     = 4
)

type Store struct {
	adapter    Adapter
	serializer *serializer.Serializer
	logger     *zap.Logger
	timeout    time.Duration
	flight     singleflight.Group

	mu               sync.Mutex
	exercises        map[int64]*model.Exercise
	exerciseOrder    []*model.Exercise
	routines         map[int64]*model.Routine
	sections         map[int64]*model.Section
	sectionExercises map[int64]*model.SectionExercise
}

type Option func(*Store)

func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithSerializer(ser *serializer.Serializer) Option {
	return func(s *Store) { s.serializer = ser }
}

func New(adapter Adapter, opts ...Option) *Store {
	s := &Store{
		adapter:          adapter,
		logger:           zap.NewNop(),
		timeout:          DefaultTimeout,
		exercises:        make(map[int64]*model.Exercise),
		routines:         make(map[int64]*model.Routine),
		sections:         make(map[int64]*model.Section),
		sectionExercises: make(map[int64]*model.SectionExercise),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.serializer == nil {
		s.serializer = serializer.New(s.logger, Schemas...)
	}
	return s
}

func (s *Store) CreateExercise(attrs model.ExerciseAttrs) *model.Exercise {
	e := model.NewExercise(attrs)
	s.mu.Lock()
	s.exerciseOrder = append(s.exerciseOrder, e)
	s.mu.Unlock()
	return e
}

// Exercises returns every live exercise the store knows about, unsaved ones
// included.
func (s *Store) Exercises() []*model.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Exercise, 0, len(s.exerciseOrder))
	for _, e := range s.exerciseOrder {
		if e.State() != model.StateDeleted {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func flightKey(op string, e model.Entity) string {
	return fmt.Sprintf("%s:%s:%p", op, e.Kind(), e)
}

func (s *Store) opError(ctx context.Context, op string, e model.Entity, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w: %w", op, e.Kind(), ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w", op, e.Kind(), err)
}

// Save creates or updates e. Concurrent saves of the same record share one
// request.
func (s *Store) Save(ctx context.Context, e model.Entity) error {
	_, err, shared := s.flight.Do(flightKey("save", e), func() (any, error) {
		return nil, s.save(ctx, e)
	})
	if shared {
		s.logger.Debug("joined in-flight save", zap.String("kind", e.Kind()), zap.Int64("id", e.Key()))
	}
	return err
}

func (s *Store) save(ctx context.Context, e model.Entity) error {
	if err := e.BeginSave(); err != nil {
		return fmt.Errorf("save %s: %w", e.Kind(), err)
	}
	snap, err := snapshotOf(e)
	if err != nil {
		e.AbortSave()
		return err
	}
	hash := map[string]any{}
	if err := s.serializer.SerializeIntoHash(hash, snap); err != nil {
		e.AbortSave()
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id := e.Key()
	var resp map[string]any
	if id == 0 {
		resp, err = s.adapter.CreateRecord(ctx, e.Kind(), hash)
	} else {
		resp, err = s.adapter.UpdateRecord(ctx, e.Kind(), id, hash)
	}
	if err != nil {
		e.AbortSave()
		s.logger.Warn("save failed", zap.String("kind", e.Kind()), zap.Int64("id", id), zap.Error(err))
		return s.opError(ctx, "save", e, err)
	}

	if resp != nil {
		snaps, err := s.serializer.Normalize(e.Kind(), resp)
		if err != nil {
			e.AbortSave()
			return fmt.Errorf("decode saved %s: %w", e.Kind(), err)
		}
		if len(snaps) > 0 && snaps[0].ID != "" {
			if id, err = parseID(snaps[0].ID); err != nil {
				e.AbortSave()
				return err
			}
		}
	}
	if id == 0 {
		e.AbortSave()
		return fmt.Errorf("save %s: response carried no id", e.Kind())
	}
	e.CommitSave(id)
	s.register(e)
	s.logger.Debug("saved record", zap.String("kind", e.Kind()), zap.Int64("id", id))
	return nil
}

// Destroy deletes e on the server and unlinks it from its parents. Unsaved
// records are only unlinked.
func (s *Store) Destroy(ctx context.Context, e model.Entity) error {
	_, err, _ := s.flight.Do(flightKey("destroy", e), func() (any, error) {
		return nil, s.destroy(ctx, e)
	})
	return err
}

func (s *Store) destroy(ctx context.Context, e model.Entity) error {
	if err := e.BeginDestroy(); err != nil {
		return fmt.Errorf("destroy %s: %w", e.Kind(), err)
	}
	id := e.Key()
	if id > 0 {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()
		if err := s.adapter.DeleteRecord(ctx, e.Kind(), id); err != nil {
			e.AbortDestroy()
			s.logger.Warn("destroy failed", zap.String("kind", e.Kind()), zap.Int64("id", id), zap.Error(err))
			return s.opError(ctx, "destroy", e, err)
		}
	}
	e.CommitDestroy()
	s.forget(e)
	s.logger.Debug("destroyed record", zap.String("kind", e.Kind()), zap.Int64("id", id))
	return nil
}

func (s *Store) register(e model.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v := e.(type) {
	case *model.Exercise:
		if _, ok := s.exercises[v.Key()]; !ok {
			s.exercises[v.Key()] = v
			if !containsExercise(s.exerciseOrder, v) {
				s.exerciseOrder = append(s.exerciseOrder, v)
			}
		}
	case *model.Routine:
		s.routines[v.Key()] = v
	case *model.Section:
		s.sections[v.Key()] = v
	case *model.SectionExercise:
		s.sectionExercises[v.Key()] = v
	}
}

func (s *Store) forget(e model.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v := e.(type) {
	case *model.Exercise:
		delete(s.exercises, v.Key())
		for i, existing := range s.exerciseOrder {
			if existing == v {
				s.exerciseOrder = append(s.exerciseOrder[:i], s.exerciseOrder[i+1:]...)
				break
			}
		}
		for _, se := range s.sectionExercises {
			se.RemoveExercise(v)
		}
	case *model.Routine:
		delete(s.routines, v.Key())
	case *model.Section:
		delete(s.sections, v.Key())
		if v.Routine != nil {
			v.Routine.DetachSection(v)
		}
	case *model.SectionExercise:
		delete(s.sectionExercises, v.Key())
		if v.Section != nil {
			v.Section.DetachSectionExercise(v)
		}
	}
}

func containsExercise(list []*model.Exercise, e *model.Exercise) bool {
	for _, existing := range list {
		if existing == e {
			return true
		}
	}
	return false
}
