// Package model defines the client-side records for exercises, routines,
// sections and section exercises together with their lifecycle state.
package model

import (
	"errors"
	"sync"
)

const (
	KindExercise        = "exercise"
	KindRoutine         = "routine"
	KindSection         = "section"
	KindSectionExercise = "sectionExercise"
)

var (
	ErrInFlight      = errors.New("another operation is in flight for this record")
	ErrDestroyed     = errors.New("record has been destroyed")
	ErrParentUnsaved = errors.New("parent record has not been saved")
)

type State int

const (
	StateNew State = iota
	StateSaving
	StateSaved
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

type Entity interface {
	Kind() string
	Key() int64
	IsNew() bool
	State() State
	BeginSave() error
	CommitSave(id int64)
	AbortSave()
	BeginDestroy() error
	CommitDestroy()
	AbortDestroy()
	Rollback() error
}

// Record holds the identity, editable attributes and last persisted snapshot
// of an entity. A zero ID means the record has no durable identifier yet.
type Record[T any] struct {
	Attrs T

	mu        sync.Mutex
	id        int64
	persisted T
	state     State
	prior     State
	busy      bool
}

func (r *Record[T]) init(attrs T) {
	r.Attrs = attrs
	r.persisted = attrs
	r.state = StateNew
}

func (r *Record[T]) Key() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

func (r *Record[T]) IsNew() bool {
	return r.Key() == 0
}

func (r *Record[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Persisted returns the attributes as of the last successful save or load.
func (r *Record[T]) Persisted() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persisted
}

func (r *Record[T]) Hydrate(id int64, attrs T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = id
	r.Attrs = attrs
	r.persisted = attrs
	r.state = StateSaved
}

func (r *Record[T]) BeginSave() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateDeleted {
		return ErrDestroyed
	}
	if r.busy {
		return ErrInFlight
	}
	r.busy = true
	r.prior = r.state
	r.state = StateSaving
	return nil
}

func (r *Record[T]) CommitSave(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id > 0 {
		r.id = id
	}
	r.persisted = r.Attrs
	r.state = StateSaved
	r.busy = false
}

func (r *Record[T]) AbortSave() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = r.prior
	r.busy = false
}

func (r *Record[T]) BeginDestroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateDeleted {
		return ErrDestroyed
	}
	if r.busy {
		return ErrInFlight
	}
	r.busy = true
	r.prior = r.state
	return nil
}

func (r *Record[T]) CommitDestroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateDeleted
	r.busy = false
}

func (r *Record[T]) AbortDestroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = r.prior
	r.busy = false
}

func (r *Record[T]) Rollback() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateDeleted {
		return ErrDestroyed
	}
	r.Attrs = r.persisted
	return nil
}
