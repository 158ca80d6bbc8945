package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/prikhi/bodyweight-client/internal/model"
	"github.com/prikhi/bodyweight-client/internal/serializer"
	"github.com/prikhi/bodyweight-client/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memAdapter struct {
	mu      sync.Mutex
	nextID  int64
	records map[string]map[int64]map[string]any
	calls   []string
	block   chan struct{}
	failOn  string
}

func newMemAdapter() *memAdapter {
	return &memAdapter{records: map[string]map[int64]map[string]any{}}
}

func (a *memAdapter) record(call string) error {
	a.mu.Lock()
	a.calls = append(a.calls, call)
	fail := a.failOn == call
	a.mu.Unlock()
	if fail {
		return fmt.Errorf("injected failure for %s", call)
	}
	return nil
}

func (a *memAdapter) callCount(call string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (a *memAdapter) put(kind string, id int64, body map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.records[kind] == nil {
		a.records[kind] = map[int64]map[string]any{}
	}
	body["id"] = id
	a.records[kind][id] = body
}

func (a *memAdapter) FindAll(ctx context.Context, kind string) (map[string]any, error) {
	if err := a.record("findAll " + kind); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	items := make([]any, 0)
	for _, body := range a.records[kind] {
		items = append(items, body)
	}
	return map[string]any{serializer.PluralKey(kind): items}, nil
}

func (a *memAdapter) FindRecord(ctx context.Context, kind string, id int64) (map[string]any, error) {
	if err := a.record("find " + kind); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	body, ok := a.records[kind][id]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", kind, id, store.ErrNotFound)
	}
	return map[string]any{kind: body}, nil
}

func (a *memAdapter) CreateRecord(ctx context.Context, kind string, payload map[string]any) (map[string]any, error) {
	if a.block != nil {
		select {
		case <-a.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := a.record("create " + kind); err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.nextID++
	id := a.nextID
	a.mu.Unlock()
	body := payload[kind].(map[string]any)
	a.put(kind, id, body)
	return map[string]any{kind: body}, nil
}

func (a *memAdapter) UpdateRecord(ctx context.Context, kind string, id int64, payload map[string]any) (map[string]any, error) {
	if err := a.record("update " + kind); err != nil {
		return nil, err
	}
	body := payload[kind].(map[string]any)
	a.put(kind, id, body)
	return map[string]any{kind: body}, nil
}

func (a *memAdapter) DeleteRecord(ctx context.Context, kind string, id int64) error {
	if err := a.record("delete " + kind); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.records[kind], id)
	return nil
}

func TestSaveAssignsIDAndSerializesIntegerKeys(t *testing.T) {
	adapter := newMemAdapter()
	s := store.New(adapter)
	ctx := context.Background()

	routine := model.NewRoutine(model.RoutineAttrs{Name: "Starter"})
	require.NoError(t, s.Save(ctx, routine))
	assert.False(t, routine.IsNew())
	assert.Equal(t, model.StateSaved, routine.State())

	section := model.NewSection(model.SectionAttrs{Name: "Warm up"})
	require.NoError(t, routine.AttachSection(section))
	require.NoError(t, s.Save(ctx, section))

	body := adapter.records[model.KindSection][section.Key()]
	assert.Equal(t, routine.Key(), body["routine"])
	assert.Equal(t, []int64{}, body["sectionExercises"])

	require.NoError(t, s.Save(ctx, routine))
	assert.Equal(t, 1, adapter.callCount("update routine"))
	assert.Equal(t, []int64{section.Key()}, adapter.records[model.KindRoutine][routine.Key()]["sections"])
}

func TestSaveFailureLeavesRecordUnsaved(t *testing.T) {
	adapter := newMemAdapter()
	adapter.failOn = "create routine"
	s := store.New(adapter)

	routine := model.NewRoutine(model.RoutineAttrs{Name: "Starter"})
	err := s.Save(context.Background(), routine)
	require.Error(t, err)
	assert.True(t, routine.IsNew())
	assert.Equal(t, model.StateNew, routine.State())
}

func TestConcurrentSavesShareOneRequest(t *testing.T) {
	adapter := newMemAdapter()
	adapter.block = make(chan struct{})
	s := store.New(adapter)
	exercise := s.CreateExercise(model.ExerciseAttrs{Name: "pushup"})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Save(context.Background(), exercise)
		}()
	}
	require.Eventually(t, func() bool { return exercise.State() == model.StateSaving }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(adapter.block)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, adapter.callCount("create exercise"))
	assert.False(t, exercise.IsNew())
}

func TestDestroyDuringSaveIsRejected(t *testing.T) {
	adapter := newMemAdapter()
	adapter.block = make(chan struct{})
	s := store.New(adapter)
	exercise := s.CreateExercise(model.ExerciseAttrs{Name: "pushup"})

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background(), exercise) }()
	require.Eventually(t, func() bool { return exercise.State() == model.StateSaving }, time.Second, time.Millisecond)

	err := s.Destroy(context.Background(), exercise)
	require.ErrorIs(t, err, model.ErrInFlight)

	close(adapter.block)
	require.NoError(t, <-done)
}

func TestSaveTimesOut(t *testing.T) {
	adapter := newMemAdapter()
	adapter.block = make(chan struct{})
	defer close(adapter.block)
	s := store.New(adapter, store.WithTimeout(20*time.Millisecond))

	routine := model.NewRoutine(model.RoutineAttrs{Name: "Slow"})
	err := s.Save(context.Background(), routine)
	require.ErrorIs(t, err, store.ErrTimeout)
	assert.True(t, routine.IsNew())
}

func TestDestroyUnsavedRecordSkipsAdapter(t *testing.T) {
	adapter := newMemAdapter()
	s := store.New(adapter)
	exercise := s.CreateExercise(model.ExerciseAttrs{Name: "draft"})
	require.Len(t, s.Exercises(), 1)

	require.NoError(t, s.Destroy(context.Background(), exercise))
	assert.Equal(t, 0, adapter.callCount("delete exercise"))
	assert.Equal(t, model.StateDeleted, exercise.State())
	assert.Empty(t, s.Exercises())
}

func TestDestroyUnlinksSection(t *testing.T) {
	adapter := newMemAdapter()
	s := store.New(adapter)
	ctx := context.Background()

	routine := model.NewRoutine(model.RoutineAttrs{Name: "Starter"})
	require.NoError(t, s.Save(ctx, routine))
	section := model.NewSection(model.SectionAttrs{Name: "Main"})
	require.NoError(t, routine.AttachSection(section))
	require.NoError(t, s.Save(ctx, section))

	require.NoError(t, s.Destroy(ctx, section))
	assert.Equal(t, 1, adapter.callCount("delete section"))
	assert.Empty(t, routine.Sections)
	assert.Nil(t, section.Routine)
}

func TestFindRoutineAssemblesGraph(t *testing.T) {
	adapter := newMemAdapter()
	adapter.put(model.KindExercise, 10, map[string]any{"name": "pushup", "isHold": false})
	adapter.put(model.KindExercise, 11, map[string]any{"name": "plank", "isHold": true})
	adapter.put(model.KindSectionExercise, 20, map[string]any{"order": float64(1), "setCount": float64(3), "repCount": float64(10), "restAfter": true, "section": float64(30), "exercises": []any{float64(10), float64(11)}})
	adapter.put(model.KindSection, 30, map[string]any{"name": "Main", "routine": float64(40), "sectionExercises": []any{float64(20)}})
	adapter.put(model.KindRoutine, 40, map[string]any{"name": "Starter", "isPublic": true, "sections": []any{float64(30)}})

	s := store.New(adapter)
	routine, err := s.FindRoutine(context.Background(), 40)
	require.NoError(t, err)

	assert.Equal(t, "Starter", routine.Attrs.Name)
	assert.True(t, routine.Attrs.IsPublic)
	require.Len(t, routine.Sections, 1)
	section := routine.Sections[0]
	assert.Equal(t, int64(30), section.Key())
	assert.Same(t, routine, section.Routine)
	require.Len(t, section.SectionExercises, 1)
	bundle := section.SectionExercises[0]
	assert.Equal(t, 3, bundle.Attrs.SetCount)
	assert.True(t, bundle.Attrs.RestAfter)
	require.Len(t, bundle.Exercises, 2)
	assert.Equal(t, model.TypeHold, bundle.Exercises[1].Type())

	again, err := s.FindRoutine(context.Background(), 40)
	require.NoError(t, err)
	assert.Same(t, routine, again)
	assert.Equal(t, 2, adapter.callCount("find exercise"))
}

func TestFindRoutineNotFound(t *testing.T) {
	s := store.New(newMemAdapter())
	_, err := s.FindRoutine(context.Background(), 99)
	require.True(t, errors.Is(err, store.ErrNotFound), "expected not found, got %v", err)
}

func TestFindAllExercisesKeepsUnsavedInLiveList(t *testing.T) {
	adapter := newMemAdapter()
	adapter.put(model.KindExercise, 1, map[string]any{"name": "squat"})
	s := store.New(adapter)
	draft := s.CreateExercise(model.ExerciseAttrs{})

	all, err := s.FindAllExercises(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Contains(t, all, draft)
}

func TestFindAllRoutines(t *testing.T) {
	adapter := newMemAdapter()
	adapter.put(model.KindRoutine, 1, map[string]any{"name": "A", "sections": []any{float64(5)}})
	adapter.put(model.KindRoutine, 2, map[string]any{"name": "B", "sections": []any{}})
	adapter.put(model.KindSection, 5, map[string]any{"name": "Only", "routine": float64(1), "sectionExercises": []any{}})

	s := store.New(adapter)
	routines, err := s.FindAllRoutines(context.Background())
	require.NoError(t, err)
	require.Len(t, routines, 2)
	total := 0
	for _, r := range routines {
		total += len(r.Sections)
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, adapter.callCount("findAll sectionExercise"))
}
