package todo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/todolist/internal/drag"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.TaskRepository, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	repo := storage.NewTaskRepository(kv, "todos", nil)
	clock := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	s := New(repo, WithIDSource(model.NewIDSource(func() time.Time { return clock })))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s, repo, kv
}

func texts(tasks []model.Task) string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Text)
	}
	return strings.Join(out, ",")
}

func storedTexts(t *testing.T, repo *storage.TaskRepository) string {
	t.Helper()
	tasks, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load stored: %v", err)
	}
	return texts(tasks)
}

func mustAdd(t *testing.T, s *Store, text string) Entry {
	t.Helper()
	e, err := s.Add(context.Background(), text)
	if err != nil {
		t.Fatalf("add %q: %v", text, err)
	}
	return e
}

func TestAddKeepsNewestOnTop(t *testing.T) {
	s, repo, _ := newTestStore(t)
	for i, text := range []string{"a", "b", "c", "d"} {
		task := mustAdd(t, s, text).Task
		stored, _ := repo.LoadAll(context.Background())
		if len(stored) != i+1 {
			t.Fatalf("expected %d stored tasks, got %d", i+1, len(stored))
		}
		if stored[0].ID != task.ID {
			t.Fatalf("expected head to be newest task %d, got %d", task.ID, stored[0].ID)
		}
	}
	if texts(s.Tasks()) != "d,c,b,a" {
		t.Fatalf("unexpected display order: %s", texts(s.Tasks()))
	}
	if storedTexts(t, repo) != "d,c,b,a" {
		t.Fatalf("unexpected stored order: %s", storedTexts(t, repo))
	}
}

func TestAddTrimsAndRejectsBlank(t *testing.T) {
	s, _, kv := newTestStore(t)
	if _, err := s.Add(context.Background(), "   "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if kv.Writes() != 0 || !s.Empty() {
		t.Fatalf("blank add must not mutate anything: writes=%d len=%d", kv.Writes(), s.Len())
	}
	task := mustAdd(t, s, "  walk dog ").Task
	if task.Text != "walk dog" || task.Completed {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestAddSameMillisecondGetsDistinctIDs(t *testing.T) {
	s, _, _ := newTestStore(t)
	a := mustAdd(t, s, "a")
	b := mustAdd(t, s, "b")
	if a.Task.ID == b.Task.ID {
		t.Fatalf("expected distinct ids, both %d", a.Task.ID)
	}
	if a.Handle == b.Handle || a.Handle == 0 {
		t.Fatalf("expected distinct non-zero handles, got %d and %d", a.Handle, b.Handle)
	}
}

func TestLoadRestoresStoredOrder(t *testing.T) {
	kv := storage.NewMemoryKV()
	repo := storage.NewTaskRepository(kv, "todos", nil)
	ctx := context.Background()
	if err := repo.Replace(ctx, []model.Task{
		{ID: 1, Text: "T1"},
		{ID: 2, Text: "T2", Completed: true},
		{ID: 3, Text: "T3"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := New(repo)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if texts(s.Tasks()) != "T1,T2,T3" {
		t.Fatalf("expected T1,T2,T3 top to bottom, got %s", texts(s.Tasks()))
	}
	if !s.Tasks()[1].Completed {
		t.Fatal("expected completed flag restored")
	}
	if kv.Writes() != 1 {
		t.Fatalf("load must not write, writes=%d", kv.Writes())
	}
}

func TestLoadSeedsIDSourcePastStoredIDs(t *testing.T) {
	kv := storage.NewMemoryKV()
	repo := storage.NewTaskRepository(kv, "todos", nil)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	_ = repo.Replace(context.Background(), []model.Task{{ID: future, Text: "later"}})

	clock := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	s := New(repo, WithIDSource(model.NewIDSource(func() time.Time { return clock })))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	task := mustAdd(t, s, "new").Task
	if task.ID != future+1 {
		t.Fatalf("expected id %d, got %d", future+1, task.ID)
	}
}

func TestLoadMalformedFails(t *testing.T) {
	kv := storage.NewMemoryKV()
	_ = kv.Set(context.Background(), "todos", "[{")
	s := New(storage.NewTaskRepository(kv, "todos", nil))
	if err := s.Load(context.Background()); !errors.Is(err, storage.ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestToggleTwiceIsIdentity(t *testing.T) {
	s, repo, _ := newTestStore(t)
	task := mustAdd(t, s, "a")
	mustAdd(t, s, "b")
	ctx := context.Background()

	if err := s.Toggle(ctx, task.Handle); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	stored, _ := repo.LoadAll(ctx)
	if !stored[1].Completed || !s.Tasks()[1].Completed {
		t.Fatalf("expected completed after first toggle: %+v", stored)
	}
	if err := s.Toggle(ctx, task.Handle); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	stored, _ = repo.LoadAll(ctx)
	if stored[1].Completed || s.Tasks()[1].Completed {
		t.Fatalf("expected original state after second toggle: %+v", stored)
	}
	if storedTexts(t, repo) != "b,a" {
		t.Fatalf("toggle must not reorder: %s", storedTexts(t, repo))
	}
}

func TestToggleUnknown(t *testing.T) {
	s, _, _ := newTestStore(t)
	if err := s.Toggle(context.Background(), Handle(42)); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	for _, victim := range []string{"a", "b", "c"} {
		s, repo, _ := newTestStore(t)
		byText := map[string]Handle{}
		for _, text := range []string{"a", "b", "c"} {
			byText[text] = mustAdd(t, s, text).Handle
		}
		if err := s.Delete(context.Background(), byText[victim]); err != nil {
			t.Fatalf("delete %s: %v", victim, err)
		}
		if s.Len() != 2 {
			t.Fatalf("delete %s: expected 2 entries, got %d", victim, s.Len())
		}
		stored, _ := repo.LoadAll(context.Background())
		if len(stored) != 2 {
			t.Fatalf("delete %s: expected 2 stored, got %d", victim, len(stored))
		}
		for _, task := range stored {
			if task.Text == victim {
				t.Fatalf("delete %s: still stored", victim)
			}
		}
		if texts(s.Tasks()) != storedTexts(t, repo) {
			t.Fatalf("display %s != stored %s", texts(s.Tasks()), storedTexts(t, repo))
		}
	}
}

func TestTwoPhaseDelete(t *testing.T) {
	s, repo, _ := newTestStore(t)
	ctx := context.Background()
	a := mustAdd(t, s, "a")
	b := mustAdd(t, s, "b")

	if err := s.BeginDelete(a.Handle); err != nil {
		t.Fatalf("begin delete: %v", err)
	}
	e, _ := s.At(1)
	if e.State != EntryPendingRemoval {
		t.Fatalf("expected pending removal, got %s", e.State)
	}
	if storedTexts(t, repo) != "b,a" {
		t.Fatalf("storage must keep the entry until the animation finishes: %s", storedTexts(t, repo))
	}
	if err := s.Toggle(ctx, a.Handle); !errors.Is(err, ErrPendingRemoval) {
		t.Fatalf("expected ErrPendingRemoval on toggle, got %v", err)
	}
	if err := s.BeginDelete(a.Handle); !errors.Is(err, ErrPendingRemoval) {
		t.Fatalf("expected ErrPendingRemoval on second delete, got %v", err)
	}
	if err := s.StartDrag(a.Handle); !errors.Is(err, ErrPendingRemoval) {
		t.Fatalf("expected ErrPendingRemoval on drag, got %v", err)
	}

	// A resync while the entry is still shown keeps it in storage.
	if err := s.Toggle(ctx, b.Handle); err != nil {
		t.Fatalf("toggle b: %v", err)
	}
	if storedTexts(t, repo) != "b,a" {
		t.Fatalf("unexpected stored list: %s", storedTexts(t, repo))
	}

	removed, err := s.FinishDelete(ctx, a.Handle)
	if err != nil || !removed {
		t.Fatalf("finish delete: removed=%v err=%v", removed, err)
	}
	removed, err = s.FinishDelete(ctx, a.Handle)
	if err != nil || removed {
		t.Fatalf("second finish must be a no-op: removed=%v err=%v", removed, err)
	}
	if storedTexts(t, repo) != "b" || texts(s.Tasks()) != "b" {
		t.Fatalf("unexpected state after delete: display=%s stored=%s", texts(s.Tasks()), storedTexts(t, repo))
	}
}

func TestFinishDeleteIgnoresActiveEntry(t *testing.T) {
	s, _, _ := newTestStore(t)
	a := mustAdd(t, s, "a")
	removed, err := s.FinishDelete(context.Background(), a.Handle)
	if err != nil || removed || s.Len() != 1 {
		t.Fatalf("finish without begin must not remove: removed=%v err=%v len=%d", removed, err, s.Len())
	}
}

func TestMove(t *testing.T) {
	s, repo, _ := newTestStore(t)
	ctx := context.Background()
	c := mustAdd(t, s, "c")
	mustAdd(t, s, "b")
	a := mustAdd(t, s, "a")

	if err := s.Move(ctx, a.Handle, 2); err != nil {
		t.Fatalf("move: %v", err)
	}
	if texts(s.Tasks()) != "b,c,a" || storedTexts(t, repo) != "b,c,a" {
		t.Fatalf("unexpected order: display=%s stored=%s", texts(s.Tasks()), storedTexts(t, repo))
	}
	if err := s.Move(ctx, c.Handle, -3); err != nil {
		t.Fatalf("move: %v", err)
	}
	if texts(s.Tasks()) != "c,b,a" || storedTexts(t, repo) != "c,b,a" {
		t.Fatalf("unexpected order: display=%s stored=%s", texts(s.Tasks()), storedTexts(t, repo))
	}
}

func rowLayout(i int) drag.Box { return drag.RowLayout{RowHeight: 1}.Box(i) }

func TestDragReorderPersistsOnEnd(t *testing.T) {
	s, repo, kv := newTestStore(t)
	ctx := context.Background()
	mustAdd(t, s, "c")
	mustAdd(t, s, "b")
	a := mustAdd(t, s, "a")
	writes := kv.Writes()

	if err := s.StartDrag(a.Handle); err != nil {
		t.Fatalf("start drag: %v", err)
	}
	if h, ok := s.Dragging(); !ok || h != a.Handle {
		t.Fatalf("expected drag marker on %d", a.Handle)
	}

	// Pointer in the lower part of row 1 ("b"): lands before "c".
	if moved := s.DragOver(1.75, rowLayout); !moved {
		t.Fatal("expected a move")
	}
	if texts(s.Tasks()) != "b,a,c" {
		t.Fatalf("unexpected live order: %s", texts(s.Tasks()))
	}
	// Below every row: end of list.
	s.DragOver(5, rowLayout)
	if texts(s.Tasks()) != "b,c,a" {
		t.Fatalf("unexpected live order: %s", texts(s.Tasks()))
	}
	if kv.Writes() != writes {
		t.Fatal("drag-over must not persist")
	}

	if err := s.EndDrag(ctx); err != nil {
		t.Fatalf("end drag: %v", err)
	}
	if _, ok := s.Dragging(); ok {
		t.Fatal("expected drag marker cleared")
	}
	if storedTexts(t, repo) != texts(s.Tasks()) {
		t.Fatalf("stored %s != display %s", storedTexts(t, repo), texts(s.Tasks()))
	}
}

func TestDragOverToTop(t *testing.T) {
	s, _, _ := newTestStore(t)
	c := mustAdd(t, s, "c")
	mustAdd(t, s, "b")
	mustAdd(t, s, "a")
	_ = s.StartDrag(c.Handle)
	s.DragOver(0.25, rowLayout)
	if texts(s.Tasks()) != "c,a,b" {
		t.Fatalf("unexpected order: %s", texts(s.Tasks()))
	}
	if s.DragOver(0.25, rowLayout) {
		t.Fatal("second tick at the same spot must not move")
	}
}

func TestEndDragWithoutStart(t *testing.T) {
	s, _, _ := newTestStore(t)
	if err := s.EndDrag(context.Background()); !errors.Is(err, ErrNotDragging) {
		t.Fatalf("expected ErrNotDragging, got %v", err)
	}
	if s.DragOver(1, rowLayout) {
		t.Fatal("drag-over without drag must not move")
	}
}

func seedDuplicateIDs(t *testing.T) (*Store, *storage.TaskRepository) {
	t.Helper()
	kv := storage.NewMemoryKV()
	if err := kv.Set(context.Background(), "todos", `[{"id":5,"text":"a","completed":false},{"id":5,"text":"b","completed":false}]`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := storage.NewTaskRepository(kv, "todos", nil)
	s := New(repo)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s, repo
}

func TestDuplicateIDsToggleTheAddressedEntry(t *testing.T) {
	s, repo := seedDuplicateIDs(t)
	second, _ := s.At(1)
	if err := s.Toggle(context.Background(), second.Handle); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	tasks := s.Tasks()
	if tasks[0].Completed || !tasks[1].Completed {
		t.Fatalf("expected only b toggled, got %+v", tasks)
	}
	stored, _ := repo.LoadAll(context.Background())
	if stored[0].Completed || !stored[1].Completed {
		t.Fatalf("expected only b toggled in storage, got %+v", stored)
	}
}

func TestDuplicateIDsDeleteKeepsTheOther(t *testing.T) {
	s, repo := seedDuplicateIDs(t)
	ctx := context.Background()
	second, _ := s.At(1)
	if err := s.BeginDelete(second.Handle); err != nil {
		t.Fatalf("begin delete: %v", err)
	}
	first, _ := s.At(0)
	if first.State != EntryActive {
		t.Fatalf("only the addressed entry may be pending, a is %s", first.State)
	}
	if err := s.Toggle(ctx, first.Handle); err != nil {
		t.Fatalf("toggle a while b is pending: %v", err)
	}
	if removed, err := s.FinishDelete(ctx, second.Handle); err != nil || !removed {
		t.Fatalf("finish delete: removed=%v err=%v", removed, err)
	}
	if texts(s.Tasks()) != "a" || storedTexts(t, repo) != "a" {
		t.Fatalf("expected a to survive: display=%s stored=%s", texts(s.Tasks()), storedTexts(t, repo))
	}
}

func TestDuplicateIDsDrag(t *testing.T) {
	s, repo := seedDuplicateIDs(t)
	second, _ := s.At(1)
	if err := s.StartDrag(second.Handle); err != nil {
		t.Fatalf("start drag: %v", err)
	}
	if !s.DragOver(0.25, rowLayout) {
		t.Fatal("expected a move")
	}
	if err := s.EndDrag(context.Background()); err != nil {
		t.Fatalf("end drag: %v", err)
	}
	if texts(s.Tasks()) != "b,a" || storedTexts(t, repo) != "b,a" {
		t.Fatalf("unexpected order: display=%s stored=%s", texts(s.Tasks()), storedTexts(t, repo))
	}
}
