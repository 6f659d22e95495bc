package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/sandeepkv93/todolist/internal/model"
)

func task(id int64, text string) model.Task {
	return model.Task{ID: id, Text: text}
}

func ids(tasks []model.Task) string {
	parts := make([]string, 0, len(tasks))
	for _, t := range tasks {
		parts = append(parts, strconv.FormatInt(t.ID, 10))
	}
	return strings.Join(parts, ",")
}

func TestLoadAllEmptyWhenAbsent(t *testing.T) {
	repo := NewTaskRepository(NewMemoryKV(), "todos", nil)
	got, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestLoadAllTreatsBlankAndNullAsEmpty(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		kv := NewMemoryKV()
		_ = kv.Set(context.Background(), "todos", raw)
		got, err := NewTaskRepository(kv, "todos", nil).LoadAll(context.Background())
		if err != nil {
			t.Fatalf("load %q: %v", raw, err)
		}
		if len(got) != 0 {
			t.Fatalf("load %q: expected empty, got %#v", raw, got)
		}
	}
}

func TestLoadAllMalformedIsError(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Set(context.Background(), "todos", `{"id":1`)
	_, err := NewTaskRepository(kv, "todos", nil).LoadAll(context.Background())
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
}

func TestLoadAllDoesNotValidate(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Set(context.Background(), "todos", `[{"id":7,"text":"","completed":true}]`)
	got, err := NewTaskRepository(kv, "todos", nil).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Text != "" || !got[0].Completed {
		t.Fatalf("expected record passed through untouched, got %#v", got)
	}
}

func TestAppendPutsNewestAtHead(t *testing.T) {
	repo := NewTaskRepository(NewMemoryKV(), "todos", nil)
	ctx := context.Background()
	for i := int64(1); i <= 4; i++ {
		if err := repo.Append(ctx, task(i, "t")); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		got, _ := repo.LoadAll(ctx)
		if int64(len(got)) != i {
			t.Fatalf("expected %d records, got %d", i, len(got))
		}
		if got[0].ID != i {
			t.Fatalf("expected head %d, got %d", i, got[0].ID)
		}
	}
}

func TestRemoveFiltersMatchingID(t *testing.T) {
	repo := NewTaskRepository(NewMemoryKV(), "todos", nil)
	ctx := context.Background()
	if err := repo.Replace(ctx, []model.Task{task(1, "a"), task(2, "b"), task(3, "c")}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := repo.Remove(ctx, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ := repo.LoadAll(ctx)
	if ids(got) != "1,3" {
		t.Fatalf("unexpected ids after remove: %s", ids(got))
	}
	if err := repo.Remove(ctx, 99); err != nil {
		t.Fatalf("remove missing id: %v", err)
	}
	got, _ = repo.LoadAll(ctx)
	if ids(got) != "1,3" {
		t.Fatalf("remove of unknown id changed the list: %s", ids(got))
	}
}

func TestReplaceWritesWireFormat(t *testing.T) {
	kv := NewMemoryKV()
	repo := NewTaskRepository(kv, "todos", nil)
	ctx := context.Background()
	if err := repo.Replace(ctx, []model.Task{{ID: 5, Text: "x", Completed: true}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	raw, _ := kv.Get(ctx, "todos")
	if raw != `[{"id":5,"text":"x","completed":true}]` {
		t.Fatalf("unexpected document: %s", raw)
	}
	if err := repo.Replace(ctx, nil); err != nil {
		t.Fatalf("replace nil: %v", err)
	}
	raw, _ = kv.Get(ctx, "todos")
	if raw != "[]" {
		t.Fatalf("expected empty array, got %s", raw)
	}
}

func TestRepositoryDefaultsKey(t *testing.T) {
	repo := NewTaskRepository(NewMemoryKV(), "  ", nil)
	if repo.Key() != DefaultKey {
		t.Fatalf("expected default key, got %q", repo.Key())
	}
}
