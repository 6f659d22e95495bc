package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todolist/internal/model"
)

const DefaultKey = "todos"

var ErrMalformedDocument = errors.New("storage: malformed task document")

// TaskRepository stores the whole ordered task list as one JSON array under
// a single key. Index 0 of the array is the top of the visible list.
type TaskRepository struct {
	kv     KeyValueStore
	key    string
	logger *log.Logger
}

func NewTaskRepository(kv KeyValueStore, key string, logger *log.Logger) *TaskRepository {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TaskRepository{kv: kv, key: key, logger: logger}
}

func (r *TaskRepository) Key() string { return r.key }

// Raw returns the stored document exactly as written, or "" when absent.
func (r *TaskRepository) Raw(ctx context.Context) (string, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return raw, nil
}

// LoadAll performs no schema validation; a document that is not a JSON
// array of task objects fails with ErrMalformedDocument.
func (r *TaskRepository) LoadAll(ctx context.Context) ([]model.Task, error) {
	raw, err := r.Raw(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.key, err)
	}
	if strings.TrimSpace(raw) == "" {
		return []model.Task{}, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, r.key, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (r *TaskRepository) Append(ctx context.Context, task model.Task) error {
	tasks, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}
	out := make([]model.Task, 0, len(tasks)+1)
	out = append(out, task)
	out = append(out, tasks...)
	return r.write(ctx, "append", out)
}

func (r *TaskRepository) Remove(ctx context.Context, id int64) error {
	tasks, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return r.write(ctx, "remove", out)
}

// Replace overwrites the stored array with tasks, in order.
func (r *TaskRepository) Replace(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return r.write(ctx, "resync", tasks)
}

func (r *TaskRepository) write(ctx context.Context, op string, tasks []model.Task) error {
	payload, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.key, err)
	}
	if err := r.kv.Set(ctx, r.key, string(payload)); err != nil {
		return fmt.Errorf("%s %s: %w", op, r.key, err)
	}
	r.logger.Debug("tasks written", "op", op, "key", r.key, "count", len(tasks))
	return nil
}
