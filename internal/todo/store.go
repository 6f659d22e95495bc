// Package todo owns the ordered task list shown to the user and keeps the
// persisted copy in step with it after every action.
package todo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todolist/internal/drag"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/storage"
)

var (
	ErrEmptyText      = errors.New("todo: task text is empty")
	ErrUnknownTask    = errors.New("todo: unknown task")
	ErrPendingRemoval = errors.New("todo: task is being removed")
	ErrNotDragging    = errors.New("todo: no drag in progress")
)

type EntryState int

const (
	EntryActive EntryState = iota
	EntryPendingRemoval
)

func (s EntryState) String() string {
	switch s {
	case EntryActive:
		return "active"
	case EntryPendingRemoval:
		return "pending-removal"
	default:
		return fmt.Sprintf("EntryState(%d)", int(s))
	}
}

// Handle names one entry for as long as it is in the list. Task ids come
// from storage and may repeat, handles never do. Zero is never assigned.
type Handle int64

type Entry struct {
	Handle Handle
	Task   model.Task
	State  EntryState
}

// Repository is the persistence the store writes through to.
type Repository interface {
	LoadAll(ctx context.Context) ([]model.Task, error)
	Append(ctx context.Context, task model.Task) error
	Remove(ctx context.Context, id int64) error
	Replace(ctx context.Context, tasks []model.Task) error
}

var _ Repository = (*storage.TaskRepository)(nil)

// Store is the authoritative in-memory list. Index 0 is the top entry.
// It is not safe for concurrent use.
type Store struct {
	repo     Repository
	ids      *model.IDSource
	logger   *log.Logger
	entries  []Entry
	handles  Handle
	dragging Handle
}

type Option func(*Store)

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithIDSource(ids *model.IDSource) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		ids:    model.NewIDSource(nil),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory list with the persisted one. Stored order is
// top first, and insertEntry always inserts at the top, so the stored array
// is walked in reverse to rebuild the same order.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.entries = s.entries[:0]
	s.dragging = 0
	for i := len(tasks) - 1; i >= 0; i-- {
		s.insertEntry(tasks[i])
		s.ids.Observe(tasks[i].ID)
	}
	s.logger.Debug("tasks loaded", "count", len(tasks))
	return nil
}

func (s *Store) insertEntry(t model.Task) Entry {
	s.handles++
	e := Entry{Handle: s.handles, Task: t, State: EntryActive}
	s.entries = append(s.entries, Entry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = e
	return e
}

func (s *Store) Len() int { return len(s.entries) }

func (s *Store) Empty() bool { return len(s.entries) == 0 }

func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Task)
	}
	return out
}

// At returns the entry at a display position.
func (s *Store) At(index int) (Entry, bool) {
	if index < 0 || index >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[index], true
}

// IndexOf returns the display position of the entry with handle h, or -1.
func (s *Store) IndexOf(h Handle) int {
	for i, e := range s.entries {
		if e.Handle == h {
			return i
		}
	}
	return -1
}

func (s *Store) Add(ctx context.Context, text string) (Entry, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Entry{}, ErrEmptyText
	}
	task, err := model.NewTask(s.ids.Next(), trimmed)
	if err != nil {
		return Entry{}, err
	}
	e := s.insertEntry(task)
	if err := s.repo.Append(ctx, task); err != nil {
		return e, err
	}
	s.logger.Debug("task added", "id", task.ID)
	return e, nil
}

func (s *Store) Toggle(ctx context.Context, h Handle) error {
	i, err := s.activeIndex(h)
	if err != nil {
		return err
	}
	s.entries[i].Task.Completed = !s.entries[i].Task.Completed
	return s.Resync(ctx)
}

// BeginDelete marks an entry pending-removal. It stays in the list, and in
// storage, until FinishDelete.
func (s *Store) BeginDelete(h Handle) error {
	i, err := s.activeIndex(h)
	if err != nil {
		return err
	}
	s.entries[i].State = EntryPendingRemoval
	if s.dragging == h {
		s.dragging = 0
	}
	return nil
}

// FinishDelete removes an entry that BeginDelete marked. Repeated calls for
// the same handle report false and touch nothing. Storage drops every task
// with a given id, so while another entry still carries the removed task's
// id the whole list is rewritten instead.
func (s *Store) FinishDelete(ctx context.Context, h Handle) (bool, error) {
	i := s.IndexOf(h)
	if i < 0 || s.entries[i].State != EntryPendingRemoval {
		return false, nil
	}
	id := s.entries[i].Task.ID
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	var err error
	if s.sharesID(id) {
		err = s.Resync(ctx)
	} else {
		err = s.repo.Remove(ctx, id)
	}
	if err != nil {
		return true, err
	}
	s.logger.Debug("task removed", "id", id)
	return true, nil
}

func (s *Store) sharesID(id int64) bool {
	for _, e := range s.entries {
		if e.Task.ID == id {
			return true
		}
	}
	return false
}

// Delete removes an entry without an animation phase.
func (s *Store) Delete(ctx context.Context, h Handle) error {
	if err := s.BeginDelete(h); err != nil {
		return err
	}
	_, err := s.FinishDelete(ctx, h)
	return err
}

// Move places an entry at index to and persists the new order.
func (s *Store) Move(ctx context.Context, h Handle, to int) error {
	from, err := s.activeIndex(h)
	if err != nil {
		return err
	}
	if to < 0 {
		to = 0
	}
	if to >= len(s.entries) {
		to = len(s.entries) - 1
	}
	if from == to {
		return nil
	}
	s.moveTo(from, to)
	return s.Resync(ctx)
}

func (s *Store) moveTo(from, to int) {
	e := s.entries[from]
	s.entries = append(s.entries[:from], s.entries[from+1:]...)
	s.entries = append(s.entries, Entry{})
	copy(s.entries[to+1:], s.entries[to:])
	s.entries[to] = e
}

func (s *Store) StartDrag(h Handle) error {
	if _, err := s.activeIndex(h); err != nil {
		return err
	}
	s.dragging = h
	return nil
}

func (s *Store) Dragging() (Handle, bool) {
	return s.dragging, s.dragging != 0
}

// DragOver moves the dragged entry in front of the entry whose center is
// the nearest one still below pointerY, or to the end when there is none.
// layout maps a current display index to its on-screen box. It reports
// whether the order changed.
func (s *Store) DragOver(pointerY float64, layout func(index int) drag.Box) bool {
	if s.dragging == 0 {
		return false
	}
	from := s.IndexOf(s.dragging)
	if from < 0 {
		s.dragging = 0
		return false
	}
	candidates := make([]drag.Candidate, 0, len(s.entries)-1)
	for i, e := range s.entries {
		if i == from {
			continue
		}
		candidates = append(candidates, drag.Candidate{ID: int64(e.Handle), Box: layout(i)})
	}

	to := len(s.entries) - 1
	if target, ok := drag.InsertBefore(candidates, pointerY); ok {
		to = s.IndexOf(Handle(target.ID))
		if to > from {
			to--
		}
	}
	if to == from {
		return false
	}
	s.moveTo(from, to)
	return true
}

// EndDrag clears the drag marker and persists whatever order the drag left.
func (s *Store) EndDrag(ctx context.Context) error {
	if s.dragging == 0 {
		return ErrNotDragging
	}
	s.dragging = 0
	return s.Resync(ctx)
}

// Resync overwrites storage with the current list, top first.
func (s *Store) Resync(ctx context.Context) error {
	return s.repo.Replace(ctx, s.Tasks())
}

func (s *Store) activeIndex(h Handle) (int, error) {
	i := s.IndexOf(h)
	if i < 0 {
		return -1, fmt.Errorf("%w: handle %d", ErrUnknownTask, h)
	}
	if s.entries[i].State == EntryPendingRemoval {
		return -1, fmt.Errorf("%w: id %d", ErrPendingRemoval, s.entries[i].Task.ID)
	}
	return i, nil
}
