package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidID = errors.New("model: task id must be positive")
	ErrEmptyText = errors.New("model: task text is required")
)

type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func NewTask(id int64, text string) (Task, error) {
	t := Task{ID: id, Text: strings.TrimSpace(text)}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (t Task) Validate() error {
	if t.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

// IDSource hands out millisecond-timestamp ids that never repeat within a
// process: when two tasks land in the same millisecond the later one is
// bumped past the previous id.
type IDSource struct {
	now  func() time.Time
	last int64
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

func (s *IDSource) Next() int64 {
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe records an id that already exists so Next never reissues it.
func (s *IDSource) Observe(id int64) {
	if id > s.last {
		s.last = id
	}
}
