// Package tasks implements the persisted to-do list. The whole list is
// read and rewritten on every mutation; position is the only identity.
package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/litescript/skydeck/internal/kvstore"
)

// StorageKey is the key the list is stored under.
const StorageKey = "tasks"

// ErrIndexOutOfRange is returned by Toggle and Delete for a position not
// in the current list.
var ErrIndexOutOfRange = errors.New("task index out of range")

// Task is a single to-do item.
type Task struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// List reads and writes the task sequence in a kvstore.Store.
type List struct {
	store kvstore.Store
	key   string
}

// NewList returns a list backed by store under StorageKey.
func NewList(store kvstore.Store) *List {
	return &List{store: store, key: StorageKey}
}

// Load returns the persisted list. A missing key is an empty list.
func (l *List) Load() ([]Task, error) {
	raw, ok, err := l.store.Get(l.key)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if !ok || raw == "" {
		return []Task{}, nil
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Save replaces the persisted list with tasks.
func (l *List) Save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := l.store.Set(l.key, string(data)); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Add appends a new open task with the trimmed text. Blank text is a
// no-op: added is false and nothing is written.
func (l *List) Add(text string) (tasks []Task, added bool, err error) {
	tasks, err = l.Load()
	if err != nil {
		return nil, false, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, false, nil
	}

	tasks = append(tasks, Task{Text: text})
	if err := l.Save(tasks); err != nil {
		return nil, false, err
	}
	return tasks, true, nil
}

// Toggle flips Done on the task at index i.
func (l *List) Toggle(i int) ([]Task, error) {
	tasks, err := l.Load()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(tasks) {
		return tasks, fmt.Errorf("toggle %d of %d: %w", i, len(tasks), ErrIndexOutOfRange)
	}

	tasks[i].Done = !tasks[i].Done
	if err := l.Save(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Delete removes the task at index i, shifting later tasks down.
func (l *List) Delete(i int) ([]Task, error) {
	tasks, err := l.Load()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(tasks) {
		return tasks, fmt.Errorf("delete %d of %d: %w", i, len(tasks), ErrIndexOutOfRange)
	}

	tasks = append(tasks[:i], tasks[i+1:]...)
	if err := l.Save(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Row is the render data for one task.
type Row struct {
	Index  int
	Text   string
	Done   bool
	Strike bool
}

// Rows computes the rows to draw for tasks.
func Rows(tasks []Task) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{Index: i, Text: t.Text, Done: t.Done, Strike: t.Done}
	}
	return rows
}

// Remaining counts tasks not yet done.
func Remaining(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Done {
			n++
		}
	}
	return n
}
