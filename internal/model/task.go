package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrInvalidStatus = errors.New("model: invalid task status")

type Status string

const (
	StatusTodo    Status = "todo"
	StatusWaiting Status = "waiting"
	StatusDone    Status = "done"
)

// Statuses lists every status in cycle order.
var Statuses = []Status{StatusTodo, StatusWaiting, StatusDone}

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusWaiting, StatusDone:
		return true
	default:
		return false
	}
}

// Next returns the status that follows s in the todo -> waiting -> done rotation.
// Unknown values restart the rotation at todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusWaiting
	case StatusWaiting:
		return StatusDone
	default:
		return StatusTodo
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

type Task struct {
	ID     string
	Title  string
	Status Status
	Order  int
	// OrderAssigned is false for rows written before ordering existed.
	OrderAssigned bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// NormalizeTitle trims user input. An empty result means the input must be discarded.
func NormalizeTitle(raw string) string {
	return strings.TrimSpace(raw)
}

// Less reports whether a sorts before b in display order.
func Less(a, b Task) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// SortTasks orders tasks in place by display order.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return Less(tasks[i], tasks[j]) })
}

// NextOrder returns the order value for a task appended to tasks.
func NextOrder(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	max := tasks[0].Order
	for _, t := range tasks[1:] {
		if t.Order > max {
			max = t.Order
		}
	}
	return max + 1
}

// NeedsRenumber reports whether any task lacks an assigned order or shares
// its order with another task.
func NeedsRenumber(tasks []Task) bool {
	seen := make(map[int]struct{}, len(tasks))
	for _, t := range tasks {
		if !t.OrderAssigned {
			return true
		}
		if _, dup := seen[t.Order]; dup {
			return true
		}
		seen[t.Order] = struct{}{}
	}
	return false
}
