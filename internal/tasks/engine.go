package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/radar/internal/events"
	"github.com/sandeepkv93/radar/internal/model"
	"github.com/sandeepkv93/radar/internal/storage"
	"github.com/sirupsen/logrus"
)

var ErrTaskNotFound = errors.New("tasks: task not found")

// Engine owns the in-memory task list. Mutations update memory first and
// then persist; a failed write is logged and returned but not rolled back.
type Engine struct {
	mu    sync.Mutex
	repo  storage.TaskRepository
	bus   *events.Bus
	log   logrus.FieldLogger
	now   func() time.Time
	newID func() string
	tasks []model.Task
}

func NewEngine(repo storage.TaskRepository, bus *events.Bus, logger logrus.FieldLogger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{
		repo:  repo,
		bus:   bus,
		log:   logger.WithField("component", "tasks"),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Load replaces the in-memory list with the stored tasks.
func (e *Engine) Load(ctx context.Context) error {
	rows, err := e.repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		e.log.WithError(err).Error("failed to load tasks")
		return fmt.Errorf("load tasks: %w", err)
	}
	loaded := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		loaded = append(loaded, fromEntity(row))
	}
	model.SortTasks(loaded)

	e.mu.Lock()
	e.tasks = loaded
	e.mu.Unlock()

	e.bus.Publish(events.TasksReloaded{Count: len(loaded)})
	return nil
}

// Tasks returns a copy of the list in display order.
func (e *Engine) Tasks() []model.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Task, len(e.tasks))
	copy(out, e.tasks)
	return out
}

func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

func (e *Engine) Get(id string) (model.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return e.tasks[idx], true
}

// Add appends a todo task. A blank title is ignored and reported with ok=false.
func (e *Engine) Add(ctx context.Context, title string) (model.Task, bool, error) {
	title = model.NormalizeTitle(title)
	if title == "" {
		return model.Task{}, false, nil
	}

	e.mu.Lock()
	now := e.now()
	task := model.Task{
		ID:            e.newID(),
		Title:         title,
		Status:        model.StatusTodo,
		Order:         model.NextOrder(e.tasks),
		OrderAssigned: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	e.tasks = append(e.tasks, task)
	model.SortTasks(e.tasks)
	err := e.repo.CreateTask(ctx, toEntity(task))
	e.mu.Unlock()

	e.bus.Publish(events.TaskAdded{Task: task})
	if err != nil {
		e.log.WithError(err).WithField("task", task.ID).Error("failed to persist new task")
		return task, true, fmt.Errorf("create task: %w", err)
	}
	return task, true, nil
}

// CycleStatus advances the task to its next status.
func (e *Engine) CycleStatus(ctx context.Context, id string) (model.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	task := &e.tasks[idx]
	task.Status = task.Status.Next()
	task.UpdatedAt = e.now()
	if err := e.repo.UpdateTask(ctx, toEntity(*task)); err != nil {
		e.log.WithError(err).WithField("task", id).Error("failed to persist status change")
		return *task, fmt.Errorf("update task status: %w", err)
	}
	return *task, nil
}

// EditTitle replaces the title. Blank input is discarded and reported with
// changed=false; the previous title stays.
func (e *Engine) EditTitle(ctx context.Context, id, title string) (bool, error) {
	title = model.NormalizeTitle(title)

	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(id)
	if idx < 0 {
		return false, ErrTaskNotFound
	}
	if title == "" {
		return false, nil
	}
	task := &e.tasks[idx]
	if task.Title == title {
		return false, nil
	}
	task.Title = title
	task.UpdatedAt = e.now()
	if err := e.repo.UpdateTask(ctx, toEntity(*task)); err != nil {
		e.log.WithError(err).WithField("task", id).Error("failed to persist title change")
		return true, fmt.Errorf("update task title: %w", err)
	}
	return true, nil
}

// Delete removes the task. Deleting an absent task is not an error.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx := e.indexOf(id); idx >= 0 {
		e.tasks = append(e.tasks[:idx], e.tasks[idx+1:]...)
	}
	err := e.repo.DeleteTask(ctx, id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		e.log.WithError(err).WithField("task", id).Error("failed to delete task")
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// MoveUp swaps the task with its predecessor. moved is false at the top.
func (e *Engine) MoveUp(ctx context.Context, id string) (bool, error) {
	return e.move(ctx, id, -1)
}

// MoveDown swaps the task with its successor. moved is false at the bottom.
func (e *Engine) MoveDown(ctx context.Context, id string) (bool, error) {
	return e.move(ctx, id, 1)
}

func (e *Engine) move(ctx context.Context, id string, delta int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.indexOf(id)
	if idx < 0 {
		return false, ErrTaskNotFound
	}
	other := idx + delta
	if other < 0 || other >= len(e.tasks) {
		return false, nil
	}

	now := e.now()
	var changed []model.Task
	if e.tasks[idx].Order == e.tasks[other].Order {
		changed = e.renumber(now)
	}
	a, b := &e.tasks[idx], &e.tasks[other]
	a.Order, b.Order = b.Order, a.Order
	a.UpdatedAt, b.UpdatedAt = now, now
	changed = append(changed, *a, *b)
	model.SortTasks(e.tasks)

	if err := e.repo.UpdateTaskOrders(ctx, toOrders(changed)); err != nil {
		e.log.WithError(err).WithField("task", id).Error("failed to persist reorder")
		return true, fmt.Errorf("reorder tasks: %w", err)
	}
	return true, nil
}

// ClearAll deletes every task and returns how many were removed.
func (e *Engine) ClearAll(ctx context.Context) (int, error) {
	e.mu.Lock()
	removed := len(e.tasks)
	e.tasks = nil
	n, err := e.repo.DeleteAllTasks(ctx)
	e.mu.Unlock()

	if err != nil {
		e.log.WithError(err).Error("failed to clear tasks")
		e.bus.Publish(events.TasksCleared{Count: removed})
		return removed, fmt.Errorf("clear tasks: %w", err)
	}
	e.bus.Publish(events.TasksCleared{Count: n})
	return n, nil
}

// ClearDone deletes the done tasks, keeping the relative order of the rest.
func (e *Engine) ClearDone(ctx context.Context) (int, error) {
	e.mu.Lock()
	kept := e.tasks[:0]
	removed := 0
	for _, t := range e.tasks {
		if t.Status == model.StatusDone {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	e.tasks = kept
	n, err := e.repo.DeleteTasksByStatus(ctx, string(model.StatusDone))
	e.mu.Unlock()

	if err != nil {
		e.log.WithError(err).Error("failed to clear done tasks")
		e.bus.Publish(events.TasksCleared{DoneOnly: true, Count: removed})
		return removed, fmt.Errorf("clear done tasks: %w", err)
	}
	e.bus.Publish(events.TasksCleared{DoneOnly: true, Count: n})
	return n, nil
}

// NormalizeOrder renumbers every task to its display position when any task
// has no assigned order or two tasks share one. It reports whether a
// renumber happened.
func (e *Engine) NormalizeOrder(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !model.NeedsRenumber(e.tasks) {
		return false, nil
	}
	changed := e.renumber(e.now())
	if len(changed) == 0 {
		return false, nil
	}
	if err := e.repo.UpdateTaskOrders(ctx, toOrders(changed)); err != nil {
		e.log.WithError(err).Error("failed to persist normalized order")
		return true, fmt.Errorf("normalize order: %w", err)
	}
	e.log.WithField("count", len(changed)).Info("normalized task order")
	return true, nil
}

// renumber assigns Order = position to every task and returns the tasks
// whose order changed. Caller holds mu.
func (e *Engine) renumber(now time.Time) []model.Task {
	model.SortTasks(e.tasks)
	changed := make([]model.Task, 0, len(e.tasks))
	for i := range e.tasks {
		t := &e.tasks[i]
		if t.OrderAssigned && t.Order == i {
			continue
		}
		t.Order = i
		t.OrderAssigned = true
		t.UpdatedAt = now
		changed = append(changed, *t)
	}
	return changed
}

func (e *Engine) indexOf(id string) int {
	for i := range e.tasks {
		if e.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func toEntity(t model.Task) storage.Task {
	out := storage.Task{
		ID:        t.ID,
		Title:     t.Title,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.OrderAssigned {
		order := t.Order
		out.SortOrder = &order
	}
	return out
}

func fromEntity(in storage.Task) model.Task {
	status := model.Status(in.Status)
	if !status.IsValid() {
		status = model.StatusTodo
	}
	out := model.Task{
		ID:        in.ID,
		Title:     in.Title,
		Status:    status,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
	if in.SortOrder != nil {
		out.Order = *in.SortOrder
		out.OrderAssigned = true
	}
	return out
}

func toOrders(tasks []model.Task) []storage.TaskOrder {
	out := make([]storage.TaskOrder, 0, len(tasks))
	seen := make(map[string]int, len(tasks))
	for _, t := range tasks {
		o := storage.TaskOrder{ID: t.ID, SortOrder: t.Order, UpdatedAt: t.UpdatedAt}
		if i, ok := seen[t.ID]; ok {
			out[i] = o
			continue
		}
		seen[t.ID] = len(out)
		out = append(out, o)
	}
	return out
}
