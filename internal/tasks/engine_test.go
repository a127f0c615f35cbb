package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/radar/internal/events"
	"github.com/sandeepkv93/radar/internal/model"
	"github.com/sandeepkv93/radar/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func setupEngine(t *testing.T) (*Engine, *storage.SQLiteRepository, *events.Bus) {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "radar.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	logger, _ := test.NewNullLogger()
	bus := events.NewBus()
	e := NewEngine(repo, bus, logger)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	e.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	if err := e.Load(testContext(t)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return e, repo, bus
}

func mustAdd(t *testing.T, e *Engine, title string) model.Task {
	t.Helper()
	task, ok, err := e.Add(testContext(t), title)
	if err != nil || !ok {
		t.Fatalf("add %q: ok=%v err=%v", title, ok, err)
	}
	return task
}

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestRadarScenario(t *testing.T) {
	e, repo, _ := setupEngine(t)
	ctx := testContext(t)

	milk := mustAdd(t, e, "Buy milk")
	bob := mustAdd(t, e, "Call Bob")
	if milk.Order != 0 || bob.Order != 1 {
		t.Fatalf("unexpected orders: milk=%d bob=%d", milk.Order, bob.Order)
	}
	if milk.Status != model.StatusTodo || bob.Status != model.StatusTodo {
		t.Fatalf("new tasks must be todo")
	}

	got, err := e.CycleStatus(ctx, milk.ID)
	if err != nil || got.Status != model.StatusWaiting {
		t.Fatalf("cycle: status=%s err=%v", got.Status, err)
	}

	moved, err := e.MoveDown(ctx, milk.ID)
	if err != nil || !moved {
		t.Fatalf("move down: moved=%v err=%v", moved, err)
	}
	if names := titles(e.Tasks()); names[0] != "Call Bob" || names[1] != "Buy milk" {
		t.Fatalf("unexpected order after move: %v", names)
	}

	n, err := e.ClearDone(ctx)
	if err != nil || n != 0 || e.Len() != 2 {
		t.Fatalf("clear done with nothing done: n=%d len=%d err=%v", n, e.Len(), err)
	}

	for i := 0; i < 2; i++ {
		if _, err := e.CycleStatus(ctx, milk.ID); err != nil {
			t.Fatalf("cycle: %v", err)
		}
	}
	if task, _ := e.Get(milk.ID); task.Status != model.StatusDone {
		t.Fatalf("expected done, got %s", task.Status)
	}

	n, err = e.ClearDone(ctx)
	if err != nil || n != 1 {
		t.Fatalf("clear done: n=%d err=%v", n, err)
	}
	remaining := e.Tasks()
	if len(remaining) != 1 || remaining[0].ID != bob.ID {
		t.Fatalf("unexpected remaining tasks: %v", titles(remaining))
	}

	stored, err := repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != bob.ID || *stored[0].SortOrder != 0 {
		t.Fatalf("store out of sync: %+v", stored)
	}
}

func TestAddBlankTitleIsNoop(t *testing.T) {
	e, _, bus := setupEngine(t)
	published := 0
	events.Listen(bus, func(events.TaskAdded) { published++ })

	for _, title := range []string{"", "   ", "\t\n"} {
		_, ok, err := e.Add(testContext(t), title)
		if ok || err != nil {
			t.Fatalf("expected blank %q to be ignored, ok=%v err=%v", title, ok, err)
		}
	}
	if e.Len() != 0 || published != 0 {
		t.Fatalf("expected no tasks and no events, len=%d events=%d", e.Len(), published)
	}

	task := mustAdd(t, e, "  trimmed  ")
	if task.Title != "trimmed" || published != 1 {
		t.Fatalf("unexpected add result title=%q events=%d", task.Title, published)
	}
}

func TestCycleStatusIsClosed(t *testing.T) {
	e, _, _ := setupEngine(t)
	task := mustAdd(t, e, "loop")
	want := []model.Status{model.StatusWaiting, model.StatusDone, model.StatusTodo}
	prev := task.UpdatedAt
	for i, status := range want {
		got, err := e.CycleStatus(testContext(t), task.ID)
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		if got.Status != status {
			t.Fatalf("cycle %d: want %s got %s", i, status, got.Status)
		}
		if !got.UpdatedAt.After(prev) {
			t.Fatalf("cycle %d did not refresh updated_at", i)
		}
		prev = got.UpdatedAt
	}

	if _, err := e.CycleStatus(testContext(t), "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestEditTitle(t *testing.T) {
	e, repo, _ := setupEngine(t)
	task := mustAdd(t, e, "draft")

	changed, err := e.EditTitle(testContext(t), task.ID, "   ")
	if err != nil || changed {
		t.Fatalf("blank edit must be discarded: changed=%v err=%v", changed, err)
	}
	changed, err = e.EditTitle(testContext(t), task.ID, " final ")
	if err != nil || !changed {
		t.Fatalf("edit: changed=%v err=%v", changed, err)
	}
	stored, err := repo.GetTask(testContext(t), task.ID)
	if err != nil || stored.Title != "final" {
		t.Fatalf("stored title=%q err=%v", stored.Title, err)
	}
	if _, err := e.EditTitle(testContext(t), "missing", "x"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	e, _, _ := setupEngine(t)
	task := mustAdd(t, e, "gone")
	for i := 0; i < 2; i++ {
		if err := e.Delete(testContext(t), task.ID); err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
	}
	if e.Len() != 0 {
		t.Fatalf("expected empty list, got %d", e.Len())
	}
}

func TestMoveBoundariesAndPairwiseSwap(t *testing.T) {
	e, _, _ := setupEngine(t)
	a := mustAdd(t, e, "a")
	b := mustAdd(t, e, "b")
	c := mustAdd(t, e, "c")
	d := mustAdd(t, e, "d")

	if moved, err := e.MoveUp(testContext(t), a.ID); moved || err != nil {
		t.Fatalf("move up first must be noop: moved=%v err=%v", moved, err)
	}
	if moved, err := e.MoveDown(testContext(t), d.ID); moved || err != nil {
		t.Fatalf("move down last must be noop: moved=%v err=%v", moved, err)
	}

	if _, err := e.MoveUp(testContext(t), c.ID); err != nil {
		t.Fatalf("move up: %v", err)
	}
	orders := map[string]int{}
	for _, task := range e.Tasks() {
		orders[task.ID] = task.Order
	}
	if orders[a.ID] != 0 || orders[c.ID] != 1 || orders[b.ID] != 2 || orders[d.ID] != 3 {
		t.Fatalf("expected only b and c to swap, got %v", orders)
	}
	if _, err := e.MoveDown(testContext(t), "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestMoveOnTiedOrderNormalizesFirst(t *testing.T) {
	e, repo, _ := setupEngine(t)
	ctx := testContext(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	zero := 0
	for i, title := range []string{"first", "second"} {
		err := repo.CreateTask(ctx, storage.Task{
			ID: fmt.Sprintf("t%d", i), Title: title, Status: "todo", SortOrder: &zero,
			CreatedAt: base.Add(time.Duration(i) * time.Minute), UpdatedAt: base,
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := e.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if moved, err := e.MoveDown(ctx, "t0"); !moved || err != nil {
		t.Fatalf("move down: moved=%v err=%v", moved, err)
	}
	if names := titles(e.Tasks()); names[0] != "second" || names[1] != "first" {
		t.Fatalf("swap not visible: %v", names)
	}

	stored, err := repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if stored[0].ID != "t1" || *stored[0].SortOrder != 0 || *stored[1].SortOrder != 1 {
		t.Fatalf("unexpected stored order: %+v %+v", stored[0], stored[1])
	}
}

func TestNormalizeOrder(t *testing.T) {
	e, repo, _ := setupEngine(t)
	ctx := testContext(t)

	first := mustAdd(t, e, "first")
	if changed, err := e.NormalizeOrder(ctx); changed || err != nil {
		t.Fatalf("a lone task at order 0 must not be renumbered: changed=%v err=%v", changed, err)
	}

	legacy := storage.Task{
		ID: "legacy", Title: "legacy", Status: "waiting",
		CreatedAt: first.CreatedAt.Add(time.Hour), UpdatedAt: first.CreatedAt,
	}
	if err := repo.CreateTask(ctx, legacy); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}
	if err := e.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	changed, err := e.NormalizeOrder(ctx)
	if err != nil || !changed {
		t.Fatalf("normalize: changed=%v err=%v", changed, err)
	}
	got := e.Tasks()
	if got[0].ID != first.ID || got[0].Order != 0 || got[1].ID != "legacy" || got[1].Order != 1 {
		t.Fatalf("unexpected normalized order: %+v", got)
	}
	stored, err := repo.GetTask(ctx, "legacy")
	if err != nil || stored.SortOrder == nil || *stored.SortOrder != 1 {
		t.Fatalf("legacy order not persisted: %+v err=%v", stored, err)
	}

	if changed, err := e.NormalizeOrder(ctx); changed || err != nil {
		t.Fatalf("second normalize must be a noop: changed=%v err=%v", changed, err)
	}
}

func TestClearAllPublishes(t *testing.T) {
	e, _, bus := setupEngine(t)
	var got events.TasksCleared
	events.Listen(bus, func(ev events.TasksCleared) { got = ev })

	mustAdd(t, e, "one")
	mustAdd(t, e, "two")
	n, err := e.ClearAll(testContext(t))
	if err != nil || n != 2 || e.Len() != 0 {
		t.Fatalf("clear all: n=%d len=%d err=%v", n, e.Len(), err)
	}
	if got.DoneOnly || got.Count != 2 {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestClearDoneKeepsOthersInOrder(t *testing.T) {
	e, repo, _ := setupEngine(t)
	ctx := testContext(t)

	var all []model.Task
	for _, title := range []string{"one", "two", "three", "four", "five"} {
		all = append(all, mustAdd(t, e, title))
	}
	for _, idx := range []int{1, 3} {
		for i := 0; i < 2; i++ {
			if _, err := e.CycleStatus(ctx, all[idx].ID); err != nil {
				t.Fatalf("cycle: %v", err)
			}
		}
	}

	n, err := e.ClearDone(ctx)
	if err != nil || n != 2 {
		t.Fatalf("clear done: n=%d err=%v", n, err)
	}

	want := []model.Task{all[0], all[2], all[4]}
	check := func(where string, ids []string, orders []int) {
		t.Helper()
		if len(ids) != len(want) {
			t.Fatalf("%s: expected %d tasks, got %v", where, len(want), ids)
		}
		for i, w := range want {
			if ids[i] != w.ID || orders[i] != w.Order {
				t.Fatalf("%s: position %d = %s/%d, want %s/%d", where, i, ids[i], orders[i], w.ID, w.Order)
			}
		}
	}

	var ids []string
	var orders []int
	for _, task := range e.Tasks() {
		ids = append(ids, task.ID)
		orders = append(orders, task.Order)
	}
	check("memory", ids, orders)

	stored, err := repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids, orders = nil, nil
	for _, row := range stored {
		if row.SortOrder == nil {
			t.Fatalf("stored task %s lost its order", row.ID)
		}
		ids = append(ids, row.ID)
		orders = append(orders, *row.SortOrder)
	}
	check("store", ids, orders)
}

func TestLoadPublishesReload(t *testing.T) {
	e, _, bus := setupEngine(t)
	mustAdd(t, e, "one")
	count := -1
	events.Listen(bus, func(ev events.TasksReloaded) { count = ev.Count })
	if err := e.Load(testContext(t)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected reload count 1, got %d", count)
	}
}

type failingRepo struct {
	storage.TaskRepository
	err error
}

func (f failingRepo) CreateTask(context.Context, storage.Task) error { return f.err }
func (f failingRepo) UpdateTask(context.Context, storage.Task) error { return f.err }
func (f failingRepo) ListTasks(context.Context, storage.TaskListFilter) ([]storage.Task, error) {
	return nil, nil
}

func TestPersistenceFailureKeepsMemoryAndLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	boom := errors.New("disk full")
	e := NewEngine(failingRepo{err: boom}, events.NewBus(), logger)

	task, ok, err := e.Add(testContext(t), "unsaved")
	if !ok || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, ok=%v err=%v", ok, err)
	}
	if _, found := e.Get(task.ID); !found {
		t.Fatal("in-memory add must not be rolled back")
	}
	if _, err := e.CycleStatus(testContext(t), task.ID); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if got, _ := e.Get(task.ID); got.Status != model.StatusWaiting {
		t.Fatalf("in-memory status must not be rolled back, got %s", got.Status)
	}

	entries := hook.AllEntries()
	if len(entries) != 2 || entries[0].Level != logrus.ErrorLevel {
		t.Fatalf("expected two error log entries, got %d", len(entries))
	}
	if entries[0].Data[logrus.ErrorKey] != boom {
		t.Fatalf("log entry missing error field: %v", entries[0].Data)
	}
}
