package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type TaskRepository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)
	UpdateTaskOrders(ctx context.Context, orders []TaskOrder) error
	DeleteAllTasks(ctx context.Context) (int, error)
	DeleteTasksByStatus(ctx context.Context, status string) (int, error)
}

// PreferencesRepository reads and writes the single preferences row.
type PreferencesRepository interface {
	GetPreferences(ctx context.Context) (Preferences, error)
	SavePreferences(ctx context.Context, in Preferences) error
}

// StateRepository is a small key/value store for values outside the core
// data model (hotkey pair, panel frame).
type StateRepository interface {
	GetState(ctx context.Context, key string) (string, error)
	SetState(ctx context.Context, key, value string) error
	DeleteState(ctx context.Context, key string) error
}

type Repository interface {
	TaskRepository
	PreferencesRepository
	StateRepository
}
