package store

import (
	"context"

	"github.com/me/taskflow/pkg/model"
)

// Store defines the persistence layer for users' tasks.
type Store interface {
	// Task CRUD
	CreateTask(ctx context.Context, rec *model.TaskRecord) error
	GetTask(ctx context.Context, id string) (*model.TaskRecord, error)
	ListTasksByUser(ctx context.Context, userID string, opts model.ListOptions) ([]*model.TaskRecord, int, error)
	UpdateTask(ctx context.Context, rec *model.TaskRecord) error
	DeleteTask(ctx context.Context, id string) error

	// Dependency edges
	AddDependency(ctx context.Context, taskID, dependencyID string) error
	RemoveDependency(ctx context.Context, taskID, dependencyID string) error

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
