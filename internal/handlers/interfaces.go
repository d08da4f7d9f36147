package handlers

import (
	"context"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/notify"
	"taskPlanner/internal/session"
	"taskPlanner/internal/store"
)

type TaskStore interface {
	FetchTasks(ctx context.Context, filter *task.Filter) error
	CreateTask(ctx context.Context, title, description string, options ...task.FieldOption) (task.Task, error)
	UpdateTask(ctx context.Context, id int64, title, description string, options ...task.FieldOption) (task.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ToggleTaskCompletion(ctx context.Context, id int64) (bool, error)
	Snapshot() store.Snapshot
}

type Session interface {
	Login(ctx context.Context, token string) (*session.User, error)
	Logout(ctx context.Context) error
	CurrentUser() *session.User
}

type ToastSource interface {
	Drain() []notify.Toast
}
