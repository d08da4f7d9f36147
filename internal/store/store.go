// Package store holds the current user's task collection.
//
// TaskStore is the only writer of the collection and of the loading/error
// pair. Every operation is tagged with a sequence number and the user epoch
// it started in: responses that arrive after the user changed are dropped,
// a list response is dropped when a newer list request was started, and a
// failure is recorded only if no newer operation has started since.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"taskPlanner/internal/apiclient"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/session"

	"go.uber.org/zap"
)

var ErrNoUser = errors.New("no authenticated user")

const (
	msgFetchFailed  = "Failed to fetch tasks"
	msgCreateFailed = "Failed to create task"
	msgUpdateFailed = "Failed to update task"
	msgDeleteFailed = "Failed to delete task"
	msgToggleFailed = "Failed to toggle task completion"
)

// API - часть apiclient.Client, которой пользуется хранилище.
type API interface {
	Get(ctx context.Context, path string, out any) apiclient.Result
	Post(ctx context.Context, path string, body, out any) apiclient.Result
	Put(ctx context.Context, path string, body, out any) apiclient.Result
	Patch(ctx context.Context, path string, body, out any) apiclient.Result
	Delete(ctx context.Context, path string, out any) apiclient.Result
}

// Snapshot - неизменяемый снимок состояния для слоя представления.
type Snapshot struct {
	UserID  int64
	HasUser bool
	Tasks   []task.Task
	Loading bool
	Error   string
}

type TaskStore struct {
	api API

	mtx       sync.RWMutex
	user      *session.User
	tasks     *collection
	inflight  int
	errMsg    string
	seq       uint64
	lastFetch uint64
	epoch     uint64
}

type operation struct {
	name   string
	seq    uint64
	epoch  uint64
	userID int64
	fetch  bool
}

func New(api API) *TaskStore {
	return &TaskStore{
		api:   api,
		tasks: newCollection(),
	}
}

func (s *TaskStore) Snapshot() Snapshot {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	snap := Snapshot{
		Tasks:   s.tasks.snapshot(),
		Loading: s.inflight > 0,
		Error:   s.errMsg,
	}
	if s.user != nil {
		snap.HasUser = true
		snap.UserID = s.user.ID
	}
	return snap
}

func (s *TaskStore) Tasks() []task.Task {
	return s.Snapshot().Tasks
}

// HandleUserChanged - явный обработчик смены пользователя от модуля авторизации.
// Новый пользователь: полный fetch без фильтров; пользователь пропал: кэш очищается.
func (s *TaskStore) HandleUserChanged(ctx context.Context, user *session.User) error {
	s.mtx.Lock()
	if sameUser(s.user, user) {
		s.mtx.Unlock()
		return nil
	}
	s.epoch++
	s.tasks.clear()
	s.errMsg = ""
	if user == nil {
		s.user = nil
		s.mtx.Unlock()
		logger.Info("Store: Пользователь вышел, кэш задач очищен")
		return nil
	}
	u := *user
	s.user = &u
	s.mtx.Unlock()

	logger.Info("Store: Смена пользователя, загрузка задач", zap.Int64("user_id", u.ID))
	return s.FetchTasks(ctx, nil)
}

func (s *TaskStore) FetchTasks(ctx context.Context, filter *task.Filter) error {
	op, err := s.begin("fetch_tasks", true)
	if err != nil {
		return err
	}
	defer s.end()

	path := tasksPath(op.userID)
	if query := EncodeFilter(filter); query != "" {
		path += "?" + query
	}

	var tasks []task.Task
	res := s.api.Get(ctx, path, &tasks)
	if res.Err != nil || !res.HasData {
		return s.fail(op, res, msgFetchFailed)
	}

	s.settle(op, func(c *collection) {
		c.replace(tasks)
	})
	return nil
}

func (s *TaskStore) CreateTask(ctx context.Context, title, description string, options ...task.FieldOption) (task.Task, error) {
	op, err := s.begin("create_task", false)
	if err != nil {
		return task.Task{}, err
	}
	defer s.end()

	var created task.Task
	res := s.api.Post(ctx, tasksPath(op.userID), task.NewFields(title, description, options...), &created)
	if res.Err != nil || !res.HasData {
		return task.Task{}, s.fail(op, res, msgCreateFailed)
	}

	s.settle(op, func(c *collection) {
		c.add(created)
	})
	return created, nil
}

func (s *TaskStore) UpdateTask(ctx context.Context, id int64, title, description string, options ...task.FieldOption) (task.Task, error) {
	op, err := s.begin("update_task", false)
	if err != nil {
		return task.Task{}, err
	}
	defer s.end()

	var updated task.Task
	res := s.api.Put(ctx, taskPath(op.userID, id), task.NewFields(title, description, options...), &updated)
	if res.Err != nil || !res.HasData {
		return task.Task{}, s.fail(op, res, msgUpdateFailed)
	}

	// сервер мог вернуть запись без id; ключом остаётся запрошенный id
	updated.ID = id
	s.settle(op, func(c *collection) {
		if !c.update(updated) {
			logger.Debug("Store: Обновлённой задачи нет в кэше", zap.Int64("task_id", id))
		}
	})
	return updated, nil
}

// DeleteTask считает успехом только статус ровно 200.
func (s *TaskStore) DeleteTask(ctx context.Context, id int64) error {
	op, err := s.begin("delete_task", false)
	if err != nil {
		return err
	}
	defer s.end()

	res := s.api.Delete(ctx, taskPath(op.userID, id), nil)
	if res.Err != nil || res.Status != http.StatusOK {
		return s.fail(op, res, msgDeleteFailed)
	}

	s.settle(op, func(c *collection) {
		c.remove(id)
	})
	return nil
}

type toggleResponse struct {
	Completed *bool `json:"completed"`
}

// ToggleTaskCompletion переписывает только поле completed значением от сервера.
func (s *TaskStore) ToggleTaskCompletion(ctx context.Context, id int64) (bool, error) {
	op, err := s.begin("toggle_task", false)
	if err != nil {
		return false, err
	}
	defer s.end()

	var resp toggleResponse
	res := s.api.Patch(ctx, taskPath(op.userID, id)+"/toggle", nil, &resp)
	if res.Err != nil || !res.HasData || resp.Completed == nil {
		return false, s.fail(op, res, msgToggleFailed)
	}

	completed := *resp.Completed
	s.settle(op, func(c *collection) {
		c.setCompleted(id, completed)
	})
	return completed, nil
}

func (s *TaskStore) begin(name string, fetch bool) (operation, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.user == nil {
		return operation{}, ErrNoUser
	}

	s.seq++
	op := operation{name: name, seq: s.seq, epoch: s.epoch, userID: s.user.ID, fetch: fetch}
	if fetch {
		s.lastFetch = op.seq
	}
	s.inflight++
	s.errMsg = ""
	return op, nil
}

// end парный к begin; вызывается через defer на любом пути выхода
func (s *TaskStore) end() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.inflight--
}

func (s *TaskStore) settle(op operation, apply func(c *collection)) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if op.epoch != s.epoch {
		logger.Info("Store: Ответ для прежнего пользователя отброшен", zap.String("operation", op.name))
		return
	}
	if op.fetch && op.seq != s.lastFetch {
		logger.Info("Store: Устаревший список задач отброшен", zap.Uint64("seq", op.seq), zap.Uint64("latest", s.lastFetch))
		return
	}
	apply(s.tasks)
}

func (s *TaskStore) fail(op operation, res apiclient.Result, fallback string) error {
	err := res.Err
	if err == nil {
		err = errors.New(fallback)
	}

	s.mtx.Lock()
	if op.seq == s.seq && (op.epoch == s.epoch || s.loggedOutBy(err)) {
		s.errMsg = err.Error()
	}
	s.mtx.Unlock()

	logger.Warn("Store: Операция не выполнена",
		zap.String("operation", op.name),
		zap.Int("status", res.Status),
		zap.Error(err))
	return fmt.Errorf("%s: %w", op.name, err)
}

// loggedOutBy: 401 сам разлогинил пользователя до возврата из клиента,
// сообщение об этом остаётся видимым после выхода
func (s *TaskStore) loggedOutBy(err error) bool {
	return s.user == nil && errors.Is(err, apiclient.ErrUnauthorized)
}

func tasksPath(userID int64) string {
	return fmt.Sprintf("/api/%d/tasks", userID)
}

func taskPath(userID, taskID int64) string {
	return fmt.Sprintf("/api/%d/tasks/%d", userID, taskID)
}

func sameUser(a, b *session.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
