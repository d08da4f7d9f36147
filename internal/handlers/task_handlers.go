package handlers

import (
	"encoding/json"
	"net/http"
	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/session"
	"taskPlanner/internal/views"
	"time"

	"go.uber.org/zap"
)

type Handler struct {
	tasks      TaskStore
	session    Session
	toasts     ToastSource
	signInPath string
	now        func() time.Time
}

func NewHandler(tasks TaskStore, sess Session, toasts ToastSource, signInPath string) *Handler {
	if signInPath == "" {
		signInPath = session.DefaultSignInPath
	}
	return &Handler{
		tasks:      tasks,
		session:    sess,
		toasts:     toasts,
		signInPath: signInPath,
		now:        time.Now,
	}
}

func (h *Handler) today() task.Date {
	return task.DateOf(h.now())
}

// ListTasks: фильтры считает сервер, сортировка локальная.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()

	status, err := views.ParseStatus(query.Get("status"))
	if err != nil {
		logger.Warn("HTTP: Неверное значение параметра", zap.String("query", "status"), zap.Error(err))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	priority := query.Get("priority")
	if priority != "" && priority != views.PriorityAll {
		if _, err := task.ParsePriority(priority); err != nil {
			logger.Warn("HTTP: Неверное значение параметра", zap.String("query", "priority"), zap.Error(err))
			responseWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	sortKey, err := views.ParseSortKey(query.Get("sort"))
	if err != nil {
		logger.Warn("HTTP: Неверное значение параметра", zap.String("query", "sort"), zap.Error(err))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	criteria := views.Criteria{Status: status, Priority: priority, Search: query.Get("search")}
	filter := views.ServerFilter(criteria)

	if err := h.tasks.FetchTasks(r.Context(), &filter); err != nil {
		h.handleStoreError(w, r, err, "fetch_tasks")
		return
	}

	tasks := views.Sort(h.tasks.Snapshot().Tasks, sortKey)

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.String("sort", string(sortKey)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks, h.today())),
		toPayload("count", len(tasks)),
	)
}

func (h *Handler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, ok := decodeTaskRequest(w, r)
	if !ok {
		return
	}

	title, options, err := validateTaskRequest(req)
	if err != nil {
		logger.Warn("HTTP: Ошибка валидации", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.tasks.CreateTask(r.Context(), title, req.Description, options...)
	if err != nil {
		h.handleStoreError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created, h.today())))
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := parseTaskID(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, ok := decodeTaskRequest(w, r)
	if !ok {
		return
	}

	title, options, err := validateTaskRequest(req)
	if err != nil {
		logger.Warn("HTTP: Ошибка валидации", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.tasks.UpdateTask(r.Context(), id, title, req.Description, options...)
	if err != nil {
		h.handleStoreError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, h.today())))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		h.handleStoreError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена", zap.Int64("task_id", id))
	responseWithJSON(w, http.StatusOK, toPayload("deleted", id))
}

func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	completed, err := h.tasks.ToggleTaskCompletion(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err, "toggle_task")
		return
	}

	logger.Info("HTTP_OUT: Статус задачи переключён",
		zap.Int64("task_id", id),
		zap.Bool("completed", completed))

	responseWithJSON(w, http.StatusOK,
		toPayload("id", id),
		toPayload("completed", completed),
	)
}

func decodeTaskRequest(w http.ResponseWriter, r *http.Request) (dto.TaskRequest, bool) {
	var req dto.TaskRequest

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return req, false
	}

	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return req, false
	}
	return req, true
}
