package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/views"
	"time"

	"go.uber.org/zap"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", "taskplanner"),
	)
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.tasks.Snapshot()

	var userID any
	if snap.HasUser {
		userID = snap.UserID
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("user_id", userID),
		toPayload("loading", snap.Loading),
		toPayload("error", snap.Error),
		toPayload("task_count", len(snap.Tasks)),
	)
}

// Dashboard: статистика по всему кэшу, список - с учётом status или date=today.
// status приоритетнее date.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.tasks.Snapshot()
	if !snap.HasUser {
		h.unauthorized(w)
		return
	}

	query := r.URL.Query()
	now := h.now()

	var pred views.Predicate
	switch status := query.Get("status"); status {
	case "completed":
		pred = views.ByCompleted(true)
	case "pending":
		pred = views.ByCompleted(false)
	case "":
	default:
		responseWithError(w, http.StatusBadRequest, "неверное значение status: "+status)
		return
	}

	switch date := query.Get("date"); date {
	case "today":
		if pred == nil {
			pred = views.CreatedOn(h.today(), now)
		}
	case "":
	default:
		responseWithError(w, http.StatusBadRequest, "неверное значение date: "+date)
		return
	}

	filtered := views.Apply(snap.Tasks, pred)

	responseWithJSON(w, http.StatusOK,
		toPayload("stats", views.ComputeStats(snap.Tasks)),
		toPayload("tasks", dto.FromTaskList(filtered, h.today())),
		toPayload("count", len(filtered)),
		toPayload("loading", snap.Loading),
		toPayload("error", snap.Error),
	)
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	snap := h.tasks.Snapshot()
	if !snap.HasUser {
		h.unauthorized(w)
		return
	}

	now := h.now()
	year, month := now.Year(), now.Month()
	query := r.URL.Query()

	if v := query.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			logger.Warn("HTTP: Неверное значение параметра", zap.String("query", "year"), zap.String("value", v))
			responseWithError(w, http.StatusBadRequest, "неверное значение year")
			return
		}
		year = y
	}
	if v := query.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			logger.Warn("HTTP: Неверное значение параметра", zap.String("query", "month"), zap.String("value", v))
			responseWithError(w, http.StatusBadRequest, "неверное значение month")
			return
		}
		month = time.Month(m)
	}

	grid := views.BuildMonth(year, month, snap.Tasks)
	upcoming := views.Upcoming(views.MonthTasks(snap.Tasks, year, month), views.DefaultUpcomingLimit)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto.FromMonth(grid, upcoming, h.today())); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	toasts := h.toasts.Drain()
	responseWithJSON(w, http.StatusOK,
		toPayload("notifications", toasts),
		toPayload("count", len(toasts)),
	)
}

func (h *Handler) unauthorized(w http.ResponseWriter) {
	responseWithJSON(w, http.StatusUnauthorized,
		toPayload("error", "требуется вход"),
		toPayload("redirect", h.signInPath),
	)
}
