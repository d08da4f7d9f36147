package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"

	"go.uber.org/zap"
)

// Login передаёт токен модулю сессии; загрузка задач идёт через событие смены пользователя.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var req dto.LoginRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		responseWithError(w, http.StatusBadRequest, "токен не может быть пустым")
		return
	}

	user, err := h.session.Login(r.Context(), token)
	if err != nil {
		logger.Warn("HTTP: Вход отклонён", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	snap := h.tasks.Snapshot()
	responseWithJSON(w, http.StatusOK,
		toPayload("user_id", user.ID),
		toPayload("task_count", len(snap.Tasks)),
		toPayload("error", snap.Error),
	)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		logger.Error("HTTP: Ошибка выхода", err)
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "logged_out"))
}
