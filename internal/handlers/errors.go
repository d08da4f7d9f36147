package handlers

import (
	"errors"
	"net/http"
	"taskPlanner/internal/apiclient"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/store"

	"go.uber.org/zap"
)

// handleStoreError переводит ошибку хранилища в ответ; без пользователя -
// 401 с адресом страницы входа.
func (h *Handler) handleStoreError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	status := mapErrorToHTTP(err)

	logger.Warn("HTTP: Ошибка операции",
		zap.String("operation", operation),
		zap.Int("http_status", status),
		zap.String("client_ip", r.RemoteAddr),
		zap.Error(err))

	if status == http.StatusUnauthorized {
		responseWithJSON(w, status,
			toPayload("error", errorMessage(err)),
			toPayload("redirect", h.signInPath),
		)
		return
	}
	responseWithError(w, status, errorMessage(err))
}

func mapErrorToHTTP(err error) int {
	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, store.ErrNoUser), errors.Is(err, apiclient.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apiclient.ErrNetwork):
		return http.StatusServiceUnavailable
	case errors.Is(err, apiclient.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.As(err, &apiErr) && apiErr.Kind == apiclient.KindHTTP && apiErr.Status >= 400:
		return apiErr.Status
	default:
		return http.StatusBadGateway
	}
}

// errorMessage - текст для пользователя без префикса операции
func errorMessage(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}
