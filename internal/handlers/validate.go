package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/models/task"

	"github.com/go-chi/chi/v5"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

func parseTaskID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("не удалось получить id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("id должен быть положительным")
	}
	return id, nil
}

// validateTaskRequest проверяет тело create/update и собирает опциональные поля.
func validateTaskRequest(req dto.TaskRequest) (string, []task.FieldOption, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", nil, fmt.Errorf("название не может быть пустым")
	}

	priority, err := task.ParsePriority(strings.ToLower(req.Priority))
	if err != nil {
		return "", nil, err
	}

	options := []task.FieldOption{task.WithPriority(priority)}

	if req.DueDate != "" {
		due, err := task.ParseDate(req.DueDate)
		if err != nil {
			return "", nil, fmt.Errorf("неверный due_date: %w", err)
		}
		options = append(options, task.WithDueDate(due))
	}

	if len(req.Tags) > 0 {
		tags := make([]string, 0, len(req.Tags))
		for _, tag := range req.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		options = append(options, task.WithTags(tags...))
	}

	return title, options, nil
}
