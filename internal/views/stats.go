package views

import (
	"math"
	"slices"
	"taskPlanner/internal/models/task"
)

// DefaultUpcomingLimit - длина списка ближайших задач в календаре.
const DefaultUpcomingLimit = 5

type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	Percentage int `json:"completion_percentage"`
}

func ComputeStats(tasks []task.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	s.Percentage = CompletionPercentage(s.Total, s.Completed)
	return s
}

// CompletionPercentage округляет до целого; при total == 0 возвращает 0.
func CompletionPercentage(total, completed int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Upcoming - задачи со сроком по возрастанию срока, не больше limit.
func Upcoming(tasks []task.Task, limit int) []task.Task {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	dated := Apply(tasks, func(t task.Task) bool {
		_, ok := t.Due()
		return ok
	})
	slices.SortStableFunc(dated, compareDue)
	if len(dated) > limit {
		dated = dated[:limit]
	}
	return dated
}
