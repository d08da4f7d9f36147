// Package views содержит чистые вычисления над снимком задач:
// фильтры, сортировки, календарная сетка и статистика.
package views

import (
	"fmt"
	"strings"
	"taskPlanner/internal/models/task"
	"time"

	"golang.org/x/text/cases"
)

// PriorityAll - значение фильтра приоритета, пропускающее все задачи.
const PriorityAll = "all"

type Predicate func(t task.Task) bool

func ByCompleted(completed bool) Predicate {
	return func(t task.Task) bool {
		return t.Completed == completed
	}
}

// ByPriority сравнивает приоритет точно; "all" и пустая строка пропускают всё.
func ByPriority(priority string) Predicate {
	if priority == "" || priority == PriorityAll {
		return nil
	}
	want := task.Priority(priority)
	return func(t task.Task) bool {
		return t.Priority == want
	}
}

// BySearch ищет подстроку без учёта регистра в заголовке и описании.
func BySearch(query string) Predicate {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	needle := cases.Fold().String(query)
	return func(t task.Task) bool {
		fold := cases.Fold()
		return strings.Contains(fold.String(t.Title), needle) ||
			strings.Contains(fold.String(t.Description), needle)
	}
}

// CreatedOn выбирает задачи, созданные в указанный день.
// Нет created_at - берётся updated_at, нет и его - now.
func CreatedOn(day task.Date, now time.Time) Predicate {
	return func(t task.Task) bool {
		stamp := now
		switch {
		case t.CreatedAt != nil && !t.CreatedAt.IsZero():
			stamp = t.CreatedAt.In(now.Location())
		case t.UpdatedAt != nil && !t.UpdatedAt.IsZero():
			stamp = t.UpdatedAt.In(now.Location())
		}
		return task.DateOf(stamp) == day
	}
}

// And - конъюнкция; nil-предикаты пропускаются.
func And(preds ...Predicate) Predicate {
	active := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	return func(t task.Task) bool {
		for _, p := range active {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// Apply возвращает новый срез; исходный не меняется.
func Apply(tasks []task.Task, pred Predicate) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if pred == nil || pred(t) {
			out = append(out, t)
		}
	}
	return out
}

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StatusAll, nil
	case StatusAll, StatusActive, StatusCompleted, StatusPending:
		return st, nil
	default:
		return StatusAll, fmt.Errorf("unknown status %q", s)
	}
}

// Criteria - состояние фильтров списка задач.
type Criteria struct {
	Status   Status
	Priority string
	Search   string
}

func (c Criteria) Predicate() Predicate {
	var status Predicate
	switch c.Status {
	case StatusCompleted:
		status = ByCompleted(true)
	case StatusActive, StatusPending:
		status = ByCompleted(false)
	}
	return And(status, ByPriority(c.Priority), BySearch(c.Search))
}

func Filter(tasks []task.Task, c Criteria) []task.Task {
	return Apply(tasks, c.Predicate())
}

// ServerFilter переводит критерии в фильтр запроса; незаданные ключи не попадают в query.
func ServerFilter(c Criteria) task.Filter {
	var f task.Filter
	switch c.Status {
	case StatusCompleted:
		done := true
		f.Completed = &done
	case StatusActive, StatusPending:
		done := false
		f.Completed = &done
	}
	if c.Priority != "" && c.Priority != PriorityAll {
		f.Priority = task.Priority(c.Priority)
	}
	f.Search = strings.TrimSpace(c.Search)
	return f
}
