package task

import "fmt"

// Task - запись задачи в том виде, в котором её отдаёт сервер.
// Обязательные поля: ID, Title, Completed, OwnerID; остальные могут отсутствовать.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	OwnerID     int64      `json:"owner_id"`
	Priority    Priority   `json:"priority,omitempty"`
	DueDate     *Date      `json:"due_date,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   *Timestamp `json:"created_at,omitempty"`
	UpdatedAt   *Timestamp `json:"updated_at,omitempty"`
}

// Due returns the due day, if the task has one.
func (t Task) Due() (Date, bool) {
	if t.DueDate == nil || t.DueDate.IsZero() {
		return Date{}, false
	}
	return *t.DueDate, true
}

// Clone returns a copy that shares no mutable state with t.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.CreatedAt != nil {
		ts := *t.CreatedAt
		c.CreatedAt = &ts
	}
	if t.UpdatedAt != nil {
		ts := *t.UpdatedAt
		c.UpdatedAt = &ts
	}
	return c
}

type Priority string

const PriorityUnset Priority = ""
const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityUnset, PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return PriorityUnset, fmt.Errorf("unknown priority %q", s)
	}
}

// Filter - набор фильтров, которые вычисляет сервер.
// nil / пустое значение означает, что фильтр не задан.
type Filter struct {
	Completed *bool
	Priority  Priority
	Search    string
}
