package dto

import (
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/views"
	"time"
)

type TaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type LoginRequest struct {
	Token string `json:"token"`
}

type TaskResponse struct {
	task.Task
	IsOverdue bool `json:"is_overdue"`
}

func FromTask(t task.Task, today task.Date) TaskResponse {
	due, ok := t.Due()
	return TaskResponse{
		Task:      t,
		IsOverdue: ok && !t.Completed && due.Before(today),
	}
}

func FromTaskList(tasks []task.Task, today task.Date) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, today)
	}
	return result
}

type MonthRef struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

type CellResponse struct {
	Day      int            `json:"day"`
	Tasks    []TaskResponse `json:"tasks"`
	Overflow int            `json:"overflow"`
}

// CalendarResponse - сетка месяца; в ячейке не больше двух задач, остальное в overflow.
type CalendarResponse struct {
	Year     int            `json:"year"`
	Month    time.Month     `json:"month"`
	Leading  int            `json:"leading"`
	Days     int            `json:"days"`
	Cells    []CellResponse `json:"cells"`
	Upcoming []TaskResponse `json:"upcoming"`
	Prev     MonthRef       `json:"prev"`
	Next     MonthRef       `json:"next"`
}

func FromMonth(m views.Month, upcoming []task.Task, today task.Date) CalendarResponse {
	resp := CalendarResponse{
		Year:     m.Year,
		Month:    m.Month,
		Leading:  m.Leading,
		Days:     m.Days,
		Cells:    make([]CellResponse, len(m.Cells)),
		Upcoming: FromTaskList(upcoming, today),
	}
	for i, c := range m.Cells {
		resp.Cells[i] = CellResponse{
			Day:      c.Day,
			Tasks:    FromTaskList(c.Visible(), today),
			Overflow: c.Overflow(),
		}
	}
	resp.Prev.Year, resp.Prev.Month = views.ShiftMonth(m.Year, m.Month, -1)
	resp.Next.Year, resp.Next.Month = views.ShiftMonth(m.Year, m.Month, 1)
	return resp
}
