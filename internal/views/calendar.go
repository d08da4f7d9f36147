package views

import (
	"taskPlanner/internal/models/task"
	"time"
)

// MaxCellTasks - сколько задач показывается в ячейке дня, остальные уходят в overflow.
const MaxCellTasks = 2

// Cell - ячейка календаря. Day == 0 у пустых ячеек перед первым числом.
type Cell struct {
	Day   int
	Tasks []task.Task
}

func (c Cell) Empty() bool {
	return c.Day == 0
}

func (c Cell) Visible() []task.Task {
	if len(c.Tasks) <= MaxCellTasks {
		return c.Tasks
	}
	return c.Tasks[:MaxCellTasks]
}

func (c Cell) Overflow() int {
	if len(c.Tasks) <= MaxCellTasks {
		return 0
	}
	return len(c.Tasks) - MaxCellTasks
}

type Month struct {
	Year    int
	Month   time.Month
	Leading int // пустых ячеек до 1-го числа, 0 = воскресенье
	Days    int
	Cells   []Cell
}

// Cell returns the cell for a day of the month.
func (m Month) Cell(day int) (Cell, bool) {
	if day < 1 || day > m.Days {
		return Cell{}, false
	}
	return m.Cells[m.Leading+day-1], true
}

// BuildMonth раскладывает задачи по дням месяца по совпадению года, месяца и дня срока.
func BuildMonth(year int, month time.Month, tasks []task.Task) Month {
	first := task.NewDate(year, month, 1)
	start := first.Time()

	m := Month{
		Year:    first.Year,
		Month:   first.Month,
		Leading: int(start.Weekday()),
		Days:    daysIn(first.Year, first.Month),
	}

	m.Cells = make([]Cell, m.Leading, m.Leading+m.Days)
	for day := 1; day <= m.Days; day++ {
		m.Cells = append(m.Cells, Cell{Day: day})
	}

	for _, t := range tasks {
		due, ok := t.Due()
		if !ok || !inMonth(due, m.Year, m.Month, m.Days) {
			continue
		}
		ind := m.Leading + due.Day - 1
		m.Cells[ind].Tasks = append(m.Cells[ind].Tasks, t)
	}
	return m
}

// MonthTasks - задачи со сроком в указанном месяце, в исходном порядке.
func MonthTasks(tasks []task.Task, year int, month time.Month) []task.Task {
	first := task.NewDate(year, month, 1)
	days := daysIn(first.Year, first.Month)
	return Apply(tasks, func(t task.Task) bool {
		due, ok := t.Due()
		return ok && inMonth(due, first.Year, first.Month, days)
	})
}

// дата собрана вручную и может выходить за пределы месяца
func inMonth(due task.Date, year int, month time.Month, days int) bool {
	return due.Year == year && due.Month == month && due.Day >= 1 && due.Day <= days
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ShiftMonth сдвигает месяц на delta с переходом через год.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	d := task.NewDate(year, month+time.Month(delta), 1)
	return d.Year, d.Month
}
