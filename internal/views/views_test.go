package views_test

import (
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/views"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func due(y int, m time.Month, d int) *task.Date {
	date := task.NewDate(y, m, d)
	return &date
}

func ids(tasks []task.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func fixture() []task.Task {
	return []task.Task{
		{ID: 1, Title: "Write Report", Description: "quarterly", Priority: task.PriorityLow},
		{ID: 2, Title: "buy milk", Completed: true, Priority: task.PriorityHigh, DueDate: due(2025, 1, 15)},
		{ID: 3, Title: "Call mom", Description: "about the REPORT", DueDate: due(2025, 1, 3)},
		{ID: 4, Title: "Pay rent", Completed: true, Priority: task.PriorityMedium, DueDate: due(2025, 2, 1)},
	}
}

func TestFilter_Criteria(t *testing.T) {
	tests := []struct {
		name string
		c    views.Criteria
		want []int64
	}{
		{name: "all", c: views.Criteria{Status: views.StatusAll, Priority: "all"}, want: []int64{1, 2, 3, 4}},
		{name: "completed", c: views.Criteria{Status: views.StatusCompleted}, want: []int64{2, 4}},
		{name: "active", c: views.Criteria{Status: views.StatusActive}, want: []int64{1, 3}},
		{name: "pending high", c: views.Criteria{Status: views.StatusPending, Priority: "high"}, want: []int64{}},
		{name: "priority exact", c: views.Criteria{Priority: "medium"}, want: []int64{4}},
		{name: "search folds case", c: views.Criteria{Search: "  report "}, want: []int64{1, 3}},
		{name: "search and status", c: views.Criteria{Status: views.StatusActive, Search: "MILK"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(views.Filter(fixture(), tt.c)))
		})
	}
}

func TestServerFilter(t *testing.T) {
	f := views.ServerFilter(views.Criteria{Status: views.StatusAll, Priority: "all", Search: "  "})
	assert.Nil(t, f.Completed)
	assert.Equal(t, task.PriorityUnset, f.Priority)
	assert.Empty(t, f.Search)

	f = views.ServerFilter(views.Criteria{Status: views.StatusActive, Priority: "low", Search: " milk "})
	require.NotNil(t, f.Completed)
	assert.False(t, *f.Completed)
	assert.Equal(t, task.PriorityLow, f.Priority)
	assert.Equal(t, "milk", f.Search)
}

func TestParseStatus(t *testing.T) {
	st, err := views.ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, views.StatusAll, st)

	st, err = views.ParseStatus("Pending")
	require.NoError(t, err)
	assert.Equal(t, views.StatusPending, st)

	_, err = views.ParseStatus("archived")
	assert.Error(t, err)
}

func TestCreatedOn(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	today := task.DateOf(now)
	yesterday := &task.Timestamp{Time: now.AddDate(0, 0, -1)}
	todayStamp := &task.Timestamp{Time: now.Add(-time.Hour)}

	tasks := []task.Task{
		{ID: 1, CreatedAt: yesterday, UpdatedAt: todayStamp},
		{ID: 2, UpdatedAt: todayStamp},
		{ID: 3},
		{ID: 4, CreatedAt: todayStamp},
		{ID: 5, UpdatedAt: yesterday},
	}
	assert.Equal(t, []int64{2, 3, 4}, ids(views.Apply(tasks, views.CreatedOn(today, now))))
}

func TestAnd_SkipsNil(t *testing.T) {
	pred := views.And(nil, views.ByCompleted(true), nil)
	assert.Equal(t, []int64{2, 4}, ids(views.Apply(fixture(), pred)))
	assert.Len(t, views.Apply(fixture(), views.And()), 4)
}

// TestSort_Priority тестирует порядок high > medium(unset) > low
func TestSort_Priority(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Priority: task.PriorityLow},
		{ID: 2},
		{ID: 3, Priority: task.PriorityHigh},
		{ID: 4, Priority: task.PriorityMedium},
	}
	sorted := views.Sort(tasks, views.SortPriority)

	assert.Equal(t, []int64{3, 2, 4, 1}, ids(sorted))
	// исходный срез не тронут
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(tasks))
}

func TestSort_DatedBeforeUndated(t *testing.T) {
	empty := task.Date{}
	tasks := []task.Task{
		{ID: 1},
		{ID: 2, DueDate: due(2025, 5, 2)},
		{ID: 3, DueDate: &empty},
		{ID: 4, DueDate: due(2024, 12, 31)},
		{ID: 5},
	}
	assert.Equal(t, []int64{4, 2, 1, 3, 5}, ids(views.Sort(tasks, views.SortDate)))
}

func TestSort_Title(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Title: "banana"},
		{ID: 2, Title: "Apple"},
		{ID: 3, Title: "cherry"},
		{ID: 4, Title: "apple"},
	}
	sorted := views.Sort(tasks, views.SortTitle)
	assert.Equal(t, int64(3), sorted[3].ID)
	assert.Equal(t, int64(1), sorted[2].ID)
	assert.ElementsMatch(t, []int64{2, 4}, ids(sorted[:2]))
}

func TestParseSortKey(t *testing.T) {
	k, err := views.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, views.SortDate, k)

	_, err = views.ParseSortKey("owner")
	assert.Error(t, err)
}

// TestBuildMonth тестирует сетку месяца, начинающегося в среду
func TestBuildMonth(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, DueDate: due(2025, 1, 15)},
		{ID: 2, DueDate: due(2025, 2, 15)},
		{ID: 3, DueDate: due(2024, 1, 15)},
		{ID: 4, DueDate: due(2025, 1, 15)},
		{ID: 5, DueDate: due(2025, 1, 15)},
		{ID: 6, DueDate: due(2025, 1, 16)},
		{ID: 7},
	}

	m := views.BuildMonth(2025, time.January, tasks)

	assert.Equal(t, 3, m.Leading)
	assert.Equal(t, 31, m.Days)
	require.Len(t, m.Cells, 34)
	for i := 0; i < 3; i++ {
		assert.True(t, m.Cells[i].Empty())
	}
	assert.Equal(t, 1, m.Cells[3].Day)

	cell, ok := m.Cell(15)
	require.True(t, ok)
	assert.Equal(t, []int64{1, 4, 5}, ids(cell.Tasks))
	assert.Equal(t, []int64{1, 4}, ids(cell.Visible()))
	assert.Equal(t, 1, cell.Overflow())

	cell, _ = m.Cell(16)
	assert.Equal(t, []int64{6}, ids(cell.Visible()))
	assert.Equal(t, 0, cell.Overflow())

	_, ok = m.Cell(32)
	assert.False(t, ok)
}

func TestBuildMonth_LeapFebruary(t *testing.T) {
	m := views.BuildMonth(2024, time.February, nil)
	assert.Equal(t, 29, m.Days)
	// 1 февраля 2024 - четверг
	assert.Equal(t, 4, m.Leading)
	assert.LessOrEqual(t, len(m.Cells), 42)
}

// TestBuildMonth_OutOfRangeDay тестирует даты, собранные вручную за пределами месяца
func TestBuildMonth_OutOfRangeDay(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, DueDate: &task.Date{Year: 2025, Month: time.January, Day: 32}},
		{ID: 2, DueDate: &task.Date{Year: 2025, Month: time.January, Day: -1}},
		{ID: 3, DueDate: &task.Date{Year: 2024, Month: time.February, Day: 30}},
		{ID: 4, DueDate: due(2025, time.January, 31)},
	}

	var m views.Month
	require.NotPanics(t, func() {
		m = views.BuildMonth(2025, time.January, tasks)
	})
	cell, ok := m.Cell(31)
	require.True(t, ok)
	assert.Equal(t, []int64{4}, ids(cell.Tasks))
	assert.Equal(t, []int64{4}, ids(views.MonthTasks(tasks, 2025, time.January)))

	require.NotPanics(t, func() {
		m = views.BuildMonth(2024, time.February, tasks)
	})
	assert.Empty(t, views.MonthTasks(tasks, 2024, time.February))
}

func TestMonthTasksAndShift(t *testing.T) {
	assert.Equal(t, []int64{2, 3}, ids(views.MonthTasks(fixture(), 2025, time.January)))

	y, m := views.ShiftMonth(2025, time.January, -1)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.December, m)

	y, m = views.ShiftMonth(2024, time.December, 1)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.January, m)
}

func TestCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0, views.CompletionPercentage(0, 0))
	assert.Equal(t, 25, views.CompletionPercentage(4, 1))
	assert.Equal(t, 67, views.CompletionPercentage(3, 2))
	assert.Equal(t, 100, views.CompletionPercentage(2, 2))
}

func TestComputeStats(t *testing.T) {
	s := views.ComputeStats(fixture())
	assert.Equal(t, views.Stats{Total: 4, Completed: 2, Pending: 2, Percentage: 50}, s)
	assert.Equal(t, views.Stats{}, views.ComputeStats(nil))
}

func TestUpcoming(t *testing.T) {
	var tasks []task.Task
	for d := 10; d >= 1; d-- {
		tasks = append(tasks, task.Task{ID: int64(d), DueDate: due(2025, 1, d)})
	}
	tasks = append(tasks, task.Task{ID: 99})

	got := views.Upcoming(tasks, 5)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(got))
	assert.Len(t, views.Upcoming(tasks, 0), views.DefaultUpcomingLimit)
	assert.Len(t, views.Upcoming(tasks, 100), 10)
}
