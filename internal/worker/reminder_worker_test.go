package worker

import (
	"context"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/notify"
	"taskPlanner/internal/store"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	snap store.Snapshot
}

func (s *staticSource) Snapshot() store.Snapshot {
	return s.snap
}

func dueOn(y int, m time.Month, d int) *task.Date {
	date := task.NewDate(y, m, d)
	return &date
}

func TestReminderWorker_Check(t *testing.T) {
	source := &staticSource{snap: store.Snapshot{HasUser: true, UserID: 7, Tasks: []task.Task{
		{ID: 1, Title: "today", DueDate: dueOn(2025, 3, 10)},
		{ID: 2, Title: "late", DueDate: dueOn(2025, 3, 1)},
		{ID: 3, Title: "future", DueDate: dueOn(2025, 3, 11)},
		{ID: 4, Title: "done", Completed: true, DueDate: dueOn(2025, 3, 1)},
		{ID: 5, Title: "no date"},
	}}}
	toasts := notify.NewQueue(10)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	w := NewReminderWorker(source, toasts, nil)
	w.now = func() time.Time { return now }

	assert.Equal(t, 2, w.Check(context.Background()))
	got := toasts.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, `Task "today" is due today`, got[0].Message)
	assert.Equal(t, `Task "late" is overdue (due 2025-03-01)`, got[1].Message)
	assert.Equal(t, notify.LevelInfo, got[0].Level)

	// повторная проверка в тот же день ничего не шлёт
	assert.Equal(t, 0, w.Check(context.Background()))

	// на следующий день "future" становится "due today", остальные - повторно
	now = now.AddDate(0, 0, 1)
	assert.Equal(t, 3, w.Check(context.Background()))
}

func TestReminderWorker_NoUser(t *testing.T) {
	source := &staticSource{snap: store.Snapshot{Tasks: []task.Task{{ID: 1, DueDate: dueOn(2000, 1, 1)}}}}
	toasts := notify.NewQueue(10)

	w := NewReminderWorker(source, toasts, nil)
	assert.Equal(t, 0, w.Check(context.Background()))
	assert.Equal(t, 0, toasts.Len())
}

func TestReminderWorker_Interval(t *testing.T) {
	assert.Equal(t, DefaultInterval, NewReminderWorker(nil, nil, nil).interval)
	zero := time.Duration(0)
	assert.Equal(t, DefaultInterval, NewReminderWorker(nil, nil, &zero).interval)
	custom := time.Second
	assert.Equal(t, time.Second, NewReminderWorker(nil, nil, &custom).interval)
}

func TestReminderWorker_StartStops(t *testing.T) {
	source := &staticSource{}
	interval := time.Millisecond
	w := NewReminderWorker(source, notify.NewQueue(1), &interval)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
