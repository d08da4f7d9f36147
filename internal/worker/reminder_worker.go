package worker

import (
	"context"
	"fmt"
	"sync"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/notify"
	"taskPlanner/internal/store"
	"time"

	"go.uber.org/zap"
)

const DefaultInterval = 5 * time.Minute

type SnapshotSource interface {
	Snapshot() store.Snapshot
}

// ReminderWorker периодически просматривает снимок хранилища и напоминает
// о незавершённых задачах со сроком сегодня или раньше. Одна задача - одно
// напоминание в день.
type ReminderWorker struct {
	source   SnapshotSource
	notifier notify.Notifier
	interval time.Duration
	now      func() time.Time

	mtx      sync.Mutex
	day      task.Date
	reminded map[int64]struct{}
}

func NewReminderWorker(source SnapshotSource, notifier notify.Notifier, interval *time.Duration) *ReminderWorker {
	intervalToSet := DefaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}
	return &ReminderWorker{
		source:   source,
		notifier: notifier,
		interval: intervalToSet,
		now:      time.Now,
		reminded: make(map[int64]struct{}),
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Debug("Worker: Проверка сроков задач", zap.Time("started_at", w.now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

// Check возвращает число отправленных напоминаний.
func (w *ReminderWorker) Check(ctx context.Context) int {
	start := time.Now()

	snap := w.source.Snapshot()
	if !snap.HasUser {
		return 0
	}

	today := task.DateOf(w.now())

	w.mtx.Lock()
	defer w.mtx.Unlock()

	// новый день - напоминаем заново
	if w.day != today {
		w.day = today
		w.reminded = make(map[int64]struct{})
	}

	sent := 0
	for _, t := range snap.Tasks {
		if ctx.Err() != nil {
			break
		}
		if t.Completed {
			continue
		}
		due, ok := t.Due()
		if !ok || today.Before(due) {
			continue
		}
		if _, done := w.reminded[t.ID]; done {
			continue
		}

		w.notifier.Notify(notify.LevelInfo, reminderText(t, due, today))
		w.reminded[t.ID] = struct{}{}
		sent++
	}

	logger.Info("Worker: Завершение проверки задач",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(snap.Tasks)),
		zap.Int("reminded", sent))
	return sent
}

func reminderText(t task.Task, due, today task.Date) string {
	if due == today {
		return fmt.Sprintf("Task %q is due today", t.Title)
	}
	return fmt.Sprintf("Task %q is overdue (due %s)", t.Title, due)
}
