// Package notify delivers short-lived user notifications (toasts).
package notify

import (
	"sync"
	"taskPlanner/internal/logger"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Level string

const LevelError Level = "error"
const LevelInfo Level = "info"

type Toast struct {
	ID        uuid.UUID `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Notifier interface {
	Notify(level Level, message string)
}

// Queue - ограниченная очередь тостов; при переполнении вытесняются самые старые.
type Queue struct {
	mtx    sync.Mutex
	toasts []Toast
	limit  int
	now    func() time.Time
}

func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 50
	}
	return &Queue{
		toasts: make([]Toast, 0, limit),
		limit:  limit,
		now:    time.Now,
	}
}

func (q *Queue) Notify(level Level, message string) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if len(q.toasts) == q.limit {
		q.toasts = append(q.toasts[:0], q.toasts[1:]...)
	}
	q.toasts = append(q.toasts, Toast{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		CreatedAt: q.now(),
	})
}

// Drain returns pending toasts oldest first and empties the queue.
func (q *Queue) Drain() []Toast {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	q.toasts = q.toasts[:0]
	return out
}

func (q *Queue) Len() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return len(q.toasts)
}

type Log struct{}

func (Log) Notify(level Level, message string) {
	if level == LevelError {
		logger.Warn("Notify: Ошибка для пользователя", zap.String("message", message))
		return
	}
	logger.Info("Notify: Уведомление", zap.String("message", message))
}

type Fanout []Notifier

func (f Fanout) Notify(level Level, message string) {
	for _, n := range f {
		if n != nil {
			n.Notify(level, message)
		}
	}
}
