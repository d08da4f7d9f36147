package session

import (
	"context"
	"fmt"
	"sync"
	"taskPlanner/internal/logger"
	"time"

	"go.uber.org/zap"
)

const DefaultSignInPath = "/auth/sign-in"

type UserListener func(ctx context.Context, user *User)

// Manager - граница с внешним модулем авторизации: хранит токен,
// знает текущего пользователя и явно сообщает подписчикам о его смене.
type Manager struct {
	tokens TokenStore
	now    func() time.Time

	mtx          sync.Mutex
	user         *User
	listeners    []UserListener
	redirects    int
	lastRedirect string
}

func NewManager(tokens TokenStore) *Manager {
	return &Manager{tokens: tokens, now: time.Now}
}

func (m *Manager) OnUserChanged(fn UserListener) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) CurrentUser() *User {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Restore поднимает сессию из сохранённого токена при старте.
func (m *Manager) Restore(ctx context.Context) (*User, error) {
	token := m.tokens.Token()
	if token == "" {
		return nil, nil
	}
	user, err := UserFromToken(token, m.now())
	if err != nil {
		logger.Warn("Session: Сохранённый токен недействителен", zap.Error(err))
		if clearErr := m.tokens.Clear(); clearErr != nil {
			logger.Error("Session: Не удалось очистить токен", clearErr)
		}
		return nil, err
	}
	m.setUser(ctx, user)
	return user, nil
}

func (m *Manager) Login(ctx context.Context, token string) (*User, error) {
	user, err := UserFromToken(token, m.now())
	if err != nil {
		return nil, err
	}
	if err := m.tokens.SetToken(token); err != nil {
		return nil, fmt.Errorf("сохранение токена: %w", err)
	}
	logger.Info("Session: Пользователь вошёл", zap.Int64("user_id", user.ID))
	m.setUser(ctx, user)
	return user, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	if err := m.tokens.Clear(); err != nil {
		return fmt.Errorf("очистка токена: %w", err)
	}
	logger.Info("Session: Пользователь вышел")
	m.setUser(ctx, nil)
	return nil
}

func (m *Manager) Token() string {
	return m.tokens.Token()
}

func (m *Manager) ClearToken() {
	if err := m.tokens.Clear(); err != nil {
		logger.Error("Session: Не удалось очистить токен", err)
	}
}

// Redirect отправляет пользователя на страницу входа; сессия после этого считается закрытой.
func (m *Manager) Redirect(ctx context.Context, path string) {
	m.mtx.Lock()
	m.redirects++
	m.lastRedirect = path
	m.mtx.Unlock()

	logger.Warn("Session: Перенаправление на страницу входа", zap.String("path", path))
	m.setUser(ctx, nil)
}

// Redirects returns how many redirects were issued and the last target.
func (m *Manager) Redirects() (int, string) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.redirects, m.lastRedirect
}

func (m *Manager) setUser(ctx context.Context, user *User) {
	m.mtx.Lock()
	changed := !sameUser(m.user, user)
	m.user = user
	listeners := append([]UserListener(nil), m.listeners...)
	m.mtx.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		var u *User
		if user != nil {
			cp := *user
			u = &cp
		}
		fn(ctx, u)
	}
}

func sameUser(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
