package session_test

import (
	"context"
	"os"
	"path/filepath"
	"taskPlanner/internal/session"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// TestUserFromToken тестирует извлечение id пользователя из токена
func TestUserFromToken(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		token     string
		wantID    int64
		wantError bool
	}{
		{name: "valid", token: makeToken(t, "42", now.Add(time.Hour)), wantID: 42},
		{name: "expired", token: makeToken(t, "42", now.Add(-time.Minute)), wantError: true},
		{name: "non numeric sub", token: makeToken(t, "alice", now.Add(time.Hour)), wantError: true},
		{name: "garbage", token: "not-a-jwt", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := session.UserFromToken(tt.token, now)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, user.ID)
		})
	}
}

func TestUserFromToken_Expired(t *testing.T) {
	now := time.Now()
	_, err := session.UserFromToken(makeToken(t, "1", now.Add(-time.Second)), now)
	assert.ErrorIs(t, err, session.ErrTokenExpired)
}

// TestFileStore_RoundTrip тестирует сохранение токена между запусками
func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yml")

	store, err := session.NewFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, store.Token())

	require.NoError(t, store.SetToken("abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := session.NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", reopened.Token())

	require.NoError(t, reopened.Clear())
	assert.Empty(t, reopened.Token())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// повторная очистка не ошибка
	assert.NoError(t, reopened.Clear())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unterminated"), 0o600))

	_, err := session.NewFileStore(path)
	assert.Error(t, err)
}

// TestManager_UserChangedEvents тестирует явные события смены пользователя
func TestManager_UserChangedEvents(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(session.NewMemoryStore(""))

	var events []*session.User
	m.OnUserChanged(func(_ context.Context, u *session.User) {
		events = append(events, u)
	})

	user, err := m.Login(ctx, makeToken(t, "5", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.NotEmpty(t, m.Token())

	// тот же пользователь повторно - события нет
	_, err = m.Login(ctx, makeToken(t, "5", time.Now().Add(2*time.Hour)))
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx))
	assert.Empty(t, m.Token())
	assert.Nil(t, m.CurrentUser())

	require.Len(t, events, 2)
	assert.Equal(t, int64(5), events[0].ID)
	assert.Nil(t, events[1])
}

func TestManager_LoginRejectsBadToken(t *testing.T) {
	store := session.NewMemoryStore("")
	m := session.NewManager(store)

	_, err := m.Login(context.Background(), "bad")
	assert.Error(t, err)
	assert.Empty(t, store.Token())
	assert.Nil(t, m.CurrentUser())
}

func TestManager_Restore(t *testing.T) {
	ctx := context.Background()

	valid := session.NewManager(session.NewMemoryStore(makeToken(t, "9", time.Now().Add(time.Hour))))
	user, err := valid.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)
	assert.Equal(t, int64(9), valid.CurrentUser().ID)

	expiredStore := session.NewMemoryStore(makeToken(t, "9", time.Now().Add(-time.Hour)))
	expired := session.NewManager(expiredStore)
	user, err = expired.Restore(ctx)
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Empty(t, expiredStore.Token())

	empty := session.NewManager(session.NewMemoryStore(""))
	user, err = empty.Restore(ctx)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestManager_Redirect(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(session.NewMemoryStore(""))
	_, err := m.Login(ctx, makeToken(t, "3", time.Now().Add(time.Hour)))
	require.NoError(t, err)

	var loggedOut bool
	m.OnUserChanged(func(_ context.Context, u *session.User) {
		loggedOut = u == nil
	})

	m.ClearToken()
	m.Redirect(ctx, session.DefaultSignInPath)

	count, path := m.Redirects()
	assert.Equal(t, 1, count)
	assert.Equal(t, "/auth/sign-in", path)
	assert.True(t, loggedOut)
	assert.Empty(t, m.Token())
}
