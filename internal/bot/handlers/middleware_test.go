package handlers

import (
	"context"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		update   *models.Update
		wantChat int64
		wantUser int64
		wantOK   bool
	}{
		{"nil update", nil, 0, 0, false},
		{"message", message(-100, 7, "hi"), -100, 7, true},
		{"message without sender", &models.Update{Message: &models.Message{Chat: models.Chat{ID: 1}}}, 0, 0, false},
		{
			name: "callback",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{
				From:    models.User{ID: 8},
				Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: 3}}},
			}},
			wantChat: 3, wantUser: 8, wantOK: true,
		},
		{
			name: "callback on inaccessible message",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{
				From:    models.User{ID: 8},
				Message: models.MaybeInaccessibleMessage{InaccessibleMessage: &models.InaccessibleMessage{Chat: models.Chat{ID: 4}}},
			}},
			wantChat: 4, wantUser: 8, wantOK: true,
		},
		{"other update", &models.Update{ID: 5}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			chatID, userID, ok := origin(tt.update)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantChat, chatID)
			assert.Equal(t, tt.wantUser, userID)
		})
	}
}

func TestPrivilegedOnly(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	mw := PrivilegedOnly(deps)

	_, err := deps.PrivilegedUsers.AddIDs(context.Background(), 42)
	require.NoError(t, err)

	assert.True(t, passes(mw, message(1, ownerID, "/listen")))
	assert.True(t, passes(mw, message(1, 42, "/listen")))
	assert.False(t, passes(mw, message(1, 43, "/listen")))
	assert.False(t, passes(mw, &models.Update{}))
}

func TestListeningGate(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	mw := ListeningGate(deps)

	assert.True(t, passes(mw, message(1, 43, "hello")))

	deps.State.SetListening(false)
	assert.False(t, passes(mw, message(1, 43, "hello")))
	assert.True(t, passes(mw, message(1, ownerID, "hello")))
}

func TestNoPendingReply(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	mw := NoPendingReply(deps)

	deps.Guard.Begin(sessionKey(-5, 9))

	assert.False(t, passes(mw, message(-5, 9, "/uptime")))
	assert.True(t, passes(mw, message(-6, 9, "/uptime")), "other chats are unaffected")
	assert.True(t, passes(mw, message(-5, 10, "/uptime")), "other users are unaffected")
}

func TestIgnoredUsersFilter(t *testing.T) {
	t.Parallel()
	deps := newTestDeps(t)
	mw := IgnoredUsersFilter(deps)

	_, err := deps.IgnoredUsers.AddIDs(context.Background(), -5, 9)
	require.NoError(t, err)

	assert.False(t, passes(mw, message(-5, 9, "hello")))
	assert.True(t, passes(mw, message(-6, 9, "hello")))
	assert.True(t, passes(mw, &models.Update{ID: 1}))
}

func TestRegisterAllCommands(t *testing.T) {
	t.Parallel()
	handlers := RegisterAllCommands(newTestDeps(t))

	require.Len(t, handlers, 4)
	assert.Len(t, handlers["/uptime"].Middleware, 2)
	for _, name := range []string{"/listen", "/rotation", "/clear_statuses"} {
		assert.Len(t, handlers[name].Middleware, 3, name)
		assert.NotNil(t, handlers[name].Handler, name)
	}
}
