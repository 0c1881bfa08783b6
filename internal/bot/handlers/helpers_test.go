package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/edgard/botkit/internal/activity"
	"github.com/edgard/botkit/internal/config"
	"github.com/edgard/botkit/internal/database"
	"github.com/edgard/botkit/internal/interactive"
	"github.com/edgard/botkit/internal/session"
)

const ownerID = 1000

// fakeAPI records the texts sent through the Telegram Bot API. onSend, when
// set, runs before the send request is answered.
type fakeAPI struct {
	mu     sync.Mutex
	sent   []string
	onSend func(text string)
}

func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if strings.HasSuffix(r.URL.Path, "/sendMessage") {
		text := r.FormValue("text")
		a.mu.Lock()
		a.sent = append(a.sent, text)
		onSend := a.onSend
		a.mu.Unlock()
		if onSend != nil {
			onSend(text)
		}
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`)
		return
	}
	_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
}

func (a *fakeAPI) messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.sent...)
}

func newFakeBot(t *testing.T) (*tgbot.Bot, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := tgbot.New("123:test-token", tgbot.WithSkipGetMe(), tgbot.WithServerURL(srv.URL))
	require.NoError(t, err)
	return b, api
}

func newTestDeps(t *testing.T) HandlerDeps {
	t.Helper()
	db, err := database.NewDB(config.DatabaseConfig{Provider: config.ProviderSqliteMemory})
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	statuses := database.NewBotStatusRepository(db, log, 64)
	guard := session.NewGuard()

	return HandlerDeps{
		Logger:          log,
		Config:          &config.Config{Telegram: config.TelegramConfig{OwnerID: ownerID}},
		State:           activity.NewState(clockwork.NewFakeClock(), statuses, true, true),
		Guard:           guard,
		Prompter:        interactive.NewPrompter(guard, nil, 5*time.Second, log),
		PrivilegedUsers: database.NewPrivilegedUserRepository(db, log),
		IgnoredUsers:    database.NewIgnoredUserRepository(db, log),
		BotStatuses:     statuses,
	}
}

func message(chatID, userID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: chatID},
		From: &models.User{ID: userID},
		Text: text,
	}}
}

// passes reports whether mw calls the next handler for update.
func passes(mw tgbot.Middleware, update *models.Update) bool {
	called := false
	mw(func(context.Context, *tgbot.Bot, *models.Update) { called = true })(context.Background(), nil, update)
	return called
}
