package telegram

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/botkit/internal/activity"
	"github.com/edgard/botkit/internal/bot/handlers"
	"github.com/edgard/botkit/internal/database"
)

type recordingAPI struct {
	mu           sync.Mutex
	descriptions []string
	failSet      bool
}

func (a *recordingAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = io.WriteString(w, `{"ok":true,"result":{"id":77,"is_bot":true,"first_name":"kit","username":"kit_bot"}}`)
	case strings.HasSuffix(r.URL.Path, "/setMyShortDescription"):
		if a.failSet {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: too long"}`)
			return
		}
		a.mu.Lock()
		a.descriptions = append(a.descriptions, r.FormValue("short_description"))
		a.mu.Unlock()
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	default:
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
	}
}

func newTestBot(t *testing.T, api *recordingAPI) *bot.Bot {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := NewTelegramBot("123456789:test-token", slog.New(slog.NewTextHandler(io.Discard, nil)),
		bot.WithSkipGetMe(), bot.WithServerURL(srv.URL))
	require.NoError(t, err)
	return b
}

func TestNewTelegramBotRequiresToken(t *testing.T) {
	t.Parallel()
	_, err := NewTelegramBot("", nil)
	require.Error(t, err)
}

func TestPresenceSetsShortDescription(t *testing.T) {
	t.Parallel()
	api := &recordingAPI{}
	sink := NewPresence(newTestBot(t, api))

	require.NoError(t, sink.SetPresence(context.Background(), activity.Presence{Kind: database.ActivityWatching, Text: "the logs"}))
	require.NoError(t, sink.SetPresence(context.Background(), activity.Presence{Kind: database.ActivityCustom, Text: "/help"}))

	assert.Equal(t, []string{"Watching the logs", "/help"}, api.descriptions)
}

func TestPresenceError(t *testing.T) {
	t.Parallel()
	api := &recordingAPI{failSet: true}
	sink := NewPresence(newTestBot(t, api))

	require.Error(t, sink.SetPresence(context.Background(), activity.Presence{Text: "x"}))
}

func TestPresenceText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind database.ActivityKind
		want string
	}{
		{database.ActivityPlaying, "Playing chess"},
		{database.ActivityStreaming, "Streaming chess"},
		{database.ActivityListeningTo, "Listening to chess"},
		{database.ActivityWatching, "Watching chess"},
		{database.ActivityCompeting, "Competing in chess"},
		{database.ActivityCustom, "chess"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PresenceText(activity.Presence{Kind: tt.kind, Text: "chess"}), tt.kind.String())
	}
}

func TestConnectMarksState(t *testing.T) {
	t.Parallel()
	b := newTestBot(t, &recordingAPI{})
	state := activity.NewState(clockwork.NewFakeClock(), nil, true, true)

	require.NoError(t, Connect(context.Background(), b, state, slog.New(slog.NewTextHandler(io.Discard, nil))))

	_, ok := state.ConnectionUptime()
	assert.True(t, ok)
}

func TestRegisterHandlers(t *testing.T) {
	t.Parallel()
	b := newTestBot(t, &recordingAPI{})

	require.Error(t, RegisterHandlers(nil, nil, nil))
	require.NoError(t, RegisterHandlers(b, nil, nil))
	require.NoError(t, RegisterHandlers(b, nil, map[string]handlers.RegisteredHandler{
		"/noop": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "noop",
			Handler:     func(context.Context, *bot.Bot, *models.Update) {},
			MatchType:   bot.MatchTypeCommandStartOnly,
		},
		"/nil": {Pattern: "nil"},
	}))
}

func TestApplyMiddlewareOrder(t *testing.T) {
	t.Parallel()
	var order []string
	mark := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, u *models.Update) {
				order = append(order, name)
				next(ctx, b, u)
			}
		}
	}

	h := applyMiddleware(func(context.Context, *bot.Bot, *models.Update) {
		order = append(order, "handler")
	}, []bot.Middleware{mark("outer"), mark("inner")})
	h(context.Background(), nil, &models.Update{})

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestUpdateLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	called := false
	UpdateLogger(log)(func(context.Context, *bot.Bot, *models.Update) { called = true })(
		context.Background(), nil,
		&models.Update{ID: 9, Message: &models.Message{ID: 3, Chat: models.Chat{ID: -4}, From: &models.User{ID: 5}, Text: "hello"}},
	)

	assert.True(t, called)
	assert.Contains(t, buf.String(), `"update_type":"message"`)
	assert.Contains(t, buf.String(), `"chat_id":-4`)
	assert.Contains(t, buf.String(), "Finished processing update")
}

func TestTruncateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcd...", truncateString("abcdefghij", 7))
	assert.Equal(t, "...", truncateString("abcdefghij", 2))
}
