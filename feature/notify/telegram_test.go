package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegram_Notify(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bot123:ABC/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	tg := NewTelegram(TelegramConfig{BotToken: "123:ABC", ChatID: "-100", BaseURL: srv.URL}, nil, nil)
	require.NoError(t, tg.Notify(context.Background(), "✅ Updated master.m3u (3 channels)"))

	assert.Equal(t, "-100", got.ChatID)
	assert.Equal(t, "✅ Updated master.m3u (3 channels)", got.Text)
	assert.True(t, got.DisableWebPagePreview)
}

func TestTelegram_NotifyErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
		}))
		defer srv.Close()

		err := NewTelegram(TelegramConfig{BotToken: "t", ChatID: "c", BaseURL: srv.URL}, nil, nil).
			Notify(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrTelegram)
		assert.ErrorContains(t, err, "chat not found")
	})

	t.Run("transport error hides token", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := NewTelegram(TelegramConfig{BotToken: "secret-token", ChatID: "c", BaseURL: url}, nil, nil).
			Notify(context.Background(), "hi")
		require.ErrorIs(t, err, ErrTelegram)
		assert.NotContains(t, err.Error(), "secret-token")
	})
}

func TestTelegram_TruncatesLongText(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	long := strings.Repeat("é", 3000)
	require.NoError(t, NewTelegram(TelegramConfig{BotToken: "t", ChatID: "c", BaseURL: srv.URL}, nil, nil).
		Notify(context.Background(), long))

	assert.LessOrEqual(t, len(got.Text), MaxMessageBytes)
	assert.True(t, utf8.ValidString(got.Text))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "abc", 10, "abc"},
		{"exact", "abcd", 4, "abcd"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"rune boundary", "aé", 2, "a"},
		{"emoji", "🛡️ok", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}

func TestNew(t *testing.T) {
	assert.IsType(t, Nop{}, New(TelegramConfig{}, nil))
	assert.IsType(t, Nop{}, New(TelegramConfig{BotToken: "t"}, nil))
	assert.IsType(t, &Telegram{}, New(TelegramConfig{BotToken: "t", ChatID: "c"}, nil))
	assert.NoError(t, Nop{}.Notify(context.Background(), "x"))
}
