package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AlignmentScorer/internal/domain"
)

func TestNotifier_PublishRun(t *testing.T) {
	t.Parallel()

	var gotPath, gotChat, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier("TOKEN", "42")
	n.endpoint = srv.URL
	require.NoError(t, n.PublishRun(context.Background(), domain.RunRecord{}, "*Alignment run*"))

	assert.Equal(t, "/botTOKEN/sendMessage", gotPath)
	assert.Equal(t, "42", gotChat)
	assert.Equal(t, "*Alignment run*", gotText)
}

func TestNotifier_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewNotifier("TOKEN", "42")
	n.endpoint = srv.URL
	err := n.PublishRun(context.Background(), domain.RunRecord{}, "digest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")

	assert.Error(t, n.PublishRun(context.Background(), domain.RunRecord{}, "  "))
	assert.Error(t, NewNotifier("", "42").PublishRun(context.Background(), domain.RunRecord{}, "digest"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", maxMessageRunes+10)
	out := truncate(long, maxMessageRunes)
	assert.Equal(t, maxMessageRunes, utf8.RuneCountInString(out))
	assert.Equal(t, "short", truncate("short", maxMessageRunes))
}
