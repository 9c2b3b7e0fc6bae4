package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() *Message {
	return &Message{Embeds: []Embed{{
		Title:  "Raid night",
		Color:  AccentColor,
		Fields: []Field{{Name: "Lead", Value: "Alice"}},
	}}}
}

func TestWebhook_Send(t *testing.T) {
	var (
		received Message
		raw      map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		json.Unmarshal(body, &raw)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	w := NewWebhook("")
	err := w.Send(context.Background(), server.URL, testMessage())
	require.NoError(t, err)

	assert.Equal(t, *testMessage(), received)
	assert.NotContains(t, raw, "username")

	embed := raw["embeds"].([]any)[0].(map[string]any)
	assert.NotContains(t, embed, "url", "url is omitted when there is no signup sheet")
	assert.EqualValues(t, AccentColor, embed["color"])
}

func TestWebhook_SendUsername(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	msg := testMessage()
	w := NewWebhook("Raid Bot")
	require.NoError(t, w.Send(context.Background(), server.URL, msg))

	assert.Equal(t, "Raid Bot", received.Username)
	assert.Empty(t, msg.Username, "the message given is not modified")
}

func TestWebhook_SendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message": "Invalid Form Body"}`)
	}))
	defer server.Close()

	err := NewWebhook("").Send(context.Background(), server.URL, testMessage())
	assert.EqualError(t, err, `webhook returned 400: {"message": "Invalid Form Body"}`)
}

func TestWebhook_SendNetworkError(t *testing.T) {
	err := NewWebhook("").Send(context.Background(), "http://localhost:99999", testMessage())
	assert.Error(t, err)
}
