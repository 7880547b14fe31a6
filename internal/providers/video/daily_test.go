package video

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyCreateRoom(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rooms", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]string{
			"name": "abc123",
			"url":  "https://x.daily.co/abc123",
		})
	}))
	defer srv.Close()

	d := NewDailyWithBase("key-1", srv.URL)
	room, err := d.CreateRoom(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "abc123", room.Name)
	assert.Equal(t, "https://x.daily.co/abc123", room.URL)
	assert.Equal(t, "Bearer key-1", gotAuth)

	props, ok := gotBody["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, props["enable_transcription_storage"])
}

func TestDailyCreateMeetingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/meeting-tokens", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		props := body["properties"].(map[string]any)
		assert.Equal(t, "room-7", props["room_name"])

		json.NewEncoder(w).Encode(map[string]string{"token": "jwt-token"})
	}))
	defer srv.Close()

	d := NewDailyWithBase("key-1", srv.URL)
	token, err := d.CreateMeetingToken(context.Background(), "room-7")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
}

func TestDailyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	d := NewDailyWithBase("bad-key", srv.URL)
	_, err := d.CreateRoom(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
