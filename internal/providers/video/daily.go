package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const dailyAPIBase = "https://api.daily.co/v1"

// Daily provisions rooms through the Daily.co REST API.
type Daily struct {
	apiKey string
	http   *http.Client
	base   string
}

func NewDaily(apiKey string) *Daily {
	return &Daily{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
		base:   dailyAPIBase,
	}
}

// NewDailyWithBase is used by tests to point at a local server.
func NewDailyWithBase(apiKey, base string) *Daily {
	d := NewDaily(apiKey)
	d.base = base
	return d
}

func (d *Daily) do(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("daily %s: status %d: %s", path, resp.StatusCode, string(msg))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (d *Daily) CreateRoom(ctx context.Context) (*Room, error) {
	var out struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	body := map[string]any{
		"properties": map[string]any{
			"enable_transcription_storage": true,
		},
	}
	if err := d.do(ctx, "/rooms", body, &out); err != nil {
		return nil, err
	}
	return &Room{Name: out.Name, URL: out.URL}, nil
}

func (d *Daily) CreateMeetingToken(ctx context.Context, roomName string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]any{
		"properties": map[string]any{
			"room_name": roomName,
			"permissions": map[string]any{
				"canAdmin": []string{"transcription"},
			},
		},
	}
	if err := d.do(ctx, "/meeting-tokens", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
