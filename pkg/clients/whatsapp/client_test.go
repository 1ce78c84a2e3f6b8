package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/foodcost/internal/config"
)

func TestSendTextMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/123/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{AccessToken: "token", PhoneNumberID: "123", BaseURL: srv.URL + "/", APIVersion: "v20.0"})
	resp, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "886900", Body: "hello"})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "wamid.1", resp.Messages[0].ID)
	assert.Equal(t, "886900", got["to"])
}

func TestSendTextMessage_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid recipient","code":131030}}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{AccessToken: "token", PhoneNumberID: "123", BaseURL: srv.URL, APIVersion: "v20.0"})
	_, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "x", Body: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "131030")
	assert.Contains(t, err.Error(), "invalid recipient")
}

func TestSplitBody(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitBody("short", 10))

	chunks := SplitBody("aaaa\nbbbb\ncccc", 9)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, chunks)

	long := strings.Repeat("x", 25)
	chunks = SplitBody(long, 10)
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, chunks)

	// Multi-byte runes are never cut in half.
	chunks = SplitBody(strings.Repeat("豬", 5), 7)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 7)
		assert.True(t, strings.Count(c, "豬")*3 == len(c))
	}
	assert.Equal(t, strings.Repeat("豬", 5), strings.Join(chunks, ""))
}

func TestSplitBody_InvalidUTF8(t *testing.T) {
	body := strings.Repeat("\x80", 20)

	chunks := SplitBody(body, 8)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.NotEmpty(t, c)
		assert.LessOrEqual(t, len(c), 8)
	}
	assert.Equal(t, body, strings.Join(chunks, ""))
}

type recordingClient struct {
	bodies []string
}

func (r *recordingClient) SendTextMessage(_ context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error) {
	r.bodies = append(r.bodies, req.Body)
	return &SendTextMessageResponse{}, nil
}

func TestSendLongText(t *testing.T) {
	rc := &recordingClient{}
	body := strings.Repeat("line of digest\n", 400)

	require.NoError(t, SendLongText(context.Background(), rc, "886900", body))
	assert.Greater(t, len(rc.bodies), 1)
	for _, b := range rc.bodies {
		assert.LessOrEqual(t, len(b), MaxBodyLength)
	}
}
