package staffalert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VoiceReceptionist/pkg/logger"
)

func TestClient_Notify(t *testing.T) {
	var received Alert
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, logger.NewNop())
	err := client.Notify(context.Background(), Alert{
		CallID:      "call-1",
		CallerPhone: "+15550100101",
		Reason:      "billing question",
		Clinic:      "SmileCare Orthodontics",
		Timestamp:   time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "call-1", received.CallID)
	assert.Equal(t, "billing question", received.Reason)
}

func TestClient_NotifyErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second, logger.NewNop()).Notify(context.Background(), Alert{Reason: "x"})
	assert.ErrorIs(t, err, ErrInvalidResponse)

	err = NewClient("http://127.0.0.1:1", 200*time.Millisecond, logger.NewNop()).Notify(context.Background(), Alert{Reason: "x"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestClient_Disabled(t *testing.T) {
	client := NewClient("", time.Second, logger.NewNop())
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Notify(context.Background(), Alert{Reason: "x"}))
}
