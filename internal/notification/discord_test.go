package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDiscordSuccessNotification(t *testing.T) {
	var got DiscordMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	t.Setenv("DISCORD_SUCCESS_NOTIFICATION_URL", srv.URL)

	require.NoError(t, SendDiscordSuccessNotification("burn area 123.4 ha"))
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, colorGreen, got.Embeds[0].Color)
	assert.Contains(t, got.Embeds[0].Description, "burn area 123.4 ha")
}

func TestSendDiscordErrorNotificationStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", srv.URL)

	assert.ErrorContains(t, SendDiscordErrorNotification("boom"), "400")
}

func TestNotificationWithoutWebhookIsSkipped(t *testing.T) {
	t.Setenv("DISCORD_ERROR_NOTIFICATION_URL", "")
	assert.NoError(t, SendDiscordErrorNotification("boom"))
}
