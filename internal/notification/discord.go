package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
)

const (
	colorRed   = 16711680
	colorGreen = 65280
)

type DiscordMessage struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

// SendDiscordErrorNotification reports a failed analysis or download.
// Nothing is sent when no webhook is configured.
func SendDiscordErrorNotification(errorMessage string) error {
	return send(properties.DiscordErrorNotificationUrl(), DiscordEmbed{
		Title:       "🚨 Error Notification",
		Description: fmt.Sprintf("Burn recovery CLI\n\nAn error occurred: %s", errorMessage),
		Color:       colorRed,
	})
}

func SendDiscordSuccessNotification(successMessage string) error {
	return send(properties.DiscordSuccessNotificationUrl(), DiscordEmbed{
		Title:       "✅ Success Notification",
		Description: fmt.Sprintf("Burn recovery CLI\n\n%s", successMessage),
		Color:       colorGreen,
	})
}

func send(url string, embed DiscordEmbed) error {
	if url == "" {
		return nil
	}
	payload, err := json.Marshal(DiscordMessage{Embeds: []DiscordEmbed{embed}})
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send Discord notification, status code: %d", resp.StatusCode)
	}
	return nil
}
