package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/models"
	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"go.uber.org/zap"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorRed    = 16711680 // CRITICAL
	ColorOrange = 16753920 // WARNING
	ColorBlue   = 3447003  // INFO

	Username = "FleetWatch"
)

// Notifier mirrors critical fleet alerts into chat channels. It is always
// invoked off the monitoring tick's goroutine; failures are logged only.
type Notifier struct {
	slackWebhookURL   string
	discordWebhookURL string
	client            *http.Client
	logger            *zap.Logger
}

func NewNotifier(slackURL, discordURL string, logger *zap.Logger) *Notifier {
	return &Notifier{
		slackWebhookURL:   slackURL,
		discordWebhookURL: discordURL,
		client:            &http.Client{Timeout: 10 * time.Second},
		logger:            logger,
	}
}

// NotifyAlert forwards CRITICAL alerts to the configured webhooks. Lower
// severities stay on the dashboard only.
func (n *Notifier) NotifyAlert(alert *models.Alert, device *models.Device) {
	if alert.Type != types.AlertTypeCritical {
		return
	}

	if n.discordWebhookURL != "" {
		if err := n.sendDiscord(alert, device); err != nil {
			n.logger.Error("discord notification failed", zap.Error(err))
		}
	}

	if n.slackWebhookURL != "" {
		if err := n.sendSlack(alert, device); err != nil {
			n.logger.Error("slack notification failed", zap.Error(err))
		}
	}
}

func (n *Notifier) sendDiscord(alert *models.Alert, device *models.Device) error {
	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       alert.Title,
				Description: alert.Message,
				Color:       colorFor(alert.Type),
				Fields: []DiscordWebhookField{
					{Name: "Device", Value: device.SerialNumber, Inline: true},
					{Name: "Location", Value: device.Location, Inline: true},
					{Name: "Status", Value: device.Status, Inline: true},
					{Name: "Category", Value: alert.Category, Inline: true},
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	return n.post(n.discordWebhookURL, body)
}

func (n *Notifier) sendSlack(alert *models.Alert, device *models.Device) error {
	payload := SlackWebhookRequest{
		Username: Username,
		Text:     fmt.Sprintf("*%s*", alert.Title),
		Attachments: []SlackAttachment{
			{
				Color: slackColorFor(alert.Type),
				Title: alert.Title,
				Text:  alert.Message,
				Fields: []SlackField{
					{Title: "Device", Value: device.SerialNumber, Short: true},
					{Title: "Location", Value: device.Location, Short: true},
					{Title: "Status", Value: device.Status, Short: true},
					{Title: "Category", Value: alert.Category, Short: true},
				},
				Timestamp: time.Now().Unix(),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	return n.post(n.slackWebhookURL, body)
}

func (n *Notifier) post(webhookURL string, body []byte) error {
	resp, err := n.client.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func colorFor(alertType string) int {
	switch alertType {
	case types.AlertTypeCritical:
		return ColorRed
	case types.AlertTypeWarning:
		return ColorOrange
	default:
		return ColorBlue
	}
}

func slackColorFor(alertType string) string {
	switch alertType {
	case types.AlertTypeCritical:
		return "danger"
	case types.AlertTypeWarning:
		return "warning"
	default:
		return "good"
	}
}
