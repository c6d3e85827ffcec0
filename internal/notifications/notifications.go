// Package notifications posts bill alerts to an ntfy topic.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultServer = "https://ntfy.sh"

type Notifier struct {
	client *http.Client
	server string
	topic  string
}

// New returns nil when no topic is configured.
func New(server, topic string) *Notifier {
	if topic == "" {
		log.Warn().Msg("Ntfy topic not configured - bill alerts disabled")
		return nil
	}
	if server == "" {
		server = DefaultServer
	}

	log.Info().
		Str("topic", topic).
		Msg("Ntfy notifications initialized")

	return &Notifier{
		client: &http.Client{Timeout: 10 * time.Second},
		server: strings.TrimRight(server, "/"),
		topic:  topic,
	}
}

// Send publishes one message to the topic.
func (n *Notifier) Send(ctx context.Context, title, message string) error {
	payload := map[string]interface{}{
		"topic":   n.topic,
		"title":   title,
		"message": message,
		"tags":    []string{"zap"},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.server, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy returned non-success status: %d", resp.StatusCode)
	}

	log.Debug().
		Str("title", title).
		Int("status", resp.StatusCode).
		Msg("Notification sent successfully")

	return nil
}
