// Package announce posts big game moments to an external chat webhook.
package announce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/clickempire/click-empire/internal/config"
	"github.com/clickempire/click-empire/internal/coolnumber"
	"github.com/clickempire/click-empire/pkg/logger"
)

// Announcer sends milestone and rare-drop announcements over an incoming
// webhook. Announcements are best effort; a webhook failure is logged and
// never surfaces into game flow.
type Announcer struct {
	webhookURL string
	username   string
	enabled    bool
	httpClient *http.Client
	log        *logger.Logger
}

// New creates an announcer.
func New(cfg *config.AnnouncerConfig, log *logger.Logger) *Announcer {
	return &Announcer{
		webhookURL: cfg.WebhookURL,
		username:   cfg.Username,
		enabled:    cfg.Enabled,
		httpClient: http.DefaultClient,
		log:        log,
	}
}

// Message is the webhook payload.
type Message struct {
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
}

// Send posts a message to the webhook.
func (a *Announcer) Send(msg *Message) error {
	if !a.enabled {
		a.log.Debug().Msg("Announcer is disabled, skipping message")
		return nil
	}

	if msg.Username == "" {
		msg.Username = a.username
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", a.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send announcement: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	a.log.Debug().Msg("Sent announcement")
	return nil
}

// AnnounceMilestone posts a global counter milestone.
func (a *Announcer) AnnounceMilestone(count int64) {
	text := fmt.Sprintf("🌍 **Global milestone!** The counter just passed **%d** clicks. Everyone gets bragging rights.", count)
	if err := a.Send(&Message{Text: text}); err != nil {
		a.log.Warn().Err(err).Int64("count", count).Msg("Failed to announce milestone")
	}
}

// AnnounceCoolNumber posts legendary and mythic cool number hits. Lower
// rarities stay in-game to keep the webhook channel quiet.
func (a *Announcer) AnnounceCoolNumber(username string, number int64, result *coolnumber.Result) {
	if result.Rarity != coolnumber.RarityLegendary && result.Rarity != coolnumber.RarityMythic {
		return
	}

	emoji := "✨"
	if result.Rarity == coolnumber.RarityMythic {
		emoji = "🌟"
	}

	text := fmt.Sprintf("%s **%s** hit **%d** (%s, %s) and earned **%d coins**!",
		emoji, username, number, result.Type, result.Rarity, result.Coins)
	if err := a.Send(&Message{Text: text}); err != nil {
		a.log.Warn().Err(err).Int64("number", number).Msg("Failed to announce cool number")
	}
}
