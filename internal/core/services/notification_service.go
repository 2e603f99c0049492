package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// NotificationService posts operational notices to a webhook (Slack-style
// JSON payload). Delivery is best effort; failures are logged and dropped.
type NotificationService struct {
	webhookURL string
	client     *http.Client
}

// NewNotificationService creates a new notification service. An empty
// webhook URL disables delivery.
func NewNotificationService(webhookURL string) *NotificationService {
	return &NotificationService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook is configured.
func (s *NotificationService) Enabled() bool {
	return s.webhookURL != ""
}

// NotifyDailySummary sends the end-of-day summary to the ops webhook.
func (s *NotificationService) NotifyDailySummary(summary *DailySummary) {
	if !s.Enabled() {
		return
	}

	text := fmt.Sprintf(
		"📊 Daily summary %s\nHall entries: %d\nCompleted stays: %d\nFood claims: %d\nStill inside: %d\nRegistered students: %d",
		summary.Date,
		summary.HallEntries,
		summary.CompletedStays,
		summary.FoodClaims,
		summary.CurrentlyIn,
		summary.TotalStudents,
	)
	go s.post(text)
}

// NotifyText sends a plain message to the ops webhook.
func (s *NotificationService) NotifyText(text string) {
	if !s.Enabled() {
		return
	}
	go s.post(text)
}

func (s *NotificationService) post(text string) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		log.Printf("⚠️ Webhook payload error: %v", err)
		return
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("⚠️ Webhook delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("⚠️ Webhook rejected (%d): %s", resp.StatusCode, string(body))
	}
}
