package alerts

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tradesentinel/screening-engine/pkg/models"
)

// Alert & Webhook System
//
// Structured alert emission for compliance operations. Alerts are:
//   1. Broadcast via WebSocket to connected dashboards
//   2. Pushed to registered webhook endpoints (Slack, Discord, SIEM)
//   3. Stored in memory for recent alert history
//
// Webhook payloads follow a common JSON format compatible with
// Slack incoming webhooks, Discord webhooks, and PagerDuty Events API.

// Alert is one structured screening alert.
type Alert struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	RiskLevel models.RiskLevel `json:"riskLevel"`
	AlertType string           `json:"alertType"` // screening_verdict / monitoring_escalation
	Title     string           `json:"title"`
	ReportID  string           `json:"reportId"`
	RiskScore int              `json:"riskScore"`
	RedFlags  []string         `json:"redFlags,omitempty"`
}

// WebhookEndpoint is a registered webhook receiver
type WebhookEndpoint struct {
	Name     string            `json:"name"`
	URL      string            `json:"url"`
	Enabled  bool              `json:"enabled"`
	Headers  map[string]string `json:"headers,omitempty"`
	MinLevel models.RiskLevel  `json:"minLevel"` // Only send alerts >= this level
}

// Manager handles alert emission and webhook delivery
type Manager struct {
	mu            sync.RWMutex
	webhooks      []WebhookEndpoint
	recentAlerts  []Alert
	maxHistory    int
	httpClient    *http.Client
	alertCallback func(Alert) // WebSocket broadcast callback
}

// NewManager creates an alert manager. broadcastFn may be nil.
func NewManager(broadcastFn func(Alert)) *Manager {
	return &Manager{
		webhooks:      make([]WebhookEndpoint, 0),
		recentAlerts:  make([]Alert, 0),
		maxHistory:    1000,
		httpClient:    &http.Client{Timeout: 5 * time.Second},
		alertCallback: broadcastFn,
	}
}

// RegisterWebhook adds a webhook endpoint
func (m *Manager) RegisterWebhook(name, url string, minLevel models.RiskLevel, headers map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.webhooks = append(m.webhooks, WebhookEndpoint{
		Name:     name,
		URL:      url,
		Enabled:  true,
		Headers:  headers,
		MinLevel: minLevel,
	})

	log.Printf("[AlertManager] Registered webhook: %s -> %s (min: %s)", name, url, minLevel)
}

// RemoveWebhook removes a webhook by name
func (m *Manager) RemoveWebhook(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, wh := range m.webhooks {
		if wh.Name == name {
			m.webhooks = append(m.webhooks[:i], m.webhooks[i+1:]...)
			return
		}
	}
}

// EmitVerdict creates and emits an alert from a screening verdict. GREEN and
// YELLOW verdicts never alert.
func (m *Manager) EmitVerdict(v *models.Verdict, escalation bool) {
	if v.RiskLevel.Rank() < models.LevelRed.Rank() {
		return
	}
	alertType := "screening_verdict"
	title := "High-risk screening verdict: " + string(v.RiskLevel)
	if escalation {
		alertType = "monitoring_escalation"
		title = "Monitored case escalated to " + string(v.RiskLevel)
	}
	m.emit(Alert{
		RiskLevel: v.RiskLevel,
		AlertType: alertType,
		Title:     title,
		ReportID:  v.ReportID,
		RiskScore: v.RiskScore,
		RedFlags:  v.RedFlags,
	})
}

// emit stores, broadcasts, and fans an alert out to webhooks.
func (m *Manager) emit(alert Alert) {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now().UTC()
	}
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}

	// Store in history
	m.mu.Lock()
	m.recentAlerts = append(m.recentAlerts, alert)
	if len(m.recentAlerts) > m.maxHistory {
		m.recentAlerts = m.recentAlerts[len(m.recentAlerts)-m.maxHistory:]
	}
	webhooks := make([]WebhookEndpoint, len(m.webhooks))
	copy(webhooks, m.webhooks)
	m.mu.Unlock()

	// Broadcast via WebSocket callback
	if m.alertCallback != nil {
		m.alertCallback(alert)
	}

	// Send to webhooks (async, non-blocking)
	for _, wh := range webhooks {
		if !wh.Enabled {
			continue
		}
		if alert.RiskLevel.Rank() < wh.MinLevel.Rank() {
			continue
		}
		go m.sendWebhook(wh, alert)
	}

	log.Printf("[Alert] [%s] %s: %s (report: %s)", alert.RiskLevel, alert.AlertType, alert.Title, alert.ReportID)
}

// GetRecentAlerts returns the most recent alerts, newest first.
func (m *Manager) GetRecentAlerts(limit int) []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.recentAlerts) {
		limit = len(m.recentAlerts)
	}

	start := len(m.recentAlerts) - limit
	result := make([]Alert, limit)
	for i := 0; i < limit; i++ {
		result[i] = m.recentAlerts[start+limit-1-i]
	}
	return result
}

// sendWebhook delivers an alert to a webhook endpoint
func (m *Manager) sendWebhook(wh WebhookEndpoint, alert Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		log.Printf("[Webhook] Failed to marshal alert: %v", err)
		return
	}

	req, err := http.NewRequest("POST", wh.URL, bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("[Webhook] Failed to create request for %s: %v", wh.Name, err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	for key, val := range wh.Headers {
		req.Header.Set(key, val)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Printf("[Webhook] Failed to send to %s: %v", wh.Name, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[Webhook] %s returned status %d", wh.Name, resp.StatusCode)
	}
}
