// internal/controller/analytics_controller.go
package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/unclebandit/recruitflow-backend/internal/queue"
	"github.com/unclebandit/recruitflow-backend/internal/service"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
	EventService     *service.EventService

	// EventQueue, when set, decouples webhook ingestion from event
	// application. Without it events are applied inline.
	EventQueue queue.Queue
}

func (c *AnalyticsController) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := c.AnalyticsService.GetAnalytics()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

// EmailEventWebhook ingests engagement events pushed by the delivery
// provider. Unknown recipients are dropped inside the service; the provider
// always gets a 200 so it does not re-post events we chose to ignore.
func (c *AnalyticsController) EmailEventWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	var event service.EngagementEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	if c.EventQueue != nil {
		if err := c.EventQueue.Publish(queue.TopicEmailEvents, body); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
		return
	}

	if err := c.EventService.Apply(event); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}
