package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/recruitflow-backend/internal/controller"
	"github.com/unclebandit/recruitflow-backend/internal/model"
	"github.com/unclebandit/recruitflow-backend/internal/queue"
	"github.com/unclebandit/recruitflow-backend/internal/service"
)

func newAnalyticsRouter(campaigns *stubCampaignRepo) *chi.Mux {
	ctrl := &controller.AnalyticsController{
		AnalyticsService: &service.AnalyticsService{
			CampaignRepo: campaigns,
			CompanyRepo:  &stubCompanyRepo{companies: map[int]*model.Company{}},
			ContactRepo:  &stubContactRepo{},
		},
		EventService: &service.EventService{
			EmailLogRepo: &stubEmailLogRepo{},
			CampaignRepo: campaigns,
		},
	}

	r := chi.NewRouter()
	r.Get("/api/analytics", ctrl.GetAnalytics)
	r.Post("/webhooks/email-events", ctrl.EmailEventWebhook)
	return r
}

func TestGetAnalyticsEndpoint(t *testing.T) {
	router := newAnalyticsRouter(&stubCampaignRepo{campaigns: map[int]*model.Campaign{}})

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var analytics service.Analytics
	if err := json.Unmarshal(rec.Body.Bytes(), &analytics); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if analytics.TotalCampaigns != 0 || analytics.DeliveryRate != 0 {
		t.Errorf("expected zeroed analytics, got %+v", analytics)
	}
}

func TestEmailEventWebhookAcceptsUnknownRecipient(t *testing.T) {
	router := newAnalyticsRouter(&stubCampaignRepo{campaigns: map[int]*model.Campaign{}})

	// The recipient is unknown, but the provider still gets a 200 so it
	// stops re-posting the event.
	body, _ := json.Marshal(map[string]any{
		"campaign_id": 1,
		"email":       "stranger@elsewhere.com",
		"event":       "opened",
	})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/email-events", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEmailEventWebhookRejectsMalformedPayload(t *testing.T) {
	router := newAnalyticsRouter(&stubCampaignRepo{campaigns: map[int]*model.Campaign{}})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/email-events", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

type recordingQueue struct {
	topic   string
	payload []byte
}

func (q *recordingQueue) Publish(topic string, payload []byte) error {
	q.topic = topic
	q.payload = payload
	return nil
}

func (q *recordingQueue) Subscribe(string, func([]byte) error) error { return nil }

func TestEmailEventWebhookPublishesToQueue(t *testing.T) {
	campaigns := &stubCampaignRepo{campaigns: map[int]*model.Campaign{}}
	q := &recordingQueue{}
	ctrl := &controller.AnalyticsController{
		EventService: &service.EventService{
			EmailLogRepo: &stubEmailLogRepo{},
			CampaignRepo: campaigns,
		},
		EventQueue: q,
	}
	r := chi.NewRouter()
	r.Post("/webhooks/email-events", ctrl.EmailEventWebhook)

	body, _ := json.Marshal(map[string]any{
		"campaign_id": 4,
		"email":       "ana@acme.com",
		"event":       "clicked",
	})
	req := httptest.NewRequest(http.MethodPost, "/webhooks/email-events", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if q.topic != queue.TopicEmailEvents {
		t.Errorf("expected publish on %s, got %s", queue.TopicEmailEvents, q.topic)
	}
	var event service.EngagementEvent
	if err := json.Unmarshal(q.payload, &event); err != nil {
		t.Fatalf("decoding published payload: %v", err)
	}
	if event.CampaignID != 4 || event.Email != "ana@acme.com" || event.Event != "clicked" {
		t.Errorf("unexpected event published: %+v", event)
	}
}

func TestEmailEventWebhookValidatesBeforePublishing(t *testing.T) {
	q := &recordingQueue{}
	ctrl := &controller.AnalyticsController{EventQueue: q}
	r := chi.NewRouter()
	r.Post("/webhooks/email-events", ctrl.EmailEventWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/email-events", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if q.payload != nil {
		t.Errorf("malformed payload should not be queued, got %q", q.payload)
	}
}
