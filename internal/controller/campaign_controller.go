// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/recruitflow-backend/internal/errors"
	"github.com/unclebandit/recruitflow-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

// writeJSON encodes a JSON response body
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP statuses. Failures always come
// back as a structured body, never a bare stack trace.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var campaignNotFound *appErrors.ErrCampaignNotFound
	var companyNotFound *appErrors.ErrCompanyNotFound
	var invalidStatus *appErrors.ErrInvalidCampaignStatus
	var noValidContacts *appErrors.ErrNoValidContacts
	switch {
	case errors.As(err, &campaignNotFound), errors.As(err, &companyNotFound):
		status = http.StatusNotFound
	case errors.As(err, &invalidStatus), errors.As(err, &noValidContacts):
		status = http.StatusConflict
	case errors.Is(err, appErrors.ErrNoProvidersConfigured), errors.Is(err, appErrors.ErrMailerNotConfigured):
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func urlParamInt(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	return v, err == nil
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompanyID     int    `json:"company_id"`
		PositionTitle string `json:"position_title"`
		EmailSubject  string `json:"email_subject"`
		EmailTemplate string `json:"email_template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(body.CompanyID, body.PositionTitle, body.EmailSubject, body.EmailTemplate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	campaigns, pagination, err := c.CampaignService.ListCampaigns(page, pageSize, status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) GetCampaignDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	details, err := c.CampaignService.GetCampaignDetailsWithStats(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	if err := c.CampaignService.DeleteCampaign(id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (c *CampaignController) DispatchCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	var body struct {
		FromEmail string `json:"from_email"`
		FromName  string `json:"from_name"`
	}
	// Body is optional; defaults come from configuration.
	_ = json.NewDecoder(r.Body).Decode(&body)

	result, err := c.CampaignService.DispatchCampaign(r.Context(), id, body.FromEmail, body.FromName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (c *CampaignController) PersonalizedPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	var body struct {
		ContactID        int     `json:"contact_id"`
		OverrideTemplate *string `json:"override_template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	subject, rendered, err := c.CampaignService.RenderPreview(id, body.ContactID, body.OverrideTemplate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subject":          subject,
		"rendered_message": rendered,
		"contact_id":       body.ContactID,
	})
}
