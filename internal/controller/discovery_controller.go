// internal/controller/discovery_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/unclebandit/recruitflow-backend/internal/service"
)

type DiscoveryController struct {
	DiscoveryService *service.DiscoveryService
}

// ResolveCompany locates a company and discovers recruiter contacts for it.
func (c *DiscoveryController) ResolveCompany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompanyName string `json:"company_name"`
		Domain      string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.CompanyName) == "" {
		http.Error(w, "company_name is required", http.StatusBadRequest)
		return
	}

	result, err := c.DiscoveryService.ResolveCompanyAndContacts(r.Context(), body.CompanyName, body.Domain)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ResolveContact finds one person's email via sequential provider fallback.
func (c *DiscoveryController) ResolveContact(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompanyID int    `json:"company_id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.FirstName == "" || body.LastName == "" {
		http.Error(w, "first_name and last_name are required", http.StatusBadRequest)
		return
	}

	result, err := c.DiscoveryService.ResolveContactEmail(r.Context(), body.CompanyID, body.FirstName, body.LastName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
