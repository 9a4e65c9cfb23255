// internal/service/template_service.go
package service

import (
	"strings"

	"github.com/unclebandit/recruitflow-backend/internal/model"
)

func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// BuildPlaceholders collects the substitution values for one recipient.
// Every supported placeholder gets a value so the rendered output never
// carries a literal {placeholder}; missing names fall back to "there".
func BuildPlaceholders(contact *model.Contact, company *model.Company, campaign *model.Campaign) map[string]string {
	fullName := strings.TrimSpace(contact.FirstName + " " + contact.LastName)

	return map[string]string{
		"recruiter_first_name": orDefault(contact.FirstName, "there"),
		"recruiter_name":       orDefault(fullName, "there"),
		"recruiter_title":      orDefault(contact.Title, "Recruiter"),
		"company_name":         orDefault(company.Name, "your company"),
		"position_title":       orDefault(campaign.PositionTitle, "the role"),
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
