// internal/service/analytics_service.go
package service

import (
	"github.com/unclebandit/recruitflow-backend/internal/model"
	"github.com/unclebandit/recruitflow-backend/internal/repository"
)

const recentCampaignLimit = 5

type AnalyticsService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CompanyRepo  repository.CompanyRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
}

type Analytics struct {
	TotalCampaigns  int              `json:"total_campaigns"`
	TotalEmails     int              `json:"total_emails"`
	EmailsSent      int              `json:"emails_sent"`
	EmailsDelivered int              `json:"emails_delivered"`
	EmailsOpened    int              `json:"emails_opened"`
	EmailsClicked   int              `json:"emails_clicked"`
	DeliveryRate    float64          `json:"delivery_rate"`
	TotalCompanies  int              `json:"total_companies"`
	TotalContacts   int              `json:"total_contacts"`
	RecentCampaigns []model.Campaign `json:"recent_campaigns"`
}

// GetAnalytics is a pure read over persisted campaign state. Empty data sets
// produce all-zero metrics, never an error.
func (s *AnalyticsService) GetAnalytics() (*Analytics, error) {
	totalCampaigns, err := s.CampaignRepo.CountAll()
	if err != nil {
		return nil, err
	}

	total, sent, delivered, opened, clicked, err := s.CampaignRepo.SumCounters()
	if err != nil {
		return nil, err
	}

	recent, err := s.CampaignRepo.ListRecent(recentCampaignLimit)
	if err != nil {
		return nil, err
	}

	companies, err := s.CompanyRepo.CountAll()
	if err != nil {
		return nil, err
	}
	contacts, err := s.ContactRepo.CountAll()
	if err != nil {
		return nil, err
	}

	return &Analytics{
		TotalCampaigns:  totalCampaigns,
		TotalEmails:     total,
		EmailsSent:      sent,
		EmailsDelivered: delivered,
		EmailsOpened:    opened,
		EmailsClicked:   clicked,
		DeliveryRate:    DeliveryRate(sent, delivered),
		TotalCompanies:  companies,
		TotalContacts:   contacts,
		RecentCampaigns: recent,
	}, nil
}

// DeliveryRate is delivered/sent as a percentage, 0 when nothing was sent.
func DeliveryRate(sent, delivered int) float64 {
	if sent == 0 {
		return 0
	}
	return float64(delivered) / float64(sent) * 100
}
