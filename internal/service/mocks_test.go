package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	appErrors "github.com/unclebandit/recruitflow-backend/internal/errors"
	"github.com/unclebandit/recruitflow-backend/internal/mailer"
	"github.com/unclebandit/recruitflow-backend/internal/model"
)

// --- In-memory repositories ---

type MockCompanyRepo struct {
	mu        sync.Mutex
	nextID    int
	companies map[int]*model.Company
}

func NewMockCompanyRepo() *MockCompanyRepo {
	return &MockCompanyRepo{nextID: 1, companies: map[int]*model.Company{}}
}

func (m *MockCompanyRepo) Add(c model.Company) *model.Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	m.companies[c.ID] = &c
	return &c
}

func (m *MockCompanyRepo) GetByID(id int) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.companies[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (m *MockCompanyRepo) Upsert(c *model.Company) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.companies {
		sameExternal := c.ExternalID != nil && existing.ExternalID != nil && *c.ExternalID == *existing.ExternalID
		sameDomain := c.Domain != nil && existing.Domain != nil && *c.Domain == *existing.Domain
		if sameExternal || sameDomain || existing.Name == c.Name {
			c.ID = existing.ID
			c.CreatedAt = existing.CreatedAt
			m.companies[c.ID] = c
			return false, nil
		}
	}
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	m.companies[c.ID] = c
	return true, nil
}

func (m *MockCompanyRepo) CountAll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.companies), nil
}

type MockContactRepo struct {
	mu       sync.Mutex
	nextID   int
	contacts map[int]*model.Contact
}

func NewMockContactRepo() *MockContactRepo {
	return &MockContactRepo{nextID: 1, contacts: map[int]*model.Contact{}}
}

func (m *MockContactRepo) Add(c model.Contact) *model.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	m.contacts[c.ID] = &c
	return &c
}

func (m *MockContactRepo) GetByID(id int) (*model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.contacts[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (m *MockContactRepo) GetByCompanyAndEmail(companyID int, email string) (*model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contacts {
		if c.CompanyID == companyID && c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockContactRepo) Upsert(c *model.Contact) (bool, error) {
	existing, _ := m.GetByCompanyAndEmail(c.CompanyID, c.Email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing != nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		m.contacts[c.ID] = c
		return true, nil
	}
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	m.contacts[c.ID] = c
	return false, nil
}

func (m *MockContactRepo) ListValidByCompany(companyID int) ([]model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Contact{}
	for id := 1; id < m.nextID; id++ {
		c, ok := m.contacts[id]
		if ok && c.CompanyID == companyID && c.EmailStatus == model.EmailStatusValid {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *MockContactRepo) CountAll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.contacts), nil
}

type MockCampaignRepo struct {
	mu        sync.Mutex
	nextID    int
	campaigns map[int]*model.Campaign
}

func NewMockCampaignRepo() *MockCampaignRepo {
	return &MockCampaignRepo{nextID: 1, campaigns: map[int]*model.Campaign{}}
}

func (m *MockCampaignRepo) Add(c model.Campaign) *model.Campaign {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	m.campaigns[c.ID] = &c
	return &c
}

func (m *MockCampaignRepo) Create(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	c.CreatedAt = time.Now()
	copied := *c
	m.campaigns[c.ID] = &copied
	return nil
}

func (m *MockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, appErrors.NewCampaignNotFound(id)
}

func (m *MockCampaignRepo) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []*model.Campaign{}
	for id := m.nextID - 1; id >= 1; id-- {
		c, ok := m.campaigns[id]
		if !ok || (status != "" && c.Status != status) {
			continue
		}
		copied := *c
		all = append(all, &copied)
	}
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *MockCampaignRepo) ListRecent(limit int) ([]model.Campaign, error) {
	ptrs, _, _ := m.ListCampaigns(0, limit, "")
	out := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		out[i] = *c
	}
	return out, nil
}

func (m *MockCampaignRepo) UpdateStatus(campaignID int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[campaignID]
	if !ok {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	c.Status = status
	return nil
}

func (m *MockCampaignRepo) UpdateCounters(campaignID, total, sent, delivered int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[campaignID]
	if !ok {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	c.TotalEmails = total
	c.EmailsSent = sent
	c.EmailsDelivered = delivered
	return nil
}

func (m *MockCampaignRepo) IncrementEngagement(campaignID int, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[campaignID]
	if !ok {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	switch kind {
	case model.EmailLogStatusOpened:
		c.EmailsOpened++
	case model.EmailLogStatusClicked:
		c.EmailsClicked++
	}
	return nil
}

func (m *MockCampaignRepo) Delete(campaignID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[campaignID]; !ok {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	delete(m.campaigns, campaignID)
	return nil
}

func (m *MockCampaignRepo) CountAll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.campaigns), nil
}

func (m *MockCampaignRepo) SumCounters() (total, sent, delivered, opened, clicked int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.campaigns {
		total += c.TotalEmails
		sent += c.EmailsSent
		delivered += c.EmailsDelivered
		opened += c.EmailsOpened
		clicked += c.EmailsClicked
	}
	return
}

type MockEmailLogRepo struct {
	mu     sync.Mutex
	nextID int
	logs   map[int]*model.EmailLog
}

func NewMockEmailLogRepo() *MockEmailLogRepo {
	return &MockEmailLogRepo{nextID: 1, logs: map[int]*model.EmailLog{}}
}

func (m *MockEmailLogRepo) Create(l *model.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.nextID
	m.nextID++
	if l.Status == "" {
		l.Status = model.EmailLogStatusPending
	}
	l.CreatedAt = time.Now()
	copied := *l
	m.logs[l.ID] = &copied
	return nil
}

func (m *MockEmailLogRepo) GetByID(id int) (*model.EmailLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.logs[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, nil
}

func (m *MockEmailLogRepo) GetByCampaignAndEmail(campaignID int, email string) (*model.EmailLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.logs {
		if l.CampaignID == campaignID && l.Email == email {
			copied := *l
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockEmailLogRepo) MarkSent(id int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[id]
	if !ok {
		return fmt.Errorf("log %d not found", id)
	}
	l.Status = model.EmailLogStatusSent
	l.ErrorMessage = ""
	l.SentAt = &at
	l.DeliveredAt = &at
	return nil
}

func (m *MockEmailLogRepo) MarkFailed(id int, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[id]
	if !ok {
		return fmt.Errorf("log %d not found", id)
	}
	l.Status = model.EmailLogStatusFailed
	l.ErrorMessage = errorMessage
	return nil
}

func (m *MockEmailLogRepo) ApplyEngagement(id int, status string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[id]
	if !ok {
		return fmt.Errorf("log %d not found", id)
	}
	l.Status = status
	switch status {
	case model.EmailLogStatusDelivered:
		if l.DeliveredAt == nil {
			l.DeliveredAt = &at
		}
	case model.EmailLogStatusOpened:
		if l.OpenedAt == nil {
			l.OpenedAt = &at
		}
	case model.EmailLogStatusClicked:
		if l.ClickedAt == nil {
			l.ClickedAt = &at
		}
	}
	return nil
}

func (m *MockEmailLogRepo) StatusCounts(campaignID int) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := map[string]int{"pending": 0, "sent": 0, "failed": 0}
	for _, l := range m.logs {
		if l.CampaignID == campaignID {
			stats[l.Status]++
		}
	}
	return stats, nil
}

func (m *MockEmailLogRepo) ListByCampaign(campaignID int) ([]model.EmailLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.EmailLog{}
	for id := 1; id < m.nextID; id++ {
		l, ok := m.logs[id]
		if ok && l.CampaignID == campaignID {
			out = append(out, *l)
		}
	}
	return out, nil
}

// --- Fake delivery provider ---

// FakeSender fails the first failuresPerEmail[to] attempts for a recipient,
// then succeeds. It records every attempt.
type FakeSender struct {
	mu               sync.Mutex
	failuresPerEmail map[string]int
	attempts         map[string]int
}

func NewFakeSender(failures map[string]int) *FakeSender {
	if failures == nil {
		failures = map[string]int{}
	}
	return &FakeSender{failuresPerEmail: failures, attempts: map[string]int{}}
}

func (f *FakeSender) Send(ctx context.Context, email mailer.Email) (string, error) {
	to := email.To[0]
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[to]++
	if f.attempts[to] <= f.failuresPerEmail[to] {
		return "", fmt.Errorf("smtp 451: temporary failure for %s", to)
	}
	return fmt.Sprintf("msg_%s_%d", to, f.attempts[to]), nil
}

func (f *FakeSender) Attempts(to string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[to]
}
