package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/experienceprogram/campaign-backend/internal/model"
	"github.com/experienceprogram/campaign-backend/internal/repository"
	"github.com/experienceprogram/campaign-backend/internal/service"
)

// Mock campaign repository for pagination
type MockCampaignPaginationRepo struct {
	campaigns []*model.Campaign
}

func (m *MockCampaignPaginationRepo) ListCampaigns(offset, limit int, requestDate, status, purpose, marketerID string) ([]*model.Campaign, int, error) {
	var filtered []*model.Campaign
	for _, c := range m.campaigns {
		if status != "" && c.Status != status {
			continue
		}
		if marketerID != "" && c.MarketerID != marketerID {
			continue
		}
		filtered = append(filtered, c)
	}
	total := len(filtered)

	start := offset
	end := offset + limit
	if start > total {
		return []*model.Campaign{}, total, nil
	}
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

// Stub implementations to satisfy the interface
func (m *MockCampaignPaginationRepo) Create(c *model.Campaign) error  { return nil }
func (m *MockCampaignPaginationRepo) Update(c *model.Campaign) error  { return nil }
func (m *MockCampaignPaginationRepo) Delete(id uuid.UUID) error       { return nil }
func (m *MockCampaignPaginationRepo) GetByID(id uuid.UUID) (*model.Campaign, error) {
	return &model.Campaign{CampaignID: id}, nil
}
func (m *MockCampaignPaginationRepo) UpdateStatus(id uuid.UUID, status string) error { return nil }
func (m *MockCampaignPaginationRepo) CountMonthlyByStatusSince(start time.Time) ([]repository.MonthlyStatusRow, error) {
	return nil, nil
}
func (m *MockCampaignPaginationRepo) FindRecent(limit int) ([]*model.Campaign, error) {
	return nil, nil
}

func TestListCampaignsPagination(t *testing.T) {
	totalCampaigns := 25
	campaigns := []*model.Campaign{}
	for i := 0; i < totalCampaigns; i++ {
		campaigns = append(campaigns, &model.Campaign{
			CampaignID: uuid.New(),
			MarketerID: "marketer-01",
			Status:     model.StatusCompleted,
		})
	}

	repo := &MockCampaignPaginationRepo{campaigns: campaigns}
	svc := &service.CampaignService{CampaignRepo: repo}

	pageSize := 10
	seen := map[uuid.UUID]bool{}
	totalPages := (totalCampaigns + pageSize - 1) / pageSize

	for page := 1; page <= totalPages; page++ {
		data, pagination, err := svc.ListCampaigns(page, pageSize, "", model.StatusCompleted, "", "marketer-01")
		if err != nil {
			t.Fatalf("page %d failed: %v", page, err)
		}

		if pagination["page"] != page {
			t.Errorf("expected page %d, got %d", page, pagination["page"])
		}
		if pagination["total_count"] != totalCampaigns {
			t.Errorf("expected total_count %d, got %d", totalCampaigns, pagination["total_count"])
		}
		if pagination["total_pages"] != totalPages {
			t.Errorf("expected total_pages %d, got %d", totalPages, pagination["total_pages"])
		}

		for _, c := range data {
			if seen[c.CampaignID] {
				t.Errorf("duplicate campaign %s across pages", c.CampaignID)
			}
			seen[c.CampaignID] = true
		}
	}

	if len(seen) != totalCampaigns {
		t.Errorf("expected %d unique campaigns, got %d", totalCampaigns, len(seen))
	}
}

func TestListCampaignsClampsPageSize(t *testing.T) {
	repo := &MockCampaignPaginationRepo{}
	svc := &service.CampaignService{CampaignRepo: repo}

	_, pagination, err := svc.ListCampaigns(0, 500, "", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if pagination["page"] != 1 {
		t.Errorf("page 0 should clamp to 1, got %d", pagination["page"])
	}
	if pagination["page_size"] != 100 {
		t.Errorf("page size should clamp to 100, got %d", pagination["page_size"])
	}
}
