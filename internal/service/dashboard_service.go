// internal/service/dashboard_service.go
package service

import (
	"time"

	"github.com/experienceprogram/campaign-backend/internal/dto"
	"github.com/experienceprogram/campaign-backend/internal/model"
	"github.com/experienceprogram/campaign-backend/internal/repository"
)

// DashboardService serves the read-only monthly aggregation. Not part of
// the campaign lifecycle.
type DashboardService struct {
	CampaignRepo repository.CampaignRepositoryInterface
}

var ongoingStatuses = map[string]bool{
	model.StatusProcessing:      true,
	model.StatusRefining:        true,
	model.StatusCompleted:       true,
	model.StatusMessageSelected: true,
}

var completedStatuses = map[string]bool{
	model.StatusPerformanceRegistered: true,
	model.StatusSuccessCase:           true,
	model.StatusRagRegistered:         true,
}

// GetMonthlyCampaignSummary returns the last six calendar months (oldest
// first, current month included), each with ongoing and completed counts.
// Months without campaigns still appear, zeroed.
func (s *DashboardService) GetMonthlyCampaignSummary(now time.Time) ([]*dto.MonthlyStatusCount, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	summary := []*dto.MonthlyStatusCount{}
	byMonth := map[string]*dto.MonthlyStatusCount{}
	for i := 0; i < 6; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		entry := &dto.MonthlyStatusCount{Month: month}
		summary = append(summary, entry)
		byMonth[month] = entry
	}

	rows, err := s.CampaignRepo.CountMonthlyByStatusSince(start)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		entry, ok := byMonth[row.Month]
		if !ok {
			continue
		}
		if ongoingStatuses[row.Status] {
			entry.OngoingCount += row.Count
		} else if completedStatuses[row.Status] {
			entry.CompletedCount += row.Count
		}
	}

	return summary, nil
}

// GetRecentActivity returns the five most recently requested campaigns.
func (s *DashboardService) GetRecentActivity() ([]*model.Campaign, error) {
	return s.CampaignRepo.FindRecent(5)
}
