// internal/controller/dashboard_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/experienceprogram/campaign-backend/internal/service"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

// GetMonthlySummary returns campaign counts per month for the last 6 months
func (c *DashboardController) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.DashboardService.GetMonthlyCampaignSummary(time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (c *DashboardController) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.DashboardService.GetRecentActivity()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaigns)
}
