// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appErrors "github.com/experienceprogram/campaign-backend/internal/errors"
	"github.com/experienceprogram/campaign-backend/internal/model"
	"github.com/experienceprogram/campaign-backend/internal/service"
)

// CampaignHandler serves the campaign detail view: the campaign row plus its
// message results and a small selection summary.
type CampaignHandler struct {
	Service *service.CampaignService
}

type campaignDetails struct {
	Campaign *model.Campaign        `json:"campaign"`
	Results  []*model.MessageResult `json:"results"`
	Stats    map[string]int         `json:"stats"`
}

func (h *CampaignHandler) GetCampaignWithResults(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	campaign, err := h.Service.GetCampaignByID(id)
	if err != nil {
		var notFound *appErrors.ErrCampaignNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch campaign: "+err.Error(), http.StatusInternalServerError)
		return
	}

	results, err := h.Service.GetCampaignResults(id)
	if err != nil {
		http.Error(w, "failed to fetch results: "+err.Error(), http.StatusInternalServerError)
		return
	}

	stats := map[string]int{
		"total":    len(results),
		"selected": 0,
	}
	targetGroups := map[int]bool{}
	for _, result := range results {
		if result.IsSelected {
			stats["selected"]++
		}
		targetGroups[result.TargetGroupIndex] = true
	}
	stats["target_groups"] = len(targetGroups)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaignDetails{
		Campaign: campaign,
		Results:  results,
		Stats:    stats,
	})
}
