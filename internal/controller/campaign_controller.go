// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/experienceprogram/campaign-backend/internal/dto"
	appErrors "github.com/experienceprogram/campaign-backend/internal/errors"
	"github.com/experienceprogram/campaign-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	ChatService     *service.ChatService
}

// writeServiceError maps the typed application errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var campaignNotFound *appErrors.ErrCampaignNotFound
	var sessionNotFound *appErrors.ErrSessionNotFound
	var notOwned *appErrors.ErrResultNotOwned
	var precondition *appErrors.ErrPreconditionFailed

	switch {
	case errors.As(err, &campaignNotFound), errors.As(err, &sessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &notOwned):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &precondition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func campaignIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body dto.CampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page := intQuery(r, "page", 1)
	pageSize := intQuery(r, "page_size", 20)
	requestDate := r.URL.Query().Get("request_date")
	status := r.URL.Query().Get("status")
	purpose := r.URL.Query().Get("purpose")
	marketerID := r.URL.Query().Get("marketer_id")

	campaigns, pagination, err := c.CampaignService.ListCampaigns(page, pageSize, requestDate, status, purpose, marketerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	campaign, err := c.CampaignService.GetCampaignByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaign)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	if err := c.CampaignService.DeleteCampaign(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CampaignController) GetCampaignResults(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	results, err := c.CampaignService.GetCampaignResults(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func (c *CampaignController) SelectMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	var body dto.SelectMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	resultIDs := make([]uuid.UUID, 0, len(body.ResultIDs))
	for _, raw := range body.ResultIDs {
		resultID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid result id: "+raw, http.StatusBadRequest)
			return
		}
		resultIDs = append(resultIDs, resultID)
	}

	if err := c.CampaignService.SelectMessage(id, resultIDs); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CampaignController) RefineMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	var body dto.RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := c.CampaignService.RefineMessage(id, body.FeedbackText); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (c *CampaignController) UpdatePerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	var body dto.PerformanceUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := c.CampaignService.UpdatePerformance(id, body); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CampaignController) TriggerRagRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	if err := c.CampaignService.TriggerRagRegistration(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// InteractiveBuild is the synchronous chat turn: the request waits for the
// full AI round trip.
func (c *CampaignController) InteractiveBuild(w http.ResponseWriter, r *http.Request) {
	var body dto.CampaignChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	response, err := c.ChatService.HandleInteractiveBuild(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func intQuery(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
