// internal/dto/campaign.go
package dto

// CampaignRequest is the campaign creation payload. The same shape is sent
// to the AI server as generation context.
type CampaignRequest struct {
	MarketerID      string         `json:"marketer_id"`
	Purpose         string         `json:"purpose"`
	CoreBenefitText string         `json:"core_benefit_text"`
	SourceURLs      []string       `json:"source_urls"`
	CustomColumns   map[string]any `json:"custom_columns"`
}

// PerformanceUpdate carries the measured outcome of a campaign.
type PerformanceUpdate struct {
	ActualCtr         string `json:"actual_ctr"`
	ConversionRate    string `json:"conversion_rate"`
	PerformanceStatus string `json:"performance_status"` // UNDECIDED, SUCCESS, FAILURE
	PerformanceNotes  string `json:"performance_notes"`
}

// RefineRequest is the feedback payload for a refinement round.
type RefineRequest struct {
	FeedbackText string `json:"feedback_text"`
}

// SelectMessageRequest names the message results to mark as selected.
type SelectMessageRequest struct {
	ResultIDs []string `json:"result_ids"`
}
