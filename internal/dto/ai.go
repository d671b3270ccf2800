// internal/dto/ai.go
package dto

// GenerationResponse is what the AI server returns for both the initial
// generation and a refinement round.
type GenerationResponse struct {
	TargetGroups []TargetGroup `json:"target_groups"`
}

type TargetGroup struct {
	TargetGroupIndex     int            `json:"target_group_index"`
	TargetName           string         `json:"target_name"`
	TargetFeatures       string         `json:"target_features"`
	ClassificationReason string         `json:"classification_reason"`
	MessageDrafts        []MessageDraft `json:"message_drafts"`
}

type MessageDraft struct {
	MessageDraftIndex int    `json:"message_draft_index"`
	MessageText       string `json:"message_text"`
	ValidationReport  any    `json:"validation_report"`
}

// TargetPersona is the deduplicated audience summary sent back to the AI
// server with refinement feedback.
type TargetPersona struct {
	TargetGroupIndex int    `json:"target_group_index"`
	TargetName       string `json:"target_name"`
	TargetFeatures   string `json:"target_features"`
}

// RefineAiRequest is the full refine payload: original context, the
// marketer's feedback, and the personas already explored.
type RefineAiRequest struct {
	CampaignContext CampaignRequest `json:"campaign_context"`
	FeedbackText    string          `json:"feedback_text"`
	TargetPersonas  []TargetPersona `json:"target_personas"`
}

// KnowledgeEntry is one case study pushed into the RAG knowledge base.
type KnowledgeEntry struct {
	Title            string `json:"title"`
	Content          string `json:"content"`
	SourceType       string `json:"source_type"`
	SourceCampaignID string `json:"source_campaign_id"`
	SourceDate       string `json:"source_date"`
}
