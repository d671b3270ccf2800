// internal/dto/chat.go
package dto

// CampaignChatRequest is one turn of the interactive campaign-building
// dialogue. ConversationID is empty for a brand-new conversation.
type CampaignChatRequest struct {
	ConversationID string `json:"conversation_id"`
	UserMessage    string `json:"user_message"`
}

type ConversationEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CurrentCampaignData is the campaign the AI has assembled so far. The
// campaignTitle key spelling follows the AI server contract.
type CurrentCampaignData struct {
	CampaignTitle   string         `json:"campaignTitle"`
	CoreBenefitText string         `json:"coreBenefitText"`
	CustomColumns   map[string]any `json:"customColumns"`
	SourceURLs      []string       `json:"sourceUrls"`
}

type CampaignChatResponse struct {
	AiResponse          string               `json:"ai_response"`
	ConversationHistory []ConversationEntry  `json:"conversation_history"`
	ConversationID      string               `json:"conversation_id"`
	CurrentCampaignData *CurrentCampaignData `json:"current_campaign_data"`
	IsFinished          bool                 `json:"is_finished"`
}

// MonthlyStatusCount is one dashboard bucket: campaigns requested in the
// given month, split into ongoing and completed.
type MonthlyStatusCount struct {
	Month          string `json:"month"` // YYYY-MM
	OngoingCount   int64  `json:"ongoing_count"`
	CompletedCount int64  `json:"completed_count"`
}
