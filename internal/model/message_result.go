// internal/model/message_result.go
package model

import "github.com/google/uuid"

type MessageResult struct {
	ResultID             uuid.UUID `db:"result_id" json:"result_id"`
	CampaignID           uuid.UUID `db:"campaign_id" json:"campaign_id"`
	TargetGroupIndex     int       `db:"target_group_index" json:"target_group_index"`
	TargetName           string    `db:"target_name" json:"target_name"`
	TargetFeatures       string    `db:"target_features" json:"target_features"`
	ClassificationReason string    `db:"classification_reason" json:"classification_reason"`
	MessageDraftIndex    int       `db:"message_draft_index" json:"message_draft_index"`
	MessageText          string    `db:"message_text" json:"message_text"`
	ValidatorReport      string    `db:"validator_report" json:"validator_report"` // JSON blob
	IsSelected           bool      `db:"is_selected" json:"is_selected"`
}
