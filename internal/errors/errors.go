package appErrors

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID uuid.UUID
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id uuid.UUID) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrSessionNotFound signals a missing chat session
type ErrSessionNotFound struct {
	ConversationID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("chat session with ID %s not found", e.ConversationID)
}

func NewSessionNotFound(conversationID string) error {
	return &ErrSessionNotFound{ConversationID: conversationID}
}

// ErrResultNotOwned signals that a selected message result belongs to a
// different campaign than the one targeted.
type ErrResultNotOwned struct {
	ResultID   uuid.UUID
	CampaignID uuid.UUID
}

func (e *ErrResultNotOwned) Error() string {
	return fmt.Sprintf("message result %s does not belong to campaign %s", e.ResultID, e.CampaignID)
}

func NewResultNotOwned(resultID, campaignID uuid.UUID) error {
	return &ErrResultNotOwned{ResultID: resultID, CampaignID: campaignID}
}

// ErrPreconditionFailed rejects an operation invoked before its required
// state was reached (e.g. knowledge publication without performance data).
type ErrPreconditionFailed struct {
	Reason string
}

func (e *ErrPreconditionFailed) Error() string {
	return e.Reason
}

func NewPreconditionFailed(reason string) error {
	return &ErrPreconditionFailed{Reason: reason}
}
