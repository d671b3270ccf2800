// internal/model/campaign.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Campaign status values. Persisted as-is, exact spelling matters for the
// dashboard buckets and the frontend filters.
const (
	StatusProcessing            = "PROCESSING"
	StatusCompleted             = "COMPLETED"
	StatusFailed                = "FAILED"
	StatusMessageSelected       = "MESSAGE_SELECTED"
	StatusRefining              = "REFINING"
	StatusPerformanceRegistered = "PERFORMANCE_REGISTERED"
	StatusSuccessCase           = "SUCCESS_CASE"
	StatusRagRegistered         = "RAG_REGISTERED"
)

// PerformanceStatus is the business outcome of a campaign, independent of
// the lifecycle status.
type PerformanceStatus string

const (
	PerformanceUndecided PerformanceStatus = "UNDECIDED"
	PerformanceSuccess   PerformanceStatus = "SUCCESS"
	PerformanceFailure   PerformanceStatus = "FAILURE"
)

type Campaign struct {
	CampaignID              uuid.UUID         `db:"campaign_id" json:"campaign_id"`
	MarketerID              string            `db:"marketer_id" json:"marketer_id"`
	Purpose                 string            `db:"purpose" json:"purpose"`
	CoreBenefitText         string            `db:"core_benefit_text" json:"core_benefit_text"`
	SourceURL               string            `db:"source_url" json:"source_url"`         // JSON list of strings
	CustomColumns           string            `db:"custom_columns" json:"custom_columns"` // JSON object
	Status                  string            `db:"status" json:"status"`
	PerformanceStatus       PerformanceStatus `db:"performance_status" json:"performance_status"`
	ActualCtr               string            `db:"actual_ctr" json:"actual_ctr"`
	ConversionRate          string            `db:"conversion_rate" json:"conversion_rate"`
	PerformanceNotes        string            `db:"performance_notes" json:"performance_notes"`
	IsPerformanceRegistered bool              `db:"is_performance_registered" json:"is_performance_registered"`
	IsRagRegistered         bool              `db:"is_rag_registered" json:"is_rag_registered"`
	RequestDate             time.Time         `db:"request_date" json:"request_date"`
}
