// internal/service/campaign_service.go
package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/experienceprogram/campaign-backend/internal/ai"
	"github.com/experienceprogram/campaign-backend/internal/dto"
	appErrors "github.com/experienceprogram/campaign-backend/internal/errors"
	"github.com/experienceprogram/campaign-backend/internal/model"
	"github.com/experienceprogram/campaign-backend/internal/queue"
	"github.com/experienceprogram/campaign-backend/internal/repository"
	"github.com/experienceprogram/campaign-backend/internal/serialize"
)

// CampaignService owns the campaign lifecycle: the status state machine,
// draft selection, performance registration and knowledge publication.
// Generation, refinement and publication run as queued continuations; the
// submitting request never waits for the AI server.
type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	ResultRepo   repository.MessageResultRepositoryInterface
	AiClient     ai.Client
	Queue        queue.Queue
}

// CreateCampaign persists the campaign in PROCESSING and submits the
// generate job. Callers poll by id to observe COMPLETED or FAILED later.
func (s *CampaignService) CreateCampaign(req dto.CampaignRequest) (*model.Campaign, error) {
	sourceURLs, err := serialize.StringList(req.SourceURLs)
	if err != nil {
		return nil, err
	}
	customColumns, err := serialize.Map(req.CustomColumns)
	if err != nil {
		return nil, err
	}

	campaign := &model.Campaign{
		MarketerID:        req.MarketerID,
		Purpose:           req.Purpose,
		CoreBenefitText:   req.CoreBenefitText,
		SourceURL:         sourceURLs,
		CustomColumns:     customColumns,
		Status:            model.StatusProcessing,
		PerformanceStatus: model.PerformanceUndecided,
	}
	if err := s.CampaignRepo.Create(campaign); err != nil {
		return nil, err
	}

	job := queue.AiJob{Type: queue.JobGenerate, CampaignID: campaign.CampaignID, Request: &req}
	if err := s.Queue.Publish(queue.TopicAiJobs, job); err != nil {
		log.Println("⚠️ failed to queue generate job:", err)
		if err := s.UpdateCampaignStatus(campaign.CampaignID, model.StatusFailed); err != nil {
			log.Println("⚠️ failed to mark campaign FAILED:", err)
		}
	}

	return campaign, nil
}

// ProcessAiJob runs one queued continuation. AI failures are absorbed here
// as FAILED transitions (generate/refine) or a logged no-op (publish); they
// never reach the request that submitted the job.
func (s *CampaignService) ProcessAiJob(job queue.AiJob) error {
	switch job.Type {
	case queue.JobGenerate:
		return s.processGenerate(job)
	case queue.JobRefine:
		return s.processRefine(job)
	case queue.JobPublishKnowledge:
		return s.processPublish(job)
	default:
		return fmt.Errorf("unknown AI job type: %s", job.Type)
	}
}

func (s *CampaignService) processGenerate(job queue.AiJob) error {
	if job.Request == nil {
		return fmt.Errorf("generate job for campaign %s has no request", job.CampaignID)
	}

	aiResponse, err := s.AiClient.Generate(*job.Request)
	if err != nil {
		log.Println("⚠️ generate call failed for campaign", job.CampaignID, ":", err)
		return s.UpdateCampaignStatus(job.CampaignID, model.StatusFailed)
	}

	if err := s.SaveAiResponse(job.CampaignID, aiResponse); err != nil {
		return err
	}
	return s.UpdateCampaignStatus(job.CampaignID, model.StatusCompleted)
}

func (s *CampaignService) processRefine(job queue.AiJob) error {
	if job.Refine == nil {
		return fmt.Errorf("refine job for campaign %s has no request", job.CampaignID)
	}

	aiResponse, err := s.AiClient.Refine(job.CampaignID, *job.Refine)
	if err != nil {
		log.Println("⚠️ refine call failed for campaign", job.CampaignID, ":", err)
		return s.UpdateCampaignStatus(job.CampaignID, model.StatusFailed)
	}

	results, err := buildMessageResults(job.CampaignID, aiResponse)
	if err != nil {
		return err
	}
	if err := s.ResultRepo.ReplaceForCampaign(job.CampaignID, results); err != nil {
		return err
	}
	return s.UpdateCampaignStatus(job.CampaignID, model.StatusCompleted)
}

func (s *CampaignService) processPublish(job queue.AiJob) error {
	if job.Knowledge == nil {
		return fmt.Errorf("publish job for campaign %s has no entry", job.CampaignID)
	}

	if err := s.AiClient.PublishKnowledge(*job.Knowledge); err != nil {
		log.Println("⚠️ knowledge publish failed for campaign", job.CampaignID, ":", err)
		return nil // no state change, no retry
	}

	campaign, err := s.CampaignRepo.GetByID(job.CampaignID)
	if err != nil {
		return err
	}
	campaign.IsRagRegistered = true
	campaign.Status = model.StatusRagRegistered
	return s.CampaignRepo.Update(campaign)
}

// SaveAiResponse persists every draft of every target group as an
// unselected MessageResult, in one bulk write.
func (s *CampaignService) SaveAiResponse(campaignID uuid.UUID, aiResponse *dto.GenerationResponse) error {
	results, err := buildMessageResults(campaignID, aiResponse)
	if err != nil {
		return err
	}
	return s.ResultRepo.CreateBulk(results)
}

func buildMessageResults(campaignID uuid.UUID, aiResponse *dto.GenerationResponse) ([]*model.MessageResult, error) {
	results := []*model.MessageResult{}
	for _, group := range aiResponse.TargetGroups {
		for _, draft := range group.MessageDrafts {
			report, err := serialize.Value(draft.ValidationReport)
			if err != nil {
				return nil, err
			}
			results = append(results, &model.MessageResult{
				CampaignID:           campaignID,
				TargetGroupIndex:     group.TargetGroupIndex,
				TargetName:           group.TargetName,
				TargetFeatures:       group.TargetFeatures,
				ClassificationReason: group.ClassificationReason,
				MessageDraftIndex:    draft.MessageDraftIndex,
				MessageText:          draft.MessageText,
				ValidatorReport:      report,
				IsSelected:           false,
			})
		}
	}
	return results, nil
}

// SelectMessage marks exactly the requested results as selected. Any result
// owned by another campaign aborts the whole operation before persisting.
func (s *CampaignService) SelectMessage(campaignID uuid.UUID, resultIDs []uuid.UUID) error {
	if _, err := s.CampaignRepo.GetByID(campaignID); err != nil {
		return err
	}

	selected, err := s.ResultRepo.GetByIDs(resultIDs)
	if err != nil {
		return err
	}
	for _, result := range selected {
		if result.CampaignID != campaignID {
			return appErrors.NewResultNotOwned(result.ResultID, campaignID)
		}
	}

	selectedIDs := make([]uuid.UUID, len(selected))
	for i, result := range selected {
		selectedIDs[i] = result.ResultID
	}
	if err := s.ResultRepo.UpdateSelection(campaignID, selectedIDs); err != nil {
		return err
	}

	return s.UpdateCampaignStatus(campaignID, model.StatusMessageSelected)
}

// RefineMessage flips the campaign to REFINING (visible to pollers right
// away) and submits the refine job carrying the original request context,
// the feedback, and the deduplicated personas already explored.
func (s *CampaignService) RefineMessage(campaignID uuid.UUID, feedback string) error {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}
	if err := s.UpdateCampaignStatus(campaignID, model.StatusRefining); err != nil {
		return err
	}

	sourceURLs, err := serialize.ParseStringList(campaign.SourceURL)
	if err != nil {
		return err
	}
	customColumns, err := serialize.ParseMap(campaign.CustomColumns)
	if err != nil {
		return err
	}

	previousResults, err := s.ResultRepo.ListByCampaign(campaignID)
	if err != nil {
		return err
	}

	job := queue.AiJob{
		Type:       queue.JobRefine,
		CampaignID: campaignID,
		Refine: &dto.RefineAiRequest{
			CampaignContext: dto.CampaignRequest{
				MarketerID:      campaign.MarketerID,
				Purpose:         campaign.Purpose,
				CoreBenefitText: campaign.CoreBenefitText,
				SourceURLs:      sourceURLs,
				CustomColumns:   customColumns,
			},
			FeedbackText:   feedback,
			TargetPersonas: dedupePersonas(previousResults),
		},
	}
	if err := s.Queue.Publish(queue.TopicAiJobs, job); err != nil {
		log.Println("⚠️ failed to queue refine job:", err)
		return s.UpdateCampaignStatus(campaignID, model.StatusFailed)
	}
	return nil
}

func dedupePersonas(results []*model.MessageResult) []dto.TargetPersona {
	personas := []dto.TargetPersona{}
	seen := map[string]bool{}
	for _, result := range results {
		key := fmt.Sprintf("%d|%s|%s", result.TargetGroupIndex, result.TargetName, result.TargetFeatures)
		if seen[key] {
			continue
		}
		seen[key] = true
		personas = append(personas, dto.TargetPersona{
			TargetGroupIndex: result.TargetGroupIndex,
			TargetName:       result.TargetName,
			TargetFeatures:   result.TargetFeatures,
		})
	}
	return personas
}

// UpdatePerformance records the measured outcome. SUCCESS branches the
// status to SUCCESS_CASE, everything else to PERFORMANCE_REGISTERED.
func (s *CampaignService) UpdatePerformance(campaignID uuid.UUID, update dto.PerformanceUpdate) error {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}

	campaign.ActualCtr = update.ActualCtr
	campaign.ConversionRate = update.ConversionRate
	campaign.PerformanceStatus = model.PerformanceStatus(update.PerformanceStatus)
	campaign.PerformanceNotes = update.PerformanceNotes
	campaign.IsPerformanceRegistered = true

	if campaign.PerformanceStatus == model.PerformanceSuccess {
		campaign.Status = model.StatusSuccessCase
	} else {
		campaign.Status = model.StatusPerformanceRegistered
	}

	return s.CampaignRepo.Update(campaign)
}

// TriggerRagRegistration builds the case-study artifact from the selected
// messages and submits the knowledge publish job. All three preconditions
// are checked before anything is queued.
func (s *CampaignService) TriggerRagRegistration(campaignID uuid.UUID) error {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}

	if !campaign.IsPerformanceRegistered {
		return appErrors.NewPreconditionFailed("campaign performance has not been registered yet")
	}
	if campaign.PerformanceStatus == model.PerformanceUndecided {
		return appErrors.NewPreconditionFailed("campaigns with UNDECIDED performance cannot be published")
	}

	selectedMessages, err := s.ResultRepo.ListSelected(campaignID)
	if err != nil {
		return err
	}
	if len(selectedMessages) == 0 {
		return appErrors.NewPreconditionFailed("no selected message to publish for this campaign")
	}

	sourceType := "failure_case"
	if campaign.PerformanceStatus == model.PerformanceSuccess {
		sourceType = "success_case"
	}
	title := sourceType + ": " + campaign.Purpose

	lines := make([]string, len(selectedMessages))
	for i, msg := range selectedMessages {
		lines[i] = fmt.Sprintf("[Message %d] Target: %s\nContent: %s", i+1, msg.TargetName, msg.MessageText)
	}
	combinedMessages := strings.Join(lines, "\n\n---\n\n")

	performanceSection := fmt.Sprintf("--- Performance ---\nCTR: %s\nConversion rate: %s",
		campaign.ActualCtr, campaign.ConversionRate)
	if campaign.PerformanceNotes != "" {
		performanceSection += "\n\n--- Performance notes ---\n" + campaign.PerformanceNotes
	}

	content := fmt.Sprintf(
		"Campaign purpose: %s\nCore benefit: %s\n\n--- Reference messages ---\n\n%s\n\n%s",
		campaign.Purpose,
		campaign.CoreBenefitText,
		combinedMessages,
		performanceSection,
	)

	job := queue.AiJob{
		Type:       queue.JobPublishKnowledge,
		CampaignID: campaignID,
		Knowledge: &dto.KnowledgeEntry{
			Title:            title,
			Content:          content,
			SourceType:       sourceType,
			SourceCampaignID: campaignID.String(),
			SourceDate:       campaign.RequestDate.Format(time.RFC3339),
		},
	}
	if err := s.Queue.Publish(queue.TopicAiJobs, job); err != nil {
		log.Println("⚠️ failed to queue knowledge publish job:", err)
	}
	return nil
}

// UpdateCampaignStatus is the single narrow status writer.
func (s *CampaignService) UpdateCampaignStatus(campaignID uuid.UUID, status string) error {
	return s.CampaignRepo.UpdateStatus(campaignID, status)
}

func (s *CampaignService) GetCampaignByID(campaignID uuid.UUID) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(campaignID)
}

func (s *CampaignService) GetCampaignResults(campaignID uuid.UUID) ([]*model.MessageResult, error) {
	if _, err := s.CampaignRepo.GetByID(campaignID); err != nil {
		return nil, err
	}
	return s.ResultRepo.ListByCampaign(campaignID)
}

func (s *CampaignService) DeleteCampaign(campaignID uuid.UUID) error {
	return s.CampaignRepo.Delete(campaignID)
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(page, pageSize int, requestDate, status, purpose, marketerID string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize, requestDate, status, purpose, marketerID)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

var _ queue.AiJobProcessor = (*CampaignService)(nil)
