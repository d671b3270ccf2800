package service_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/experienceprogram/campaign-backend/internal/dto"
	appErrors "github.com/experienceprogram/campaign-backend/internal/errors"
	"github.com/experienceprogram/campaign-backend/internal/model"
	"github.com/experienceprogram/campaign-backend/internal/queue"
	"github.com/experienceprogram/campaign-backend/internal/repository"
	"github.com/experienceprogram/campaign-backend/internal/service"
)

// --- Mock repositories ---

type MockCampaignRepo struct {
	mu          sync.Mutex
	campaigns   map[uuid.UUID]*model.Campaign
	MonthlyRows []repository.MonthlyStatusRow
	Recent      []*model.Campaign
}

func NewMockCampaignRepo() *MockCampaignRepo {
	return &MockCampaignRepo{campaigns: map[uuid.UUID]*model.Campaign{}}
}

func (m *MockCampaignRepo) Create(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.CampaignID == uuid.Nil {
		c.CampaignID = uuid.New()
	}
	c.RequestDate = time.Now()
	stored := *c
	m.campaigns[c.CampaignID] = &stored
	return nil
}

func (m *MockCampaignRepo) GetByID(id uuid.UUID) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	clone := *c
	return &clone, nil
}

func (m *MockCampaignRepo) Update(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *c
	m.campaigns[c.CampaignID] = &stored
	return nil
}

func (m *MockCampaignRepo) UpdateStatus(id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	c.Status = status
	return nil
}

func (m *MockCampaignRepo) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return appErrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return nil
}

func (m *MockCampaignRepo) ListCampaigns(offset, limit int, requestDate, status, purpose, marketerID string) ([]*model.Campaign, int, error) {
	return []*model.Campaign{}, 0, nil
}

func (m *MockCampaignRepo) CountMonthlyByStatusSince(start time.Time) ([]repository.MonthlyStatusRow, error) {
	return m.MonthlyRows, nil
}

func (m *MockCampaignRepo) FindRecent(limit int) ([]*model.Campaign, error) {
	if len(m.Recent) > limit {
		return m.Recent[:limit], nil
	}
	return m.Recent, nil
}

type MockResultRepo struct {
	mu      sync.Mutex
	results []*model.MessageResult
}

func (m *MockResultRepo) CreateBulk(results []*model.MessageResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range results {
		if r.ResultID == uuid.Nil {
			r.ResultID = uuid.New()
		}
		stored := *r
		m.results = append(m.results, &stored)
	}
	return nil
}

func (m *MockResultRepo) ListByCampaign(campaignID uuid.UUID) ([]*model.MessageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.MessageResult{}
	for _, r := range m.results {
		if r.CampaignID == campaignID {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MockResultRepo) ListSelected(campaignID uuid.UUID) ([]*model.MessageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.MessageResult{}
	for _, r := range m.results {
		if r.CampaignID == campaignID && r.IsSelected {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MockResultRepo) GetByIDs(ids []uuid.UUID) ([]*model.MessageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := []*model.MessageResult{}
	for _, r := range m.results {
		if wanted[r.ResultID] {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MockResultRepo) UpdateSelection(campaignID uuid.UUID, selected []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	chosen := map[uuid.UUID]bool{}
	for _, id := range selected {
		chosen[id] = true
	}
	for _, r := range m.results {
		if r.CampaignID == campaignID {
			r.IsSelected = chosen[r.ResultID]
		}
	}
	return nil
}

func (m *MockResultRepo) ReplaceForCampaign(campaignID uuid.UUID, results []*model.MessageResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := []*model.MessageResult{}
	for _, r := range m.results {
		if r.CampaignID != campaignID {
			kept = append(kept, r)
		}
	}
	for _, r := range results {
		if r.ResultID == uuid.Nil {
			r.ResultID = uuid.New()
		}
		stored := *r
		kept = append(kept, &stored)
	}
	m.results = kept
	return nil
}

// --- Mock AI client ---

type MockAiClient struct {
	mu         sync.Mutex
	GenResp    *dto.GenerationResponse
	GenErr     error
	RefineResp *dto.GenerationResponse
	RefineErr  error
	PublishErr error
	Published  []dto.KnowledgeEntry
	RefineReqs []dto.RefineAiRequest
}

func (m *MockAiClient) Generate(req dto.CampaignRequest) (*dto.GenerationResponse, error) {
	if m.GenErr != nil {
		return nil, m.GenErr
	}
	return m.GenResp, nil
}

func (m *MockAiClient) Refine(campaignID uuid.UUID, req dto.RefineAiRequest) (*dto.GenerationResponse, error) {
	m.mu.Lock()
	m.RefineReqs = append(m.RefineReqs, req)
	m.mu.Unlock()
	if m.RefineErr != nil {
		return nil, m.RefineErr
	}
	return m.RefineResp, nil
}

func (m *MockAiClient) InteractiveBuild(req dto.CampaignChatRequest) (*dto.CampaignChatResponse, error) {
	return nil, nil
}

func (m *MockAiClient) PublishKnowledge(entry dto.KnowledgeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.Published = append(m.Published, entry)
	return nil
}

func (m *MockAiClient) PublishedEntries() []dto.KnowledgeEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dto.KnowledgeEntry{}, m.Published...)
}

// --- Helpers ---

func newTestService(aiClient *MockAiClient) (*service.CampaignService, *MockCampaignRepo, *MockResultRepo) {
	campaignRepo := NewMockCampaignRepo()
	resultRepo := &MockResultRepo{}
	q := queue.NewInMemoryQueue()
	svc := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ResultRepo:   resultRepo,
		AiClient:     aiClient,
		Queue:        q,
	}
	queue.StartAiJobSubscriber(q, svc)
	return svc, campaignRepo, resultRepo
}

func waitForStatus(t *testing.T, repo *MockCampaignRepo, id uuid.UUID, status string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c, err := repo.GetByID(id)
		if err != nil {
			t.Fatalf("campaign disappeared: %v", err)
		}
		if c.Status == status {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	c, _ := repo.GetByID(id)
	t.Fatalf("campaign never reached status %s, still %s", status, c.Status)
}

func sampleGeneration() *dto.GenerationResponse {
	return &dto.GenerationResponse{
		TargetGroups: []dto.TargetGroup{
			{
				TargetGroupIndex:     0,
				TargetName:           "Young professionals",
				TargetFeatures:       "25-34, urban, mobile-first",
				ClassificationReason: "High affinity with the offer",
				MessageDrafts: []dto.MessageDraft{
					{MessageDraftIndex: 0, MessageText: "Draft A", ValidationReport: map[string]any{"tone": "ok"}},
					{MessageDraftIndex: 1, MessageText: "Draft B", ValidationReport: map[string]any{"tone": "ok"}},
				},
			},
			{
				TargetGroupIndex:     1,
				TargetName:           "Students",
				TargetFeatures:       "18-24, price sensitive",
				ClassificationReason: "Reacts to discounts",
				MessageDrafts: []dto.MessageDraft{
					{MessageDraftIndex: 0, MessageText: "Draft C", ValidationReport: nil},
				},
			},
		},
	}
}

func sampleRequest() dto.CampaignRequest {
	return dto.CampaignRequest{
		MarketerID:      "marketer-01",
		Purpose:         "Spring promotion",
		CoreBenefitText: "20% off",
		SourceURLs:      []string{"https://example.com"},
		CustomColumns:   map[string]any{"segment": "all"},
	}
}

// --- Tests ---

func TestCreateCampaignCompletesAsync(t *testing.T) {
	aiClient := &MockAiClient{GenResp: sampleGeneration()}
	svc, campaignRepo, resultRepo := newTestService(aiClient)

	campaign, err := svc.CreateCampaign(sampleRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if campaign.Status != model.StatusProcessing {
		t.Errorf("expected PROCESSING right after create, got %s", campaign.Status)
	}

	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)

	results, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	if len(results) != 3 {
		t.Fatalf("expected 3 message results, got %d", len(results))
	}
	for _, r := range results {
		if r.IsSelected {
			t.Errorf("freshly generated result %s should not be selected", r.ResultID)
		}
	}
}

func TestCreateCampaignGatewayFailure(t *testing.T) {
	aiClient := &MockAiClient{GenErr: fmt.Errorf("AI server down")}
	svc, campaignRepo, resultRepo := newTestService(aiClient)

	campaign, err := svc.CreateCampaign(sampleRequest())
	if err != nil {
		t.Fatalf("create should succeed even when the gateway fails later: %v", err)
	}

	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusFailed)

	results, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	if len(results) != 0 {
		t.Errorf("expected no message results after gateway failure, got %d", len(results))
	}
}

func TestSelectMessageExactSet(t *testing.T) {
	aiClient := &MockAiClient{GenResp: sampleGeneration()}
	svc, campaignRepo, resultRepo := newTestService(aiClient)

	campaign, _ := svc.CreateCampaign(sampleRequest())
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)

	// A second campaign whose results must stay untouched
	other, _ := svc.CreateCampaign(sampleRequest())
	waitForStatus(t, campaignRepo, other.CampaignID, model.StatusCompleted)

	results, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	// Pre-select one result, then select a different pair: only the pair
	// must remain selected afterwards.
	if err := svc.SelectMessage(campaign.CampaignID, []uuid.UUID{results[0].ResultID}); err != nil {
		t.Fatalf("first selection failed: %v", err)
	}
	want := []uuid.UUID{results[1].ResultID, results[2].ResultID}
	if err := svc.SelectMessage(campaign.CampaignID, want); err != nil {
		t.Fatalf("second selection failed: %v", err)
	}

	selected, _ := resultRepo.ListSelected(campaign.CampaignID)
	if len(selected) != 2 {
		t.Fatalf("expected exactly 2 selected results, got %d", len(selected))
	}
	got := map[uuid.UUID]bool{}
	for _, r := range selected {
		got[r.ResultID] = true
	}
	for _, id := range want {
		if !got[id] {
			t.Errorf("result %s should be selected", id)
		}
	}

	otherSelected, _ := resultRepo.ListSelected(other.CampaignID)
	if len(otherSelected) != 0 {
		t.Errorf("other campaign's results were touched")
	}

	c, _ := campaignRepo.GetByID(campaign.CampaignID)
	if c.Status != model.StatusMessageSelected {
		t.Errorf("expected MESSAGE_SELECTED, got %s", c.Status)
	}
}

func TestSelectMessageOwnershipViolation(t *testing.T) {
	aiClient := &MockAiClient{GenResp: sampleGeneration()}
	svc, campaignRepo, resultRepo := newTestService(aiClient)

	campaign, _ := svc.CreateCampaign(sampleRequest())
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)
	other, _ := svc.CreateCampaign(sampleRequest())
	waitForStatus(t, campaignRepo, other.CampaignID, model.StatusCompleted)

	ownResults, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	if err := svc.SelectMessage(campaign.CampaignID, []uuid.UUID{ownResults[0].ResultID}); err != nil {
		t.Fatalf("setup selection failed: %v", err)
	}

	foreignResults, _ := resultRepo.ListByCampaign(other.CampaignID)
	err := svc.SelectMessage(campaign.CampaignID, []uuid.UUID{ownResults[1].ResultID, foreignResults[0].ResultID})

	var notOwned *appErrors.ErrResultNotOwned
	if err == nil {
		t.Fatal("expected ownership violation")
	}
	if !errors.As(err, &notOwned) {
		t.Fatalf("expected ErrResultNotOwned, got %T: %v", err, err)
	}

	// The abort must leave the previous selection in place
	selected, _ := resultRepo.ListSelected(campaign.CampaignID)
	if len(selected) != 1 || selected[0].ResultID != ownResults[0].ResultID {
		t.Errorf("aborted selection mutated the persisted flags")
	}
}

func TestRefineReplacesDrafts(t *testing.T) {
	aiClient := &MockAiClient{GenResp: sampleGeneration()}
	svc, campaignRepo, resultRepo := newTestService(aiClient)

	campaign, _ := svc.CreateCampaign(sampleRequest())
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)

	oldResults, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	oldIDs := map[uuid.UUID]bool{}
	for _, r := range oldResults {
		oldIDs[r.ResultID] = true
	}

	aiClient.RefineResp = &dto.GenerationResponse{
		TargetGroups: []dto.TargetGroup{
			{
				TargetGroupIndex: 0,
				TargetName:       "Young professionals",
				TargetFeatures:   "25-34, urban, mobile-first",
				MessageDrafts: []dto.MessageDraft{
					{MessageDraftIndex: 0, MessageText: "Sharper draft"},
				},
			},
		},
	}

	if err := svc.RefineMessage(campaign.CampaignID, "too generic, punch it up"); err != nil {
		t.Fatalf("refine failed: %v", err)
	}
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)

	newResults, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	if len(newResults) != 1 {
		t.Fatalf("expected the replaced set of 1 result, got %d", len(newResults))
	}
	if oldIDs[newResults[0].ResultID] {
		t.Errorf("pre-refinement draft survived the replacement")
	}
	if newResults[0].MessageText != "Sharper draft" {
		t.Errorf("unexpected draft text %q", newResults[0].MessageText)
	}

	// Personas were deduplicated: 2 groups generated, 3 drafts
	if len(aiClient.RefineReqs) != 1 {
		t.Fatalf("expected one refine call, got %d", len(aiClient.RefineReqs))
	}
	if got := len(aiClient.RefineReqs[0].TargetPersonas); got != 2 {
		t.Errorf("expected 2 deduplicated personas, got %d", got)
	}
	if aiClient.RefineReqs[0].FeedbackText != "too generic, punch it up" {
		t.Errorf("feedback not forwarded")
	}
}

// gatedAiClient blocks Refine until released, so a test can inspect the
// campaign while the AI call is still in flight.
type gatedAiClient struct {
	MockAiClient
	refineStarted chan struct{}
	release       chan struct{}
}

func (g *gatedAiClient) Refine(campaignID uuid.UUID, req dto.RefineAiRequest) (*dto.GenerationResponse, error) {
	g.refineStarted <- struct{}{}
	<-g.release
	return g.MockAiClient.Refine(campaignID, req)
}

func TestRefineVisibleAsRefiningWhilePending(t *testing.T) {
	gate := &gatedAiClient{
		MockAiClient: MockAiClient{
			GenResp: sampleGeneration(),
			RefineResp: &dto.GenerationResponse{
				TargetGroups: []dto.TargetGroup{
					{
						TargetGroupIndex: 0,
						TargetName:       "Young professionals",
						MessageDrafts: []dto.MessageDraft{
							{MessageDraftIndex: 0, MessageText: "Sharper draft"},
						},
					},
				},
			},
		},
		refineStarted: make(chan struct{}),
		release:       make(chan struct{}),
	}

	campaignRepo := NewMockCampaignRepo()
	resultRepo := &MockResultRepo{}
	q := queue.NewInMemoryQueue()
	svc := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ResultRepo:   resultRepo,
		AiClient:     gate,
		Queue:        q,
	}
	queue.StartAiJobSubscriber(q, svc)

	campaign, _ := svc.CreateCampaign(sampleRequest())
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)

	if err := svc.RefineMessage(campaign.CampaignID, "feedback"); err != nil {
		t.Fatalf("refine submission failed: %v", err)
	}

	select {
	case <-gate.refineStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("refine call never started")
	}

	// The AI call is in flight; pollers must already read REFINING
	c, err := campaignRepo.GetByID(campaign.CampaignID)
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != model.StatusRefining {
		t.Errorf("expected REFINING while the AI call is pending, got %s", c.Status)
	}

	close(gate.release)
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)

	results, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	if len(results) != 1 || results[0].MessageText != "Sharper draft" {
		t.Errorf("replacement did not land after release, got %d results", len(results))
	}
}

func TestRefineFailureMarksFailed(t *testing.T) {
	aiClient := &MockAiClient{GenResp: sampleGeneration(), RefineErr: fmt.Errorf("AI refuses")}
	svc, campaignRepo, resultRepo := newTestService(aiClient)

	campaign, _ := svc.CreateCampaign(sampleRequest())
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)

	if err := svc.RefineMessage(campaign.CampaignID, "feedback"); err != nil {
		t.Fatalf("refine submission failed: %v", err)
	}
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusFailed)

	// Old drafts stay intact when the refine call itself failed
	results, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	if len(results) != 3 {
		t.Errorf("expected the old drafts to survive, got %d", len(results))
	}
}

func TestUpdatePerformanceBranches(t *testing.T) {
	aiClient := &MockAiClient{GenResp: sampleGeneration()}
	svc, campaignRepo, _ := newTestService(aiClient)

	success, _ := svc.CreateCampaign(sampleRequest())
	if err := svc.UpdatePerformance(success.CampaignID, dto.PerformanceUpdate{
		ActualCtr: "4.2%", ConversionRate: "1.1%", PerformanceStatus: "SUCCESS",
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	c, _ := campaignRepo.GetByID(success.CampaignID)
	if c.Status != model.StatusSuccessCase {
		t.Errorf("SUCCESS should branch to SUCCESS_CASE, got %s", c.Status)
	}
	if !c.IsPerformanceRegistered {
		t.Errorf("performance flag not set")
	}

	failure, _ := svc.CreateCampaign(sampleRequest())
	if err := svc.UpdatePerformance(failure.CampaignID, dto.PerformanceUpdate{
		ActualCtr: "0.2%", ConversionRate: "0.0%", PerformanceStatus: "FAILURE",
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	c, _ = campaignRepo.GetByID(failure.CampaignID)
	if c.Status != model.StatusPerformanceRegistered {
		t.Errorf("FAILURE should branch to PERFORMANCE_REGISTERED, got %s", c.Status)
	}
}

func TestTriggerRagPreconditions(t *testing.T) {
	aiClient := &MockAiClient{GenResp: sampleGeneration()}
	svc, campaignRepo, resultRepo := newTestService(aiClient)

	campaign, _ := svc.CreateCampaign(sampleRequest())
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)

	assertPrecondition := func(t *testing.T, err error) {
		t.Helper()
		var precondition *appErrors.ErrPreconditionFailed
		if err == nil || !errors.As(err, &precondition) {
			t.Fatalf("expected precondition failure, got %v", err)
		}
		if len(aiClient.PublishedEntries()) != 0 {
			t.Fatal("remote publish attempted despite failed precondition")
		}
	}

	// (a) performance not registered
	assertPrecondition(t, svc.TriggerRagRegistration(campaign.CampaignID))

	// (b) performance registered but UNDECIDED
	if err := svc.UpdatePerformance(campaign.CampaignID, dto.PerformanceUpdate{PerformanceStatus: "UNDECIDED"}); err != nil {
		t.Fatal(err)
	}
	assertPrecondition(t, svc.TriggerRagRegistration(campaign.CampaignID))

	// (c) decided, but nothing selected
	if err := svc.UpdatePerformance(campaign.CampaignID, dto.PerformanceUpdate{PerformanceStatus: "SUCCESS"}); err != nil {
		t.Fatal(err)
	}
	assertPrecondition(t, svc.TriggerRagRegistration(campaign.CampaignID))

	// All three satisfied: the publish goes out and the status advances
	results, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	if err := svc.SelectMessage(campaign.CampaignID, []uuid.UUID{results[0].ResultID}); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdatePerformance(campaign.CampaignID, dto.PerformanceUpdate{
		ActualCtr: "3.0%", ConversionRate: "0.9%", PerformanceStatus: "SUCCESS", PerformanceNotes: "strong CTA",
	}); err != nil {
		t.Fatal(err)
	}
	if err := svc.TriggerRagRegistration(campaign.CampaignID); err != nil {
		t.Fatalf("rag registration failed: %v", err)
	}
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusRagRegistered)

	published := aiClient.PublishedEntries()
	if len(published) != 1 {
		t.Fatalf("expected one knowledge entry, got %d", len(published))
	}
	if published[0].Title != "success_case: Spring promotion" {
		t.Errorf("unexpected title %q", published[0].Title)
	}
	if published[0].SourceType != "success_case" {
		t.Errorf("unexpected source type %q", published[0].SourceType)
	}

	c, _ := campaignRepo.GetByID(campaign.CampaignID)
	if !c.IsRagRegistered {
		t.Errorf("rag flag not set after successful publish")
	}
}

func TestTriggerRagPublishFailureLeavesState(t *testing.T) {
	aiClient := &MockAiClient{GenResp: sampleGeneration(), PublishErr: fmt.Errorf("knowledge endpoint down")}
	svc, campaignRepo, resultRepo := newTestService(aiClient)

	campaign, _ := svc.CreateCampaign(sampleRequest())
	waitForStatus(t, campaignRepo, campaign.CampaignID, model.StatusCompleted)

	results, _ := resultRepo.ListByCampaign(campaign.CampaignID)
	if err := svc.SelectMessage(campaign.CampaignID, []uuid.UUID{results[0].ResultID}); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdatePerformance(campaign.CampaignID, dto.PerformanceUpdate{PerformanceStatus: "FAILURE"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.TriggerRagRegistration(campaign.CampaignID); err != nil {
		t.Fatalf("submission itself should not fail: %v", err)
	}

	// Give the continuation a moment, then verify nothing changed
	time.Sleep(100 * time.Millisecond)
	c, _ := campaignRepo.GetByID(campaign.CampaignID)
	if c.IsRagRegistered {
		t.Errorf("rag flag set despite publish failure")
	}
	if c.Status == model.StatusRagRegistered {
		t.Errorf("status advanced despite publish failure")
	}
}
