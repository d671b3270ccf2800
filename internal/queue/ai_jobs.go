package queue

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/experienceprogram/campaign-backend/internal/dto"
)

// TopicAiJobs carries the fire-and-forget AI calls: generation, refinement
// and knowledge publication. The submitting request never waits on these.
const TopicAiJobs = "ai_jobs"

const (
	JobGenerate         = "generate"
	JobRefine           = "refine"
	JobPublishKnowledge = "publish_knowledge"
)

// AiJob is the envelope for one queued AI continuation. Exactly one of the
// payload fields is set, matching Type.
type AiJob struct {
	Type       string               `json:"type"`
	CampaignID uuid.UUID            `json:"campaign_id"`
	Request    *dto.CampaignRequest `json:"request,omitempty"`
	Refine     *dto.RefineAiRequest `json:"refine,omitempty"`
	Knowledge  *dto.KnowledgeEntry  `json:"knowledge,omitempty"`
}

// AiJobProcessor runs the continuation for one job. Remote-call failures are
// absorbed inside the processor (recorded as a status transition), so a
// returned error means the job itself was unusable.
type AiJobProcessor interface {
	ProcessAiJob(job AiJob) error
}

// StartAiJobSubscriber wires the processor to the queue. The in-memory queue
// delivers AiJob values directly; RabbitMQ delivers raw JSON bytes.
//
// The handler always returns nil, so queue-level retry and requeue never
// fire for AI jobs: a failed generate or refine call is recorded as a FAILED
// status transition inside the processor, and a failed publish is a logged
// no-op. Do not surface processor errors here without revisiting that.
func StartAiJobSubscriber(q Queue, p AiJobProcessor) {
	err := q.Subscribe(TopicAiJobs, func(payload any) error {
		job, err := decodeAiJob(payload)
		if err != nil {
			log.Println("⚠️ Dropping invalid AI job:", err)
			return nil // no retry for garbage payloads
		}

		log.Printf("📩 Processing AI job %s for campaign %s\n", job.Type, job.CampaignID)
		if err := p.ProcessAiJob(job); err != nil {
			log.Println("⚠️ AI job failed:", err)
		}
		return nil
	})
	if err != nil {
		log.Println("⚠️ Failed to start subscriber for", TopicAiJobs, ":", err)
	}
}

func decodeAiJob(payload any) (AiJob, error) {
	switch v := payload.(type) {
	case AiJob:
		return v, nil
	case []byte:
		var job AiJob
		if err := json.Unmarshal(v, &job); err != nil {
			return AiJob{}, err
		}
		return job, nil
	default:
		return AiJob{}, fmt.Errorf("unexpected payload type %T", payload)
	}
}
