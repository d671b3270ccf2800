// internal/service/chat_service.go
package service

import (
	"log"

	"github.com/experienceprogram/campaign-backend/internal/ai"
	"github.com/experienceprogram/campaign-backend/internal/dto"
	appErrors "github.com/experienceprogram/campaign-backend/internal/errors"
	"github.com/experienceprogram/campaign-backend/internal/model"
	"github.com/experienceprogram/campaign-backend/internal/repository"
)

// MaxChatSessions bounds the conversation cache. Exceeding it evicts the
// session with the oldest last-updated timestamp, one per turn.
const MaxChatSessions = 50

// ChatService owns the interactive campaign-building flow and the bounded
// session cache behind it.
type ChatService struct {
	SessionRepo repository.ChatSessionRepositoryInterface
	AiClient    ai.Client
}

// HandleInteractiveBuild is the one AI call the request waits for. A usable
// response is recorded as two turns (user, then assistant) before eviction
// runs; an empty response is passed through without touching the store.
func (s *ChatService) HandleInteractiveBuild(req dto.CampaignChatRequest) (*dto.CampaignChatResponse, error) {
	response, err := s.AiClient.InteractiveBuild(req)
	if err != nil {
		return nil, err
	}

	if response != nil && response.ConversationID != "" {
		if err := s.saveChatHistory(req, response); err != nil {
			return nil, err
		}
		if err := s.EnforceChatSessionLimit(); err != nil {
			log.Println("⚠️ chat session eviction failed:", err)
		}
	}

	return response, nil
}

func (s *ChatService) saveChatHistory(req dto.CampaignChatRequest, response *dto.CampaignChatResponse) error {
	session, err := s.SessionRepo.GetByID(response.ConversationID)
	if err != nil {
		return err
	}
	if session == nil {
		session = &model.ChatSession{ConversationID: response.ConversationID}
	}

	if response.CurrentCampaignData != nil && response.CurrentCampaignData.CampaignTitle != "" {
		session.Title = response.CurrentCampaignData.CampaignTitle
	}

	turns := []model.ChatMessage{
		{ConversationID: session.ConversationID, Role: "user", Content: req.UserMessage},
		{ConversationID: session.ConversationID, Role: "assistant", Content: response.AiResponse},
	}
	return s.SessionRepo.Save(session, turns)
}

// EnforceChatSessionLimit deletes the least-recently-updated session when
// the cache is over capacity. Check-then-act: the bound is approximate under
// concurrent turns, and at most one session goes per call.
func (s *ChatService) EnforceChatSessionLimit() error {
	total, err := s.SessionRepo.Count()
	if err != nil {
		return err
	}
	if total <= MaxChatSessions {
		return nil
	}

	oldest, err := s.SessionRepo.FindOldest()
	if err != nil {
		return err
	}
	if oldest == nil {
		return nil
	}

	log.Println("🧹 Evicting oldest chat session:", oldest.ConversationID)
	return s.SessionRepo.Delete(oldest.ConversationID)
}

// GetChatSessions lists sessions, most recently updated first.
func (s *ChatService) GetChatSessions(page, pageSize int) ([]*model.ChatSession, map[string]int, error) {
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

	sessions, total, err := s.SessionRepo.List(offset, pageSize)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return sessions, pagination, nil
}

func (s *ChatService) GetChatSessionDetails(conversationID string) (*model.ChatSession, error) {
	session, err := s.SessionRepo.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, appErrors.NewSessionNotFound(conversationID)
	}
	return session, nil
}

func (s *ChatService) DeleteChatSession(conversationID string) error {
	session, err := s.SessionRepo.GetByID(conversationID)
	if err != nil {
		return err
	}
	if session == nil {
		return appErrors.NewSessionNotFound(conversationID)
	}
	return s.SessionRepo.Delete(conversationID)
}
