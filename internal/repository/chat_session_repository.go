package repository

import (
	"database/sql"
	"time"

	"github.com/experienceprogram/campaign-backend/internal/model"
)

type ChatSessionRepositoryInterface interface {
	GetByID(conversationID string) (*model.ChatSession, error)
	Save(session *model.ChatSession, newMessages []model.ChatMessage) error
	List(offset, limit int) ([]*model.ChatSession, int, error)
	Count() (int64, error)
	FindOldest() (*model.ChatSession, error)
	Delete(conversationID string) error
}

type ChatSessionRepository struct {
	DB *sql.DB
}

// GetByID loads a session with its messages in creation order. Returns
// (nil, nil) when the conversation id is unknown, so the caller can decide
// between lazy creation and a not-found error.
func (r *ChatSessionRepository) GetByID(conversationID string) (*model.ChatSession, error) {
	var s model.ChatSession
	err := r.DB.QueryRow(
		`SELECT conversation_id, title, last_updated_at FROM chat_sessions WHERE conversation_id=$1`,
		conversationID,
	).Scan(&s.ConversationID, &s.Title, &s.LastUpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.DB.Query(
		`SELECT id, conversation_id, role, content, created_at
         FROM chat_messages WHERE conversation_id=$1 ORDER BY created_at ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		s.Messages = append(s.Messages, m)
	}
	return &s, rows.Err()
}

// Save upserts the session row and appends the new turns in one transaction.
func (r *ChatSessionRepository) Save(session *model.ChatSession, newMessages []model.ChatMessage) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}

	session.LastUpdatedAt = time.Now()
	_, err = tx.Exec(`
        INSERT INTO chat_sessions (conversation_id, title, last_updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (conversation_id) DO UPDATE SET title=$2, last_updated_at=$3
    `, session.ConversationID, session.Title, session.LastUpdatedAt)
	if err != nil {
		tx.Rollback()
		return err
	}

	for _, m := range newMessages {
		_, err = tx.Exec(`
            INSERT INTO chat_messages (conversation_id, role, content, created_at)
            VALUES ($1, $2, $3, $4)
        `, session.ConversationID, m.Role, m.Content, time.Now())
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *ChatSessionRepository) List(offset, limit int) ([]*model.ChatSession, int, error) {
	rows, err := r.DB.Query(
		`SELECT conversation_id, title, last_updated_at
         FROM chat_sessions ORDER BY last_updated_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sessions := []*model.ChatSession{}
	for rows.Next() {
		var s model.ChatSession
		if err := rows.Scan(&s.ConversationID, &s.Title, &s.LastUpdatedAt); err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, &s)
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM chat_sessions`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *ChatSessionRepository) Count() (int64, error) {
	var count int64
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM chat_sessions`).Scan(&count)
	return count, err
}

// FindOldest returns the session with the smallest last_updated_at, the
// eviction victim. (nil, nil) when the table is empty.
func (r *ChatSessionRepository) FindOldest() (*model.ChatSession, error) {
	var s model.ChatSession
	err := r.DB.QueryRow(
		`SELECT conversation_id, title, last_updated_at
         FROM chat_sessions ORDER BY last_updated_at ASC LIMIT 1`,
	).Scan(&s.ConversationID, &s.Title, &s.LastUpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Delete removes the session; its messages cascade via the foreign key.
func (r *ChatSessionRepository) Delete(conversationID string) error {
	_, err := r.DB.Exec(`DELETE FROM chat_sessions WHERE conversation_id=$1`, conversationID)
	return err
}

var _ ChatSessionRepositoryInterface = (*ChatSessionRepository)(nil)
