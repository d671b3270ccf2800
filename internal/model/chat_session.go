// internal/model/chat_session.go
package model

import "time"

// ChatSession is one interactive campaign-building conversation. The
// conversation id comes from the AI server and stays stable across turns.
type ChatSession struct {
	ConversationID string        `db:"conversation_id" json:"conversation_id"`
	Title          string        `db:"title" json:"title"`
	LastUpdatedAt  time.Time     `db:"last_updated_at" json:"last_updated_at"`
	Messages       []ChatMessage `json:"messages,omitempty"`
}

// ChatMessage is a single turn. Turns are append-only, ordered by created_at.
type ChatMessage struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"` // user, assistant
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
