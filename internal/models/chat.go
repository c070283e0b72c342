package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserChat is a direct-message thread between exactly two users. The pair is
// unique: re-enabling a deleted or blocked chat reuses the existing row.
// UpdatedAt orders chat listings and is bumped on every new message.
type UserChat struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participants []UserChatParticipant `gorm:"foreignKey:ChatID" json:"participants,omitempty"`
}

func (c *UserChat) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// UserChatParticipant carries one user's block/delete/read state for one
// chat. ChatBlocked and ChatDeleted are independent flags, not an enum; a
// participant can be both at once. Only the owning user's actions mutate the
// flags, but delete/block/re-enable stamp the counterpart's LastReadAt.
type UserChatParticipant struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID        string     `gorm:"type:uuid;not null;uniqueIndex:idx_chat_user" json:"chat_id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_chat_user" json:"user_id"`
	User          User       `json:"user,omitempty"`
	ChatDeleted   bool       `json:"chat_deleted"`
	LastDeletedAt *time.Time `json:"last_deleted_at"`
	ChatBlocked   bool       `json:"chat_blocked"`
	LastBlockedAt *time.Time `json:"last_blocked_at"`
	LastReadAt    *time.Time `json:"last_read_at"`
}

func (p *UserChatParticipant) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// VisibilityFloor returns the cut-off for message retrieval: the later of
// LastDeletedAt and LastBlockedAt, or nil when neither is set. Messages at or
// before the floor stay hidden even after the chat is re-enabled.
func (p *UserChatParticipant) VisibilityFloor() *time.Time {
	if p.LastDeletedAt != nil && p.LastBlockedAt != nil {
		if p.LastDeletedAt.After(*p.LastBlockedAt) {
			return p.LastDeletedAt
		}
		return p.LastBlockedAt
	}
	if p.LastDeletedAt != nil {
		return p.LastDeletedAt
	}
	return p.LastBlockedAt
}

// UserChatParticipantMessage is one message in a chat, owned by the sender's
// participant row. Immutable once created except for UpdatedAt.
type UserChatParticipantMessage struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   string    `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID string    `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Sender UserChatParticipant `gorm:"foreignKey:SenderID" json:"-"`
}

func (m *UserChatParticipantMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// ChatSummary is a chat annotated for listings: the latest message in the
// thread plus the viewer-relative unread count.
type ChatSummary struct {
	Chat                 UserChat   `json:"chat"`
	LastMessage          *string    `json:"last_message"`
	LastMessageCreatedAt *time.Time `json:"last_message_created_at"`
	UnreadMessagesCount  int64      `json:"unread_messages_count"`
}
