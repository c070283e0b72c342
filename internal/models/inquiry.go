package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InquiryType categorizes support inquiries (e.g. account, moderation).
type InquiryType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:512" json:"name"`
	Description string `gorm:"size:1000" json:"description"`

	DisplayNames []InquiryTypeDisplayName `gorm:"foreignKey:InquiryTypeID" json:"display_names,omitempty"`
}

// InquiryTypeDisplayName is the localized label for an inquiry type.
type InquiryTypeDisplayName struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	InquiryTypeID uint   `gorm:"not null;index" json:"inquiry_type_id"`
	Language      string `gorm:"size:8;not null" json:"language"`
	DisplayName   string `gorm:"size:512" json:"display_name"`
}

// Inquiry is a support thread owned by one user and handled by zero or more
// moderators. LastReadAt tracks the owner's read state; each moderator has
// their own on the InquiryModerator assignment.
type Inquiry struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	User          User        `json:"user,omitempty"`
	InquiryTypeID uint        `gorm:"not null" json:"inquiry_type_id"`
	InquiryType   InquiryType `json:"inquiry_type,omitempty"`
	Title         string      `gorm:"size:512" json:"title"`
	Solved        bool        `json:"solved"`
	LastReadAt    *time.Time  `json:"last_read_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Moderators []InquiryModerator `gorm:"foreignKey:InquiryID" json:"moderators,omitempty"`
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return
}

// InquiryModerator is one moderator's assignment to an inquiry.
type InquiryModerator struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	InquiryID   string     `gorm:"type:uuid;not null;index" json:"inquiry_id"`
	ModeratorID uint       `gorm:"not null;index" json:"moderator_id"`
	Moderator   User       `json:"moderator,omitempty"`
	LastReadAt  *time.Time `json:"last_read_at"`
	AssignedAt  time.Time  `gorm:"autoCreateTime" json:"assigned_at"`
	InCharge    bool       `gorm:"default:true" json:"in_charge"`
}

func (m *InquiryModerator) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// InquiryMessage is a message authored by the inquiry's owner. Append-only.
type InquiryMessage struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	InquiryID string    `gorm:"type:uuid;not null;index" json:"inquiry_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *InquiryMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// InquiryModeratorMessage is a message authored by a moderator, scoped to
// that moderator's assignment. Append-only.
type InquiryModeratorMessage struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	InquiryModeratorID string    `gorm:"type:uuid;not null;index" json:"inquiry_moderator_id"`
	Message            string    `gorm:"type:text;not null" json:"message"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (m *InquiryModeratorMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// ModeratorSummary is a moderator assignment annotated with that
// assignment's latest message.
type ModeratorSummary struct {
	Assignment           InquiryModerator `json:"assignment"`
	LastMessage          *string          `json:"last_message"`
	LastMessageCreatedAt *time.Time       `json:"last_message_created_at"`
}

// InquirySummary is an inquiry annotated for listings: latest user-authored
// message, latest moderator-authored message across all assignments, and the
// owner's unread count (moderator messages newer than Inquiry.LastReadAt).
type InquirySummary struct {
	Inquiry                       Inquiry            `json:"inquiry"`
	LastMessage                   *string            `json:"last_message"`
	LastMessageCreatedAt          *time.Time         `json:"last_message_created_at"`
	LastModeratorMessage          *string            `json:"last_moderator_message"`
	LastModeratorMessageCreatedAt *time.Time         `json:"last_moderator_message_created_at"`
	UnreadMessagesCount           int64              `json:"unread_messages_count"`
	Moderators                    []ModeratorSummary `json:"moderators"`
}

// AssignmentFor returns the given moderator's assignment on the inquiry, or
// nil when the moderator has not engaged with it yet.
func (s *InquirySummary) AssignmentFor(moderatorID uint) *InquiryModerator {
	for i := range s.Moderators {
		if s.Moderators[i].Assignment.ModeratorID == moderatorID {
			return &s.Moderators[i].Assignment
		}
	}
	return nil
}

// InquiryChatMessage is the flattened wire form shared by user and moderator
// messages when an inquiry log is returned. UserType is "User" or
// "Moderator".
type InquiryChatMessage struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	UserType  string    `json:"user_type"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
