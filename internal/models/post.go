package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post statuses. Soft-delete is a status row, never a physical delete;
// "deleted" is excluded from default listings.
const (
	PostStatusCreated = "created"
	PostStatusHidden  = "hidden"
	PostStatusDeleted = "deleted"
)

// PostStatus is a lookup row for post/comment visibility states.
type PostStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;uniqueIndex" json:"name"`
}

// Post is a board post. Only the generic filtered-query pattern applies to
// posts in this service; CRUD beyond that lives elsewhere.
type Post struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	StatusID  uint       `gorm:"not null" json:"status_id"`
	Status    PostStatus `json:"status,omitempty"`
	Title     string     `gorm:"size:512" json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// PostComment is a comment on a post, soft-deleted via status like posts.
type PostComment struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string     `gorm:"type:uuid;not null;index" json:"post_id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	StatusID  uint       `gorm:"not null" json:"status_id"`
	Status    PostStatus `json:"status,omitempty"`
	Content   string     `gorm:"type:text" json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *PostComment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
