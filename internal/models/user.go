package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // Needed for pq.StringArray
	"gorm.io/gorm"
)

// Role names seeded at startup. Weight orders privileges: higher wins.
const (
	RoleNameUser      = "user"
	RoleNameModerator = "moderator"
	RoleNameAdmin     = "admin"
)

// Role classifies a user as ordinary, moderator or admin.
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:128;uniqueIndex" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	Weight      int    `json:"weight"`
}

// User represents a registered member of the community.
// ChatBlocked is the global flag set by moderation; it is distinct from the
// per-chat block state on UserChatParticipant.
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	RoleID           uint           `gorm:"not null" json:"role_id"`
	Role             Role           `json:"-"`
	Username         string         `gorm:"size:128;uniqueIndex" json:"username"`
	Email            string         `gorm:"uniqueIndex" json:"email"`
	Experience       int            `json:"experience"`
	Introduction     string         `gorm:"type:text" json:"introduction"`
	ChatBlocked      bool           `json:"chat_blocked"`
	IsProfileVisible bool           `gorm:"default:true" json:"is_profile_visible"`
	FavoriteTeams    pq.StringArray `gorm:"type:text[]" json:"favorite_teams"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// IsModerator reports whether the user may act on inquiries.
func (u *User) IsModerator() bool {
	return u.Role.Name == RoleNameModerator || u.Role.Name == RoleNameAdmin
}

// UserLike records that one user likes another. The pair is unique.
type UserLike struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_liked" json:"user_id"`
	LikedUserID uint      `gorm:"not null;uniqueIndex:idx_user_liked" json:"liked_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (l *UserLike) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}
