package storage

import (
	"time"

	"gorm.io/gorm"

	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/query"
)

// Storage is the persistence contract the lifecycle services depend on.
// Multi-row mutations (chat creation, paired participant stamps) are
// all-or-nothing; a failure partway through leaves no partial state.
type Storage interface {
	// Users
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	SaveUser(user *models.User) error
	ListUsers(params query.Params) ([]models.User, error)
	ListUserPosts(userID uint, params query.Params, includeDeleted bool) ([]models.Post, error)
	ListUserComments(userID uint, params query.Params, includeDeleted bool) ([]models.PostComment, error)
	CreateUserLike(userID, likedUserID uint) (int64, error)
	DeleteUserLike(userID, likedUserID uint) error

	// Chats
	GetChatBetween(userID, otherUserID uint) (*models.UserChat, error)
	GetChatByID(chatID string) (*models.UserChat, error)
	GetParticipant(chatID string, userID uint) (*models.UserChatParticipant, error)
	GetParticipants(chatID string) ([]models.UserChatParticipant, error)
	CreateChatWithParticipants(userID, otherUserID uint) (*models.UserChat, error)
	SaveParticipants(participants ...*models.UserChatParticipant) error
	CreateChatMessage(msg *models.UserChatParticipantMessage, chatID string) error
	GetChatMessages(chatID string, after *time.Time, before time.Time, limit int) ([]models.UserChatParticipantMessage, error)
	ListMyChats(userID uint, params query.Params) ([]models.ChatSummary, error)

	// Inquiries
	FindInquiries(params query.Params, ownerID *uint) ([]models.InquirySummary, error)
	FindInquiry(inquiryID string, ownerID *uint) (*models.InquirySummary, error)
	GetInquiryMessages(inquiryID string, before time.Time, limit int) ([]models.InquiryChatMessage, error)
	GetInquiryModeratorMessages(inquiryID string, before time.Time, limit int) ([]models.InquiryChatMessage, error)
	CreateInquiryMessage(msg *models.InquiryMessage) error
	MarkInquiryAsRead(inquiryID string, at time.Time) error
	MarkInquiryAsReadForModerator(inquiryID string, moderatorID uint, at time.Time) error
	TouchInquiry(inquiryID string) error
	GetInquiryModerators(inquiryID string) ([]models.InquiryModerator, error)
	AssignModerator(inquiryID string, moderatorID uint) (*models.InquiryModerator, error)
	CreateInquiryModeratorMessage(msg *models.InquiryModeratorMessage) error
}

// Service is the PostgreSQL-backed implementation of Storage.
type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// newDB returns a clean session for building correlated subqueries without
// inheriting the outer query's conditions.
func (s *Service) newDB() *gorm.DB {
	return s.DB.Session(&gorm.Session{NewDB: true})
}

// latestChild builds a correlated subquery selecting one column of the
// newest child row for each parent row. parentMatch correlates the child
// table to the outer query, e.g. "inquiry_messages.inquiry_id = inquiries.id".
func (s *Service) latestChild(model any, column, parentMatch string, joins ...string) *gorm.DB {
	sub := s.newDB().Model(model).Select(column)
	for _, join := range joins {
		sub = sub.Joins(join)
	}
	return sub.Where(parentMatch).Order("created_at DESC").Limit(1)
}
