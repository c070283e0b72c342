package chat_test

import (
	"time"

	"github.com/stretchr/testify/mock"

	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/query"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) ListUsers(params query.Params) ([]models.User, error) {
	args := m.Called(params)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) ListUserPosts(userID uint, params query.Params, includeDeleted bool) ([]models.Post, error) {
	args := m.Called(userID, params, includeDeleted)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockStorage) ListUserComments(userID uint, params query.Params, includeDeleted bool) ([]models.PostComment, error) {
	args := m.Called(userID, params, includeDeleted)
	return args.Get(0).([]models.PostComment), args.Error(1)
}

func (m *MockStorage) CreateUserLike(userID, likedUserID uint) (int64, error) {
	args := m.Called(userID, likedUserID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) DeleteUserLike(userID, likedUserID uint) error {
	args := m.Called(userID, likedUserID)
	return args.Error(0)
}

func (m *MockStorage) GetChatBetween(userID, otherUserID uint) (*models.UserChat, error) {
	args := m.Called(userID, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserChat), args.Error(1)
}

func (m *MockStorage) GetChatByID(chatID string) (*models.UserChat, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserChat), args.Error(1)
}

func (m *MockStorage) GetParticipant(chatID string, userID uint) (*models.UserChatParticipant, error) {
	args := m.Called(chatID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserChatParticipant), args.Error(1)
}

func (m *MockStorage) GetParticipants(chatID string) ([]models.UserChatParticipant, error) {
	args := m.Called(chatID)
	return args.Get(0).([]models.UserChatParticipant), args.Error(1)
}

func (m *MockStorage) CreateChatWithParticipants(userID, otherUserID uint) (*models.UserChat, error) {
	args := m.Called(userID, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserChat), args.Error(1)
}

func (m *MockStorage) SaveParticipants(participants ...*models.UserChatParticipant) error {
	args := m.Called(participants)
	return args.Error(0)
}

func (m *MockStorage) CreateChatMessage(msg *models.UserChatParticipantMessage, chatID string) error {
	args := m.Called(msg, chatID)
	return args.Error(0)
}

func (m *MockStorage) GetChatMessages(chatID string, after *time.Time, before time.Time, limit int) ([]models.UserChatParticipantMessage, error) {
	args := m.Called(chatID, after, before, limit)
	return args.Get(0).([]models.UserChatParticipantMessage), args.Error(1)
}

func (m *MockStorage) ListMyChats(userID uint, params query.Params) ([]models.ChatSummary, error) {
	args := m.Called(userID, params)
	return args.Get(0).([]models.ChatSummary), args.Error(1)
}

func (m *MockStorage) FindInquiries(params query.Params, ownerID *uint) ([]models.InquirySummary, error) {
	args := m.Called(params, ownerID)
	return args.Get(0).([]models.InquirySummary), args.Error(1)
}

func (m *MockStorage) FindInquiry(inquiryID string, ownerID *uint) (*models.InquirySummary, error) {
	args := m.Called(inquiryID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InquirySummary), args.Error(1)
}

func (m *MockStorage) GetInquiryMessages(inquiryID string, before time.Time, limit int) ([]models.InquiryChatMessage, error) {
	args := m.Called(inquiryID, before, limit)
	return args.Get(0).([]models.InquiryChatMessage), args.Error(1)
}

func (m *MockStorage) GetInquiryModeratorMessages(inquiryID string, before time.Time, limit int) ([]models.InquiryChatMessage, error) {
	args := m.Called(inquiryID, before, limit)
	return args.Get(0).([]models.InquiryChatMessage), args.Error(1)
}

func (m *MockStorage) CreateInquiryMessage(msg *models.InquiryMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) MarkInquiryAsRead(inquiryID string, at time.Time) error {
	args := m.Called(inquiryID, at)
	return args.Error(0)
}

func (m *MockStorage) MarkInquiryAsReadForModerator(inquiryID string, moderatorID uint, at time.Time) error {
	args := m.Called(inquiryID, moderatorID, at)
	return args.Error(0)
}

func (m *MockStorage) TouchInquiry(inquiryID string) error {
	args := m.Called(inquiryID)
	return args.Error(0)
}

func (m *MockStorage) GetInquiryModerators(inquiryID string) ([]models.InquiryModerator, error) {
	args := m.Called(inquiryID)
	return args.Get(0).([]models.InquiryModerator), args.Error(1)
}

func (m *MockStorage) AssignModerator(inquiryID string, moderatorID uint) (*models.InquiryModerator, error) {
	args := m.Called(inquiryID, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InquiryModerator), args.Error(1)
}

func (m *MockStorage) CreateInquiryModeratorMessage(msg *models.InquiryModeratorMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}
