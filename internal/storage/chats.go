package storage

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/query"
)

// GetChatBetween finds the chat both users participate in. Returns nil
// without error when the pair has no chat.
func (s *Service) GetChatBetween(userID, otherUserID uint) (*models.UserChat, error) {
	var chat models.UserChat
	err := s.DB.
		Joins("JOIN user_chat_participants a ON a.chat_id = user_chats.id AND a.user_id = ?", userID).
		Joins("JOIN user_chat_participants b ON b.chat_id = user_chats.id AND b.user_id = ?", otherUserID).
		First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *Service) GetChatByID(chatID string) (*models.UserChat, error) {
	var chat models.UserChat
	err := s.DB.Preload("Participants.User").Where("id = ?", chatID).First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get chat %s: %v", chatID, err)
		return nil, err
	}
	return &chat, nil
}

// GetParticipant loads one user's participant row for a chat. Returns nil
// without error when the row does not exist.
func (s *Service) GetParticipant(chatID string, userID uint) (*models.UserChatParticipant, error) {
	var participant models.UserChatParticipant
	err := s.DB.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *Service) GetParticipants(chatID string) ([]models.UserChatParticipant, error) {
	var participants []models.UserChatParticipant
	err := s.DB.Preload("User").Where("chat_id = ?", chatID).Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// CreateChatWithParticipants creates a chat and both participant rows in one
// transaction. Both participants start active.
func (s *Service) CreateChatWithParticipants(userID, otherUserID uint) (*models.UserChat, error) {
	chat := models.UserChat{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		participants := []models.UserChatParticipant{
			{ChatID: chat.ID, UserID: userID},
			{ChatID: chat.ID, UserID: otherUserID},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		log.Printf("ERROR: Failed to create chat between %d and %d: %v", userID, otherUserID, err)
		return nil, err
	}
	return &chat, nil
}

// SaveParticipants persists the given participant rows atomically. Used for
// the paired stamps on delete/block/re-enable.
func (s *Service) SaveParticipants(participants ...*models.UserChatParticipant) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, participant := range participants {
			if err := tx.Save(participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateChatMessage persists a message and bumps the chat's updated_at in
// the same transaction, so listings reorder together with the new message.
func (s *Service) CreateChatMessage(msg *models.UserChatParticipantMessage, chatID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserChat{}).
			Where("id = ?", chatID).
			Update("updated_at", time.Now().UTC()).Error
	})
}

// chatMessagesQuery builds the message log query: newest-first, created
// strictly before the cursor timestamp. When after is set, only messages
// created strictly later match (the requester's visibility floor).
func (s *Service) chatMessagesQuery(chatID string, after *time.Time, before time.Time, limit int) *gorm.DB {
	tx := s.DB.Model(&models.UserChatParticipantMessage{}).
		Joins("JOIN user_chat_participants sp ON sp.id = user_chat_participant_messages.sender_id").
		Where("sp.chat_id = ?", chatID).
		Where("user_chat_participant_messages.created_at < ?", before).
		Preload("Sender.User").
		Order("user_chat_participant_messages.created_at DESC")

	if after != nil {
		tx = tx.Where("user_chat_participant_messages.created_at > ?", *after)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	return tx
}

// GetChatMessages returns a chat's visible message page.
func (s *Service) GetChatMessages(chatID string, after *time.Time, before time.Time, limit int) ([]models.UserChatParticipantMessage, error) {
	var messages []models.UserChatParticipantMessage
	if err := s.chatMessagesQuery(chatID, after, before, limit).Find(&messages).Error; err != nil {
		log.Printf("ERROR: Failed to get messages for chat %s: %v", chatID, err)
		return nil, err
	}
	return messages, nil
}

type chatRow struct {
	models.UserChat
	LastMessage          *string
	LastMessageCreatedAt *time.Time
	UnreadMessagesCount  int64
}

// annotatedChats builds the chat listing query for one viewer: their visible
// chats (not blocked or deleted by them), each annotated with the latest
// message and the viewer-relative unread count, messages from the other side
// newer than the viewer's last_read_at. A never-read chat counts every such
// message as unread.
func (s *Service) annotatedChats(userID uint, params query.Params) *gorm.DB {
	lastMessage := s.latestChild(
		&models.UserChatParticipantMessage{},
		"message",
		"sp.chat_id = user_chats.id",
		"JOIN user_chat_participants sp ON sp.id = user_chat_participant_messages.sender_id",
	)
	lastMessageAt := s.latestChild(
		&models.UserChatParticipantMessage{},
		"user_chat_participant_messages.created_at",
		"sp.chat_id = user_chats.id",
		"JOIN user_chat_participants sp ON sp.id = user_chat_participant_messages.sender_id",
	)
	unread := s.newDB().Model(&models.UserChatParticipantMessage{}).
		Select("count(*)").
		Joins("JOIN user_chat_participants sp ON sp.id = user_chat_participant_messages.sender_id").
		Where("sp.chat_id = user_chats.id").
		Where("sp.user_id <> ?", userID).
		Where("user_chat_participant_messages.created_at > COALESCE(mine.last_read_at, to_timestamp(0))")

	mine := func(tx *gorm.DB) *gorm.DB {
		return tx.
			Joins("JOIN user_chat_participants mine ON mine.chat_id = user_chats.id").
			Where("mine.user_id = ? AND mine.chat_blocked = ? AND mine.chat_deleted = ?", userID, false, false)
	}

	return query.Build(s.DB, query.EntityChat, params, query.WithScope(mine)).
		Select("user_chats.*, (?) AS last_message, (?) AS last_message_created_at, (?) AS unread_messages_count",
			lastMessage, lastMessageAt, unread)
}

// ListMyChats runs the annotated listing and stitches each row with its
// participants.
func (s *Service) ListMyChats(userID uint, params query.Params) ([]models.ChatSummary, error) {
	var rows []chatRow
	err := s.annotatedChats(userID, params).Scan(&rows).Error
	if err != nil {
		log.Printf("ERROR: Failed to list chats for user %d: %v", userID, err)
		return nil, err
	}

	summaries := make([]models.ChatSummary, 0, len(rows))
	for _, row := range rows {
		chat := row.UserChat
		participants, err := s.GetParticipants(chat.ID)
		if err != nil {
			return nil, err
		}
		chat.Participants = participants
		summaries = append(summaries, models.ChatSummary{
			Chat:                 chat,
			LastMessage:          row.LastMessage,
			LastMessageCreatedAt: row.LastMessageCreatedAt,
			UnreadMessagesCount:  row.UnreadMessagesCount,
		})
	}
	return summaries, nil
}
