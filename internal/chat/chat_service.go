// Package chat owns the two-party chat thread lifecycle: the per-participant
// block/delete/read state machine, message creation and read tracking.
package chat

import (
	"log"
	"strings"
	"time"

	"hooptalk/backend/internal/apperr"
	"hooptalk/backend/internal/config"
	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/notify"
	"hooptalk/backend/internal/query"
	"hooptalk/backend/internal/storage"
)

// Service handles the business logic for direct-message chats. All multi-row
// writes run inside a single storage transaction; notification fan-out runs
// after the commit and never rolls it back.
type Service struct {
	Storage storage.Storage
	FanOut  *notify.FanOut
}

// NewService creates a new chat service.
func NewService(s storage.Storage, f *notify.FanOut) *Service {
	return &Service{Storage: s, FanOut: f}
}

// Enable activates a chat between two users. With no existing chat it
// creates the chat plus both participant rows atomically. With an existing
// chat the block check runs before the delete check: a block by either side
// takes priority over a delete-driven re-enable.
func (s *Service) Enable(requestingUserID, targetUserID uint) (*models.UserChat, error) {
	if requestingUserID == targetUserID {
		return nil, apperr.Validation("You cannot chat with yourself.")
	}

	target, err := s.Storage.GetUserByID(targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.NotFound("User not found.")
	}

	chat, err := s.Storage.GetChatBetween(requestingUserID, targetUserID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return s.Storage.CreateChatWithParticipants(requestingUserID, targetUserID)
	}

	mine, theirs, err := s.participantPair(chat.ID, requestingUserID, targetUserID)
	if err != nil {
		return nil, err
	}

	if target.ChatBlocked || theirs.ChatBlocked {
		return nil, apperr.Blocked("Chat is blocked by the other user.")
	}

	now := time.Now().UTC()

	if mine.ChatBlocked {
		mine.ChatBlocked = false
		mine.ChatDeleted = false
		mine.LastBlockedAt = &now
		mine.LastDeletedAt = &now
		theirs.LastReadAt = &now
		if err := s.Storage.SaveParticipants(mine, theirs); err != nil {
			return nil, err
		}
		return chat, nil
	}

	if mine.ChatDeleted {
		mine.ChatDeleted = false
		mine.LastDeletedAt = &now
		theirs.LastReadAt = &now
		if err := s.Storage.SaveParticipants(mine, theirs); err != nil {
			return nil, err
		}
		return chat, nil
	}

	return nil, apperr.Validation("Chat is already enabled.")
}

// SendMessage appends a message to the chat between sender and recipient and
// fans the update out to both parties. The chat's updated_at is stamped with
// the message in one transaction.
func (s *Service) SendMessage(senderID, recipientUserID uint, content string) (*models.UserChatParticipantMessage, *models.UserChat, error) {
	if senderID == recipientUserID {
		return nil, nil, apperr.Validation("You cannot chat with yourself.")
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil, apperr.Validation("Message is required.")
	}

	recipient, err := s.Storage.GetUserByID(recipientUserID)
	if err != nil {
		return nil, nil, err
	}
	if recipient == nil {
		return nil, nil, apperr.NotFound("User not found.")
	}

	chat, err := s.Storage.GetChatBetween(senderID, recipientUserID)
	if err != nil {
		return nil, nil, err
	}
	if chat == nil {
		return nil, nil, apperr.NotFound("Chat not found.")
	}

	mine, theirs, err := s.participantPair(chat.ID, senderID, recipientUserID)
	if err != nil {
		return nil, nil, err
	}
	if recipient.ChatBlocked || mine.ChatBlocked || theirs.ChatBlocked {
		return nil, nil, apperr.Blocked("A user has blocked the chat.")
	}

	message := &models.UserChatParticipantMessage{
		SenderID:   mine.ID,
		ReceiverID: theirs.ID,
		Message:    content,
	}
	if err := s.Storage.CreateChatMessage(message, chat.ID); err != nil {
		return nil, nil, err
	}

	s.broadcastChatUpdate(chat.ID, senderID, recipientUserID, message)
	return message, chat, nil
}

// Messages returns the visible message log of the requester's chat with the
// other user, newest first and paged by the before cursor. Messages at or
// before the requester's visibility floor (the later of last_deleted_at and
// last_blocked_at) stay hidden so a re-enabled chat does not resurrect
// history predating the delete or block. The cursor must parse exactly as
// 2006-01-02T15:04:05.000000Z.
func (s *Service) Messages(requestingUserID, otherUserID uint, before string) ([]models.UserChatParticipantMessage, error) {
	if requestingUserID == otherUserID {
		return nil, apperr.Validation("You cannot chat with yourself.")
	}

	cursor := time.Now().UTC()
	if before != "" {
		parsed, err := time.Parse(config.CursorTimeLayout, before)
		if err != nil {
			return nil, apperr.Validation("Invalid datetime string.")
		}
		cursor = parsed
	}

	chat, err := s.Storage.GetChatBetween(requestingUserID, otherUserID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperr.NotFound("Chat not found.")
	}

	participant, err := s.Storage.GetParticipant(chat.ID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, apperr.NotFound("Chat not found.")
	}
	if participant.ChatBlocked {
		return nil, apperr.Blocked("A user has blocked the chat.")
	}
	if participant.ChatDeleted {
		return nil, apperr.NotFound("Chat not found.")
	}

	return s.Storage.GetChatMessages(chat.ID, participant.VisibilityFloor(), cursor, config.MessagePageSize+1)
}

// MarkAsRead stamps the requester's last_read_at. A missing chat is a no-op.
func (s *Service) MarkAsRead(requestingUserID, targetUserID uint) (*models.UserChat, error) {
	chat, err := s.Storage.GetChatBetween(requestingUserID, targetUserID)
	if err != nil || chat == nil {
		return nil, err
	}

	participant, err := s.Storage.GetParticipant(chat.ID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, nil
	}

	now := time.Now().UTC()
	participant.LastReadAt = &now
	if err := s.Storage.SaveParticipants(participant); err != nil {
		return nil, err
	}

	if payload := s.chatUpdatePayload(chat.ID, requestingUserID); payload != nil {
		s.FanOut.ChatRead(requestingUserID, payload)
	}
	return chat, nil
}

// Delete soft-deletes the chat for the requester and stamps the
// counterpart's last_read_at so their unread badge stops growing from
// messages the deleter can no longer see as new.
func (s *Service) Delete(requestingUserID, targetUserID uint) error {
	return s.closeSide(requestingUserID, targetUserID, func(p *models.UserChatParticipant, now time.Time) {
		p.ChatDeleted = true
		p.LastDeletedAt = &now
	})
}

// Block blocks the chat for the requester, with the same counterpart
// last_read_at stamping as Delete.
func (s *Service) Block(requestingUserID, targetUserID uint) error {
	return s.closeSide(requestingUserID, targetUserID, func(p *models.UserChatParticipant, now time.Time) {
		p.ChatBlocked = true
		p.LastBlockedAt = &now
	})
}

// closeSide applies a one-sided delete or block: the requester's flags
// change, the counterpart only gets its read stamp, and both rows are saved
// atomically. A missing chat is a silent no-op.
func (s *Service) closeSide(requestingUserID, targetUserID uint, mutate func(*models.UserChatParticipant, time.Time)) error {
	if requestingUserID == targetUserID {
		return apperr.Validation("You cannot chat with yourself.")
	}

	chat, err := s.Storage.GetChatBetween(requestingUserID, targetUserID)
	if err != nil || chat == nil {
		return err
	}

	mine, theirs, err := s.participantPair(chat.ID, requestingUserID, targetUserID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	mutate(mine, now)
	theirs.LastReadAt = &now
	return s.Storage.SaveParticipants(mine, theirs)
}

// MyChats lists the requester's visible chats with last-message and unread
// annotations.
func (s *Service) MyChats(userID uint, params query.Params) ([]models.ChatSummary, error) {
	return s.Storage.ListMyChats(userID, params)
}

// participantPair loads both participant rows of a chat. Either row missing
// reads as the chat not existing for the requester.
func (s *Service) participantPair(chatID string, userID, otherUserID uint) (*models.UserChatParticipant, *models.UserChatParticipant, error) {
	mine, err := s.Storage.GetParticipant(chatID, userID)
	if err != nil {
		return nil, nil, err
	}
	theirs, err := s.Storage.GetParticipant(chatID, otherUserID)
	if err != nil {
		return nil, nil, err
	}
	if mine == nil || theirs == nil {
		return nil, nil, apperr.NotFound("Chat not found.")
	}
	return mine, theirs, nil
}

// broadcastChatUpdate fans a new message out to the sender's and recipient's
// personal channels and the chat's own channel. Each party gets its own
// viewer-relative chat projection. Best effort only.
func (s *Service) broadcastChatUpdate(chatID string, senderID, recipientID uint, message *models.UserChatParticipantMessage) {
	chat, err := s.Storage.GetChatByID(chatID)
	if err != nil || chat == nil {
		log.Printf("WARNING: Failed to reload chat %s for fan-out: %v", chatID, err)
		return
	}

	senderPayload, err := SerializeChatForUpdate(chat, ViewerContext(senderID))
	if err != nil {
		log.Printf("WARNING: Failed to serialize chat %s: %v", chatID, err)
		return
	}
	recipientPayload, err := SerializeChatForUpdate(chat, ViewerContext(recipientID))
	if err != nil {
		log.Printf("WARNING: Failed to serialize chat %s: %v", chatID, err)
		return
	}
	messagePayload, err := SerializeMessage(message)
	if err != nil {
		log.Printf("WARNING: Failed to serialize message %s: %v", message.ID, err)
		return
	}
	s.FanOut.ChatUpdated(senderID, recipientID, chatID, senderPayload, recipientPayload, messagePayload)
}

func (s *Service) chatUpdatePayload(chatID string, viewerID uint) map[string]any {
	chat, err := s.Storage.GetChatByID(chatID)
	if err != nil || chat == nil {
		log.Printf("WARNING: Failed to reload chat %s for fan-out: %v", chatID, err)
		return nil
	}
	payload, err := SerializeChatForUpdate(chat, ViewerContext(viewerID))
	if err != nil {
		log.Printf("WARNING: Failed to serialize chat %s: %v", chatID, err)
		return nil
	}
	return payload
}
