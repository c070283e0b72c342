package storage

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/query"
)

const moderatorMessageJoin = "JOIN inquiry_moderators im ON im.id = inquiry_moderator_messages.inquiry_moderator_id"

type inquiryRow struct {
	models.Inquiry
	LastMessage                   *string
	LastMessageCreatedAt          *time.Time
	LastModeratorMessage          *string
	LastModeratorMessageCreatedAt *time.Time
	UnreadMessagesCount           int64
}

type moderatorRow struct {
	models.InquiryModerator
	LastMessage          *string
	LastMessageCreatedAt *time.Time
}

// annotatedInquiries builds the inquiry listing query with the three
// correlated projections the views need: latest user-authored message,
// latest moderator-authored message, and the owner's unread count.
func (s *Service) annotatedInquiries(params query.Params, opts ...query.Option) *gorm.DB {
	lastMessage := s.latestChild(
		&models.InquiryMessage{},
		"message",
		"inquiry_messages.inquiry_id = inquiries.id",
	)
	lastMessageAt := s.latestChild(
		&models.InquiryMessage{},
		"created_at",
		"inquiry_messages.inquiry_id = inquiries.id",
	)
	lastModeratorMessage := s.latestChild(
		&models.InquiryModeratorMessage{},
		"message",
		"im.inquiry_id = inquiries.id",
		moderatorMessageJoin,
	)
	lastModeratorMessageAt := s.latestChild(
		&models.InquiryModeratorMessage{},
		"inquiry_moderator_messages.created_at",
		"im.inquiry_id = inquiries.id",
		moderatorMessageJoin,
	)
	// A null last_read_at means the owner has read nothing yet, so every
	// moderator message counts as unread.
	unread := s.newDB().Model(&models.InquiryModeratorMessage{}).
		Select("count(*)").
		Joins(moderatorMessageJoin).
		Where("im.inquiry_id = inquiries.id").
		Where("inquiry_moderator_messages.created_at > COALESCE(inquiries.last_read_at, to_timestamp(0))")

	return query.Build(s.DB, query.EntityInquiry, params, opts...).
		Select("inquiries.*, (?) AS last_message, (?) AS last_message_created_at, (?) AS last_moderator_message, (?) AS last_moderator_message_created_at, (?) AS unread_messages_count",
			lastMessage, lastMessageAt, lastModeratorMessage, lastModeratorMessageAt, unread)
}

// FindInquiries lists inquiries with their annotations, scoped to one owner
// when ownerID is set.
func (s *Service) FindInquiries(params query.Params, ownerID *uint) ([]models.InquirySummary, error) {
	var opts []query.Option
	if ownerID != nil {
		opts = append(opts, query.WithFilter("user_id", *ownerID))
	}

	var rows []inquiryRow
	if err := s.annotatedInquiries(params, opts...).Scan(&rows).Error; err != nil {
		log.Printf("ERROR: Failed to list inquiries: %v", err)
		return nil, err
	}
	return s.buildSummaries(rows)
}

// FindInquiry loads one annotated inquiry. Returns nil without error when it
// does not exist (or is not owned by ownerID when set).
func (s *Service) FindInquiry(inquiryID string, ownerID *uint) (*models.InquirySummary, error) {
	opts := []query.Option{query.WithFilter("inquiries.id", inquiryID)}
	if ownerID != nil {
		opts = append(opts, query.WithFilter("user_id", *ownerID))
	}

	var rows []inquiryRow
	if err := s.annotatedInquiries(query.Params{}, opts...).Limit(1).Scan(&rows).Error; err != nil {
		log.Printf("ERROR: Failed to get inquiry %s: %v", inquiryID, err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	summaries, err := s.buildSummaries(rows)
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

// buildSummaries stitches inquiry rows with their users, types and
// per-assignment moderator annotations.
func (s *Service) buildSummaries(rows []inquiryRow) ([]models.InquirySummary, error) {
	summaries := make([]models.InquirySummary, 0, len(rows))
	for _, row := range rows {
		inquiry := row.Inquiry

		if err := s.DB.Preload("Role").First(&inquiry.User, inquiry.UserID).Error; err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.DB.Preload("DisplayNames").First(&inquiry.InquiryType, inquiry.InquiryTypeID).Error; err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		moderators, err := s.moderatorSummaries(inquiry.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, models.InquirySummary{
			Inquiry:                       inquiry,
			LastMessage:                   row.LastMessage,
			LastMessageCreatedAt:          row.LastMessageCreatedAt,
			LastModeratorMessage:          row.LastModeratorMessage,
			LastModeratorMessageCreatedAt: row.LastModeratorMessageCreatedAt,
			UnreadMessagesCount:           row.UnreadMessagesCount,
			Moderators:                    moderators,
		})
	}
	return summaries, nil
}

// moderatorSummaries returns each assignment with that assignment's own
// latest message, computed per inquiry_moderator row.
func (s *Service) moderatorSummaries(inquiryID string) ([]models.ModeratorSummary, error) {
	lastMessage := s.latestChild(
		&models.InquiryModeratorMessage{},
		"message",
		"inquiry_moderator_messages.inquiry_moderator_id = inquiry_moderators.id",
	)
	lastMessageAt := s.latestChild(
		&models.InquiryModeratorMessage{},
		"created_at",
		"inquiry_moderator_messages.inquiry_moderator_id = inquiry_moderators.id",
	)

	var rows []moderatorRow
	err := s.DB.Model(&models.InquiryModerator{}).
		Select("inquiry_moderators.*, (?) AS last_message, (?) AS last_message_created_at",
			lastMessage, lastMessageAt).
		Where("inquiry_id = ?", inquiryID).
		Order("assigned_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ModeratorSummary, 0, len(rows))
	for _, row := range rows {
		assignment := row.InquiryModerator
		if err := s.DB.Preload("Role").First(&assignment.Moderator, assignment.ModeratorID).Error; err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		summaries = append(summaries, models.ModeratorSummary{
			Assignment:           assignment,
			LastMessage:          row.LastMessage,
			LastMessageCreatedAt: row.LastMessageCreatedAt,
		})
	}
	return summaries, nil
}

// GetInquiryMessages returns the owner's messages for an inquiry, newest
// first, created strictly before the cursor timestamp.
func (s *Service) GetInquiryMessages(inquiryID string, before time.Time, limit int) ([]models.InquiryChatMessage, error) {
	var messages []models.InquiryChatMessage
	err := s.DB.Model(&models.InquiryMessage{}).
		Select("inquiry_messages.id, inquiry_messages.message, 'User' AS user_type, users.id AS user_id, users.username AS username, inquiry_messages.created_at").
		Joins("JOIN inquiries ON inquiries.id = inquiry_messages.inquiry_id").
		Joins("JOIN users ON users.id = inquiries.user_id").
		Where("inquiry_messages.inquiry_id = ?", inquiryID).
		Where("inquiry_messages.created_at < ?", before).
		Order("inquiry_messages.created_at DESC").
		Limit(limit).
		Scan(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to get messages for inquiry %s: %v", inquiryID, err)
		return nil, err
	}
	return messages, nil
}

// GetInquiryModeratorMessages is the moderator-side counterpart of
// GetInquiryMessages, spanning every assignment on the inquiry.
func (s *Service) GetInquiryModeratorMessages(inquiryID string, before time.Time, limit int) ([]models.InquiryChatMessage, error) {
	var messages []models.InquiryChatMessage
	err := s.DB.Model(&models.InquiryModeratorMessage{}).
		Select("inquiry_moderator_messages.id, inquiry_moderator_messages.message, 'Moderator' AS user_type, users.id AS user_id, users.username AS username, inquiry_moderator_messages.created_at").
		Joins(moderatorMessageJoin).
		Joins("JOIN users ON users.id = im.moderator_id").
		Where("im.inquiry_id = ?", inquiryID).
		Where("inquiry_moderator_messages.created_at < ?", before).
		Order("inquiry_moderator_messages.created_at DESC").
		Limit(limit).
		Scan(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to get moderator messages for inquiry %s: %v", inquiryID, err)
		return nil, err
	}
	return messages, nil
}

func (s *Service) CreateInquiryMessage(msg *models.InquiryMessage) error {
	return s.DB.Create(msg).Error
}

func (s *Service) CreateInquiryModeratorMessage(msg *models.InquiryModeratorMessage) error {
	return s.DB.Create(msg).Error
}

// MarkInquiryAsRead stamps the owner's last_read_at.
func (s *Service) MarkInquiryAsRead(inquiryID string, at time.Time) error {
	return s.DB.Model(&models.Inquiry{}).
		Where("id = ?", inquiryID).
		Update("last_read_at", at).Error
}

// MarkInquiryAsReadForModerator stamps one assignment's last_read_at.
func (s *Service) MarkInquiryAsReadForModerator(inquiryID string, moderatorID uint, at time.Time) error {
	return s.DB.Model(&models.InquiryModerator{}).
		Where("inquiry_id = ? AND moderator_id = ?", inquiryID, moderatorID).
		Update("last_read_at", at).Error
}

// TouchInquiry refreshes the inquiry's updated_at without other changes, to
// bump recency ordering after moderator activity.
func (s *Service) TouchInquiry(inquiryID string) error {
	return s.DB.Model(&models.Inquiry{}).
		Where("id = ?", inquiryID).
		Update("updated_at", time.Now().UTC()).Error
}

func (s *Service) GetInquiryModerators(inquiryID string) ([]models.InquiryModerator, error) {
	var moderators []models.InquiryModerator
	err := s.DB.Preload("Moderator").Where("inquiry_id = ?", inquiryID).Find(&moderators).Error
	if err != nil {
		return nil, err
	}
	return moderators, nil
}

// AssignModerator attaches a moderator to an inquiry, reusing the existing
// assignment when the moderator has engaged before.
func (s *Service) AssignModerator(inquiryID string, moderatorID uint) (*models.InquiryModerator, error) {
	assignment := models.InquiryModerator{InquiryID: inquiryID, ModeratorID: moderatorID}
	err := s.DB.
		Where("inquiry_id = ? AND moderator_id = ?", inquiryID, moderatorID).
		Clauses(clause.OnConflict{DoNothing: true}).
		FirstOrCreate(&assignment).Error
	if err != nil {
		log.Printf("ERROR: Failed to assign moderator %d to inquiry %s: %v", moderatorID, inquiryID, err)
		return nil, err
	}
	return &assignment, nil
}
