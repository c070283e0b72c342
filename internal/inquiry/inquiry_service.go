// Package inquiry owns support-inquiry threads between a user and the
// moderator pool: message logs, per-party read tracking and the annotated
// listing projections.
package inquiry

import (
	"log"
	"strings"
	"time"

	"hooptalk/backend/internal/apperr"
	"hooptalk/backend/internal/config"
	"hooptalk/backend/internal/localization"
	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/notify"
	"hooptalk/backend/internal/query"
	"hooptalk/backend/internal/storage"
)

// MessagePayload is the body of a create-message request.
type MessagePayload struct {
	Message string `json:"message"`
}

// Service handles the business logic for inquiries. The lifecycle is
// linear: created by a user, accruing messages from the user and from zero
// or more moderators, read-tracked independently per party.
type Service struct {
	Storage storage.Storage
	FanOut  *notify.FanOut
}

// NewService creates a new inquiry service.
func NewService(s storage.Storage, f *notify.FanOut) *Service {
	return &Service{Storage: s, FanOut: f}
}

// ListMine returns the user's inquiries, each annotated with the latest
// user-authored message, the latest moderator-authored message and the
// unread count of moderator messages newer than the inquiry's last_read_at.
func (s *Service) ListMine(userID uint, params query.Params) ([]models.InquirySummary, error) {
	return s.Storage.FindInquiries(params, &userID)
}

// Get returns one annotated inquiry owned by the user.
func (s *Service) Get(userID uint, inquiryID string) (*models.InquirySummary, error) {
	summary, err := s.Storage.FindInquiry(inquiryID, &userID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperr.NotFound("Inquiry not found.")
	}
	return summary, nil
}

// GetByID returns one annotated inquiry regardless of owner. Moderator-side
// views use this.
func (s *Service) GetByID(inquiryID string) (*models.InquirySummary, error) {
	summary, err := s.Storage.FindInquiry(inquiryID, nil)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, apperr.NotFound("Inquiry not found.")
	}
	return summary, nil
}

// Messages returns the two message logs of an inquiry — user-authored and
// moderator-authored — each newest-first and filtered to rows created
// strictly before the cursor timestamp. The sequences are deliberately
// unmerged; interleaving by time is the caller's concern. The cursor must
// parse exactly as 2006-01-02T15:04:05.000000Z.
func (s *Service) Messages(inquiryID, before string) ([]models.InquiryChatMessage, []models.InquiryChatMessage, error) {
	if inquiryID == "" {
		return nil, nil, apperr.Validation("Inquiry id is required.")
	}

	cursor := time.Now().UTC()
	if before != "" {
		parsed, err := time.Parse(config.CursorTimeLayout, before)
		if err != nil {
			return nil, nil, apperr.Validation("Invalid datetime string.")
		}
		cursor = parsed
	}

	userMessages, err := s.Storage.GetInquiryMessages(inquiryID, cursor, config.MessagePageSize+1)
	if err != nil {
		return nil, nil, err
	}
	moderatorMessages, err := s.Storage.GetInquiryModeratorMessages(inquiryID, cursor, config.MessagePageSize+1)
	if err != nil {
		return nil, nil, err
	}
	return userMessages, moderatorMessages, nil
}

// CreateMessage persists a user-authored message, bumps the inquiry's
// recency and fans the update out to the owner and every assigned moderator.
func (s *Service) CreateMessage(inquiryID string, payload MessagePayload) (*models.InquiryMessage, error) {
	if inquiryID == "" {
		return nil, apperr.Validation("Inquiry id is required.")
	}
	if strings.TrimSpace(payload.Message) == "" {
		return nil, apperr.Validation("Message is required.")
	}

	summary, err := s.GetByID(inquiryID)
	if err != nil {
		return nil, err
	}

	message := &models.InquiryMessage{
		InquiryID: inquiryID,
		Message:   payload.Message,
	}
	if err := s.Storage.CreateInquiryMessage(message); err != nil {
		return nil, err
	}
	if err := s.Storage.TouchInquiry(inquiryID); err != nil {
		log.Printf("WARNING: Failed to touch inquiry %s: %v", inquiryID, err)
	}

	s.broadcastInquiryUpdate(inquiryID, summary.Inquiry.UserID, serializeUserMessage(message, &summary.Inquiry.User))
	return message, nil
}

// CreateModeratorMessage persists a moderator-authored message on that
// moderator's assignment, creating the assignment on first engagement.
func (s *Service) CreateModeratorMessage(inquiryID string, moderatorID uint, payload MessagePayload) (*models.InquiryModeratorMessage, error) {
	if inquiryID == "" {
		return nil, apperr.Validation("Inquiry id is required.")
	}
	if strings.TrimSpace(payload.Message) == "" {
		return nil, apperr.Validation("Message is required.")
	}

	summary, err := s.GetByID(inquiryID)
	if err != nil {
		return nil, err
	}

	moderator, err := s.Storage.GetUserByID(moderatorID)
	if err != nil {
		return nil, err
	}
	if moderator == nil || !moderator.IsModerator() {
		return nil, apperr.Unauthenticated("Moderator account required.")
	}

	assignment, err := s.Storage.AssignModerator(inquiryID, moderatorID)
	if err != nil {
		return nil, err
	}

	message := &models.InquiryModeratorMessage{
		InquiryModeratorID: assignment.ID,
		Message:            payload.Message,
	}
	if err := s.Storage.CreateInquiryModeratorMessage(message); err != nil {
		return nil, err
	}
	if err := s.Storage.TouchInquiry(inquiryID); err != nil {
		log.Printf("WARNING: Failed to touch inquiry %s: %v", inquiryID, err)
	}

	s.broadcastInquiryUpdate(inquiryID, summary.Inquiry.UserID, serializeModeratorMessage(message, moderator))
	return message, nil
}

// MarkAsRead stamps the owner's last_read_at. Moderator read state lives on
// the assignment and is untouched here.
func (s *Service) MarkAsRead(inquiryID string) error {
	if inquiryID == "" {
		return apperr.Validation("Inquiry id is required.")
	}
	return s.Storage.MarkInquiryAsRead(inquiryID, time.Now().UTC())
}

// MarkAsReadForModerator stamps one moderator assignment's last_read_at,
// symmetric to the owner-side MarkAsRead.
func (s *Service) MarkAsReadForModerator(inquiryID string, moderatorID uint) error {
	if inquiryID == "" {
		return apperr.Validation("Inquiry id is required.")
	}
	return s.Storage.MarkInquiryAsReadForModerator(inquiryID, moderatorID, time.Now().UTC())
}

// Touch refreshes the inquiry's updated_at to bump recency ordering.
func (s *Service) Touch(inquiryID string) error {
	if inquiryID == "" {
		return apperr.Validation("Inquiry id is required.")
	}
	return s.Storage.TouchInquiry(inquiryID)
}

// broadcastInquiryUpdate re-reads the annotated inquiry and fans it out: the
// message to the inquiry channel, the owner-facing projection to the owner's
// channel, and a moderator-scoped projection to each assigned moderator's
// channel. Best effort only; failures never surface to the caller.
func (s *Service) broadcastInquiryUpdate(inquiryID string, ownerID uint, messagePayload map[string]any) {
	summary, err := s.Storage.FindInquiry(inquiryID, nil)
	if err != nil || summary == nil {
		log.Printf("WARNING: Failed to reload inquiry %s for fan-out: %v", inquiryID, err)
		return
	}

	ownerPayload, err := SerializeSummaryForOwner(summary, localization.DefaultLanguage)
	if err != nil {
		log.Printf("WARNING: Failed to serialize inquiry %s: %v", inquiryID, err)
		return
	}

	moderatorPayloads := make([]notify.ModeratorPayload, 0, len(summary.Moderators))
	for i := range summary.Moderators {
		assignment := &summary.Moderators[i].Assignment
		payload, err := SerializeSummaryForModerator(summary, assignment, localization.DefaultLanguage)
		if err != nil {
			log.Printf("WARNING: Failed to serialize inquiry %s for moderator %d: %v",
				inquiryID, assignment.ModeratorID, err)
			continue
		}
		moderatorPayloads = append(moderatorPayloads, notify.ModeratorPayload{
			ModeratorID: assignment.ModeratorID,
			Payload:     payload,
		})
	}

	s.FanOut.InquiryUpdated(inquiryID, ownerID, messagePayload, ownerPayload, moderatorPayloads)
}
