package inquiry

import (
	"time"

	"hooptalk/backend/internal/localization"
	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/projection"
)

var userSelection = projection.Selection{Fields: []string{"id", "username"}}

// SerializeSummaryForOwner renders an annotated inquiry for the owning
// user's views and their personal updates channel. lang selects the inquiry
// type label.
func SerializeSummaryForOwner(summary *models.InquirySummary, lang string) (map[string]any, error) {
	tree, err := serializeInquiryFrame(summary, lang)
	if err != nil {
		return nil, err
	}

	user, err := projection.Project(&summary.Inquiry.User, userSelection)
	if err != nil {
		return nil, err
	}
	tree["user"] = user
	tree["unread_messages_count"] = summary.UnreadMessagesCount
	return tree, nil
}

// SerializeSummaryForModerator renders the inquiry for one moderator's
// personal updates channel and the moderator console. The requester's full
// user data and the owner's raw unread count are excluded from moderator
// visibility; the moderator's own read state comes from their assignment
// instead. A nil assignment means the moderator has not engaged yet.
func SerializeSummaryForModerator(summary *models.InquirySummary, assignment *models.InquiryModerator, lang string) (map[string]any, error) {
	tree, err := serializeInquiryFrame(summary, lang)
	if err != nil {
		return nil, err
	}

	var readAt *time.Time
	if assignment != nil {
		readAt = assignment.LastReadAt
	}
	tree["moderator_last_read_at"] = readAt
	return tree, nil
}

// serializeInquiryFrame is the rendering shared by both audiences: the
// inquiry row, its localized type names, the latest-message annotations and
// the per-assignment moderator summaries.
func serializeInquiryFrame(summary *models.InquirySummary, lang string) (map[string]any, error) {
	tree, err := projection.Project(&summary.Inquiry, projection.Selection{
		Exclude: []string{"user", "moderators", "last_read_at"},
	})
	if err != nil {
		return nil, err
	}

	inquiryType, err := projection.Project(&summary.Inquiry.InquiryType, projection.Selection{
		Exclude: []string{"display_names"},
	})
	if err != nil {
		return nil, err
	}
	inquiryType["display_name"] = localization.DisplayName(&summary.Inquiry.InquiryType, lang)
	tree["inquiry_type"] = inquiryType
	tree["last_message"] = summary.LastMessage
	tree["last_message_created_at"] = summary.LastMessageCreatedAt
	tree["last_moderator_message"] = summary.LastModeratorMessage
	tree["last_moderator_message_created_at"] = summary.LastModeratorMessageCreatedAt

	moderators := make([]map[string]any, 0, len(summary.Moderators))
	for i := range summary.Moderators {
		moderator, err := serializeModeratorSummary(&summary.Moderators[i])
		if err != nil {
			return nil, err
		}
		moderators = append(moderators, moderator)
	}
	tree["moderators"] = moderators
	return tree, nil
}

func serializeModeratorSummary(summary *models.ModeratorSummary) (map[string]any, error) {
	tree, err := projection.Project(&summary.Assignment, projection.Selection{
		Fields: []string{"id", "in_charge", "assigned_at"},
	})
	if err != nil {
		return nil, err
	}
	moderator, err := projection.Project(&summary.Assignment.Moderator, userSelection)
	if err != nil {
		return nil, err
	}
	tree["moderator"] = moderator
	tree["last_message"] = summary.LastMessage
	tree["last_message_created_at"] = summary.LastMessageCreatedAt
	return tree, nil
}

// serializeUserMessage flattens a user-authored message for the inquiry's
// live channel.
func serializeUserMessage(msg *models.InquiryMessage, author *models.User) map[string]any {
	return map[string]any{
		"id":         msg.ID,
		"message":    msg.Message,
		"user_type":  "User",
		"user_id":    author.ID,
		"username":   author.Username,
		"created_at": msg.CreatedAt,
	}
}

// serializeModeratorMessage flattens a moderator-authored message the same
// way, tagged with the moderator identity.
func serializeModeratorMessage(msg *models.InquiryModeratorMessage, author *models.User) map[string]any {
	return map[string]any{
		"id":         msg.ID,
		"message":    msg.Message,
		"user_type":  "Moderator",
		"user_id":    author.ID,
		"username":   author.Username,
		"created_at": msg.CreatedAt,
	}
}
