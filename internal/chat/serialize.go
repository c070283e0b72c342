package chat

import (
	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/projection"
)

// ViewerContext builds the projection context for one viewer's chat payloads.
// The nested selections narrow each embedded entity; ViewerID decides which
// participant row is the viewer's own.
func ViewerContext(viewerID uint) projection.Context {
	return projection.Context{
		ViewerID: viewerID,
		Nested: map[string]projection.Selection{
			"chat":        {Fields: []string{"id", "created_at", "updated_at"}},
			"participant": {Exclude: []string{"user", "chat_id"}},
			"user":        {Fields: []string{"id", "username", "favorite_teams"}},
		},
	}
}

// counterpartPrivate lists the bookkeeping pointers that stay hidden on the
// other party's participant row. The flags themselves remain visible so the
// viewer can tell a blocked chat from an active one.
var counterpartPrivate = []string{"last_read_at", "last_deleted_at", "last_blocked_at"}

// SerializeChatForUpdate renders a chat for one viewer's "chat updates"
// channel: the chat frame plus each participant with only their user data and
// state flags, no message log.
func SerializeChatForUpdate(chat *models.UserChat, viewer projection.Context) (map[string]any, error) {
	tree, err := projection.Project(chat, viewer.For("chat"))
	if err != nil {
		return nil, err
	}

	participants := make([]map[string]any, 0, len(chat.Participants))
	for i := range chat.Participants {
		participant, err := serializeParticipant(&chat.Participants[i], viewer)
		if err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}
	tree["participants"] = participants
	return tree, nil
}

func serializeParticipant(p *models.UserChatParticipant, viewer projection.Context) (map[string]any, error) {
	sel := viewer.For("participant")
	if p.UserID != viewer.ViewerID {
		sel.Exclude = append(append([]string{}, sel.Exclude...), counterpartPrivate...)
	}

	tree, err := projection.Project(p, sel)
	if err != nil {
		return nil, err
	}
	user, err := projection.Project(&p.User, viewer.For("user"))
	if err != nil {
		return nil, err
	}
	tree["user"] = user
	return tree, nil
}

// SerializeMessage renders one message for the chat's own channel, dropping
// the heavy sender participant data.
func SerializeMessage(msg *models.UserChatParticipantMessage) (map[string]any, error) {
	return projection.Project(msg, projection.Selection{
		Exclude: []string{"receiver_id"},
	})
}

// SerializeSummaries renders an annotated chat listing for the viewer.
func SerializeSummaries(summaries []models.ChatSummary, viewer projection.Context) ([]map[string]any, error) {
	trees := make([]map[string]any, 0, len(summaries))
	for i := range summaries {
		tree, err := serializeSummary(&summaries[i], viewer)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

func serializeSummary(summary *models.ChatSummary, viewer projection.Context) (map[string]any, error) {
	tree, err := SerializeChatForUpdate(&summary.Chat, viewer)
	if err != nil {
		return nil, err
	}
	tree["last_message"] = summary.LastMessage
	tree["last_message_created_at"] = summary.LastMessageCreatedAt
	tree["unread_messages_count"] = summary.UnreadMessagesCount
	return tree, nil
}
