package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hooptalk/backend/internal/chat"
)

// ListMyChats returns the requester's visible chats with last-message and
// unread annotations.
func (h *Handler) ListMyChats(c *gin.Context) {
	viewerID := currentUserID(c)
	summaries, err := h.Chats.MyChats(viewerID, queryParams(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	payload, err := chat.SerializeSummaries(summaries, chat.ViewerContext(viewerID))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// EnableChat creates or re-enables the chat between the requester and the
// target user.
func (h *Handler) EnableChat(c *gin.Context) {
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	enabled, err := h.Chats.Enable(currentUserID(c), targetID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": enabled.ID})
}

// DeleteChat soft-deletes the chat on the requester's side only.
func (h *Handler) DeleteChat(c *gin.Context) {
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	if err := h.Chats.Delete(currentUserID(c), targetID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BlockChat blocks the chat on the requester's side only.
func (h *Handler) BlockChat(c *gin.Context) {
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	if err := h.Chats.Block(currentUserID(c), targetID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkChatAsRead stamps the requester's read pointer in the chat.
func (h *Handler) MarkChatAsRead(c *gin.Context) {
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	if _, err := h.Chats.MarkAsRead(currentUserID(c), targetID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetChatMessages returns the visible message log of the requester's chat
// with the target user, newest first and paged by the `before` cursor.
func (h *Handler) GetChatMessages(c *gin.Context) {
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	messages, err := h.Chats.Messages(currentUserID(c), targetID, c.Query("before"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	payload := make([]map[string]any, 0, len(messages))
	for i := range messages {
		tree, err := chat.SerializeMessage(&messages[i])
		if err != nil {
			abortWithError(c, err)
			return
		}
		payload = append(payload, tree)
	}
	c.JSON(http.StatusOK, payload)
}

// PostChatMessage appends a message to the requester's chat with the target
// user.
func (h *Handler) PostChatMessage(c *gin.Context) {
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required."})
		return
	}

	message, _, err := h.Chats.SendMessage(currentUserID(c), targetID, body.Message)
	if err != nil {
		abortWithError(c, err)
		return
	}

	tree, err := chat.SerializeMessage(message)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tree)
}
