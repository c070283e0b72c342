package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hooptalk/backend/internal/apperr"
	"hooptalk/backend/internal/inquiry"
	"hooptalk/backend/internal/localization"
)

// requestLanguage picks the inquiry type label language for the request.
func requestLanguage(c *gin.Context) string {
	return localization.PreferredLanguage(c.GetHeader("Accept-Language"))
}

// ListMyInquiries returns the requester's inquiries with last-message and
// unread annotations.
func (h *Handler) ListMyInquiries(c *gin.Context) {
	summaries, err := h.Inquiries.ListMine(currentUserID(c), queryParams(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	payload := make([]map[string]any, 0, len(summaries))
	for i := range summaries {
		tree, err := inquiry.SerializeSummaryForOwner(&summaries[i], requestLanguage(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		payload = append(payload, tree)
	}
	c.JSON(http.StatusOK, payload)
}

// GetInquiry returns one of the requester's inquiries.
func (h *Handler) GetInquiry(c *gin.Context) {
	summary, err := h.Inquiries.Get(currentUserID(c), c.Param("inquiryID"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	tree, err := inquiry.SerializeSummaryForOwner(summary, requestLanguage(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetInquiryMessages returns the inquiry's user and moderator message logs,
// each newest first and paged by the `before` cursor.
func (h *Handler) GetInquiryMessages(c *gin.Context) {
	userMessages, moderatorMessages, err := h.Inquiries.Messages(c.Param("inquiryID"), c.Query("before"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":           userMessages,
		"moderator_messages": moderatorMessages,
	})
}

// PostInquiryMessage appends a user-authored message to the inquiry.
func (h *Handler) PostInquiryMessage(c *gin.Context) {
	var payload inquiry.MessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required."})
		return
	}

	message, err := h.Inquiries.CreateMessage(c.Param("inquiryID"), payload)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// MarkInquiryAsRead stamps the owner's read pointer on the inquiry.
func (h *Handler) MarkInquiryAsRead(c *gin.Context) {
	if err := h.Inquiries.MarkAsRead(c.Param("inquiryID")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// requireModerator loads the acting user and rejects non-moderators.
func (h *Handler) requireModerator(c *gin.Context) (uint, bool) {
	userID := currentUserID(c)
	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		abortWithError(c, err)
		return 0, false
	}
	if user == nil || !user.IsModerator() {
		abortWithError(c, apperr.Unauthenticated("Moderator account required."))
		return 0, false
	}
	return userID, true
}

// ListInquiries returns every inquiry for the moderator console, each scoped
// to the requesting moderator's visibility: their own assignment's read
// state, no owner user data or unread count.
func (h *Handler) ListInquiries(c *gin.Context) {
	moderatorID, ok := h.requireModerator(c)
	if !ok {
		return
	}

	summaries, err := h.Storage.FindInquiries(queryParams(c), nil)
	if err != nil {
		abortWithError(c, err)
		return
	}

	payload := make([]map[string]any, 0, len(summaries))
	for i := range summaries {
		tree, err := inquiry.SerializeSummaryForModerator(&summaries[i], summaries[i].AssignmentFor(moderatorID), requestLanguage(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		payload = append(payload, tree)
	}
	c.JSON(http.StatusOK, payload)
}

// PostModeratorMessage appends a moderator-authored message, assigning the
// moderator to the inquiry on first engagement.
func (h *Handler) PostModeratorMessage(c *gin.Context) {
	moderatorID, ok := h.requireModerator(c)
	if !ok {
		return
	}

	var payload inquiry.MessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required."})
		return
	}

	message, err := h.Inquiries.CreateModeratorMessage(c.Param("inquiryID"), moderatorID, payload)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// MarkInquiryAsReadForModerator stamps the moderator's own read pointer on
// their assignment.
func (h *Handler) MarkInquiryAsReadForModerator(c *gin.Context) {
	moderatorID, ok := h.requireModerator(c)
	if !ok {
		return
	}

	if err := h.Inquiries.MarkAsReadForModerator(c.Param("inquiryID"), moderatorID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
