package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUsers returns visible profiles filtered and ordered by the request's
// sort/search/roles parameters. Unrecognized values are dropped, never
// rejected.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Storage.ListUsers(queryParams(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns one user's profile.
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		return
	}
	c.JSON(http.StatusOK, user)
}

// viewerSeesDeleted reports whether the acting user is a moderator, whose
// post and comment listings include soft-deleted rows.
func (h *Handler) viewerSeesDeleted(c *gin.Context) bool {
	user, err := h.Storage.GetUserByID(currentUserID(c))
	return err == nil && user != nil && user.IsModerator()
}

// ListUserPosts returns a user's posts. Ordinary viewers never see
// soft-deleted rows; moderators do.
func (h *Handler) ListUserPosts(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	posts, err := h.Storage.ListUserPosts(userID, queryParams(c), h.viewerSeesDeleted(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ListUserComments returns a user's comments, widened like ListUserPosts for
// moderators.
func (h *Handler) ListUserComments(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	comments, err := h.Storage.ListUserComments(userID, queryParams(c), h.viewerSeesDeleted(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// LikeUser records the requester's like of another user. Liking twice is a
// no-op.
func (h *Handler) LikeUser(c *gin.Context) {
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	count, err := h.Storage.CreateUserLike(currentUserID(c), targetID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"likes_count": count})
}

// UnlikeUser removes the requester's like of another user.
func (h *Handler) UnlikeUser(c *gin.Context) {
	targetID, ok := pathUserID(c)
	if !ok {
		return
	}

	if err := h.Storage.DeleteUserLike(currentUserID(c), targetID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
