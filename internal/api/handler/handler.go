// Package handler exposes the lifecycle services over HTTP with gin.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hooptalk/backend/internal/apperr"
	"hooptalk/backend/internal/chat"
	"hooptalk/backend/internal/inquiry"
	"hooptalk/backend/internal/query"
	"hooptalk/backend/internal/realtime"
	"hooptalk/backend/internal/storage"
)

// Handler carries the wired services the routes dispatch to.
type Handler struct {
	Storage   storage.Storage
	Chats     *chat.Service
	Inquiries *inquiry.Service
	Manager   *realtime.Manager
	JWTSecret []byte
}

func NewHandler(s storage.Storage, chats *chat.Service, inquiries *inquiry.Service, manager *realtime.Manager, jwtSecret []byte) *Handler {
	return &Handler{
		Storage:   s,
		Chats:     chats,
		Inquiries: inquiries,
		Manager:   manager,
		JWTSecret: jwtSecret,
	}
}

// abortWithError renders a service error with the status its kind maps to.
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}

// queryParams extracts the untrusted list parameters from the request.
func queryParams(c *gin.Context) query.Params {
	return query.Params{
		Sort:   c.Query("sort"),
		Search: c.Query("search"),
		Roles:  c.Query("roles"),
	}
}

// pathUserID parses the :userID path segment.
func pathUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("userID"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user id."})
		return 0, false
	}
	return uint(id), true
}
