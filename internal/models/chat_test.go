package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"hooptalk/backend/internal/models"
)

// TestVisibilityFloor_LaterOfDeleteAndBlock verifies the floor picks the most
// recent of the two timestamps.
func TestVisibilityFloor_LaterOfDeleteAndBlock(t *testing.T) {
	earlier := time.Now().Add(-2 * time.Hour)
	later := time.Now().Add(-10 * time.Minute)

	p := models.UserChatParticipant{LastDeletedAt: &earlier, LastBlockedAt: &later}
	assert.Equal(t, &later, p.VisibilityFloor())

	p = models.UserChatParticipant{LastDeletedAt: &later, LastBlockedAt: &earlier}
	assert.Equal(t, &later, p.VisibilityFloor())
}

// TestVisibilityFloor_SingleTimestamp verifies one-sided history still yields
// a floor.
func TestVisibilityFloor_SingleTimestamp(t *testing.T) {
	stamp := time.Now().Add(-time.Hour)

	p := models.UserChatParticipant{LastDeletedAt: &stamp}
	assert.Equal(t, &stamp, p.VisibilityFloor())

	p = models.UserChatParticipant{LastBlockedAt: &stamp}
	assert.Equal(t, &stamp, p.VisibilityFloor())
}

// TestVisibilityFloor_NeverClosed verifies a clean participant has no floor.
func TestVisibilityFloor_NeverClosed(t *testing.T) {
	p := models.UserChatParticipant{}
	assert.Nil(t, p.VisibilityFloor())
}

// TestChatBeforeCreate_GeneratesUUID verifies the BeforeCreate hooks populate
// valid ids and preserve existing ones.
func TestChatBeforeCreate_GeneratesUUID(t *testing.T) {
	chat := &models.UserChat{}
	assert.NoError(t, chat.BeforeCreate(nil))
	_, err := uuid.Parse(chat.ID)
	assert.NoError(t, err, "chat ID must be a valid UUID")

	existing := uuid.New().String()
	chat = &models.UserChat{ID: existing}
	assert.NoError(t, chat.BeforeCreate(nil))
	assert.Equal(t, existing, chat.ID, "BeforeCreate should preserve existing ID")

	participant := &models.UserChatParticipant{}
	assert.NoError(t, participant.BeforeCreate(nil))
	_, err = uuid.Parse(participant.ID)
	assert.NoError(t, err)

	message := &models.UserChatParticipantMessage{}
	assert.NoError(t, message.BeforeCreate(nil))
	_, err = uuid.Parse(message.ID)
	assert.NoError(t, err)
}
