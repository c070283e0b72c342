package inquiry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hooptalk/backend/internal/apperr"
	"hooptalk/backend/internal/inquiry"
	"hooptalk/backend/internal/models"
	"hooptalk/backend/internal/notify"
)

// mockPublisher records every channel a payload was published to.
type mockPublisher struct {
	channels []string
}

func (p *mockPublisher) Publish(channel string, payload any) error {
	p.channels = append(p.channels, channel)
	return nil
}

func newTestService(storageMock *MockStorage) (*inquiry.Service, *mockPublisher) {
	publisher := &mockPublisher{}
	return inquiry.NewService(storageMock, notify.NewFanOut(publisher)), publisher
}

func testSummary(inquiryID string, ownerID uint, moderatorIDs ...uint) *models.InquirySummary {
	summary := &models.InquirySummary{
		Inquiry: models.Inquiry{
			ID:     inquiryID,
			UserID: ownerID,
			User:   models.User{ID: ownerID, Username: "owner"},
		},
	}
	for _, id := range moderatorIDs {
		summary.Moderators = append(summary.Moderators, models.ModeratorSummary{
			Assignment: models.InquiryModerator{
				ID:          "assignment-" + string(rune('0'+id)),
				InquiryID:   inquiryID,
				ModeratorID: id,
				Moderator:   models.User{ID: id},
			},
		})
	}
	return summary
}

// TestMessages_InvalidCursor verifies a cursor not matching the exact
// timestamp layout is rejected before any storage call.
func TestMessages_InvalidCursor(t *testing.T) {
	storageMock := new(MockStorage)
	service, _ := newTestService(storageMock)

	for _, cursor := range []string{"not-a-date", "2024-01-02", "2024-01-02T10:00:00Z", "2024-01-02 10:00:00.000000Z"} {
		_, _, err := service.Messages("inq-1", cursor)

		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), "cursor %q", cursor)
		assert.EqualError(t, err, "Invalid datetime string.")
	}
	storageMock.AssertNotCalled(t, "GetInquiryMessages", mock.Anything, mock.Anything, mock.Anything)
}

// TestMessages_ValidCursor verifies a well-formed cursor bounds both message
// logs and the page size leaves room for a next-page probe.
func TestMessages_ValidCursor(t *testing.T) {
	// Arrange
	storageMock := new(MockStorage)
	service, _ := newTestService(storageMock)

	cursor, err := time.Parse("2006-01-02T15:04:05.000000Z", "2024-03-10T18:30:00.123456Z")
	assert.NoError(t, err)

	storageMock.On("GetInquiryMessages", "inq-1", cursor, 26).
		Return([]models.InquiryChatMessage{{ID: "m1", UserType: "User"}}, nil)
	storageMock.On("GetInquiryModeratorMessages", "inq-1", cursor, 26).
		Return([]models.InquiryChatMessage{{ID: "m2", UserType: "Moderator"}}, nil)

	// Act
	userMessages, moderatorMessages, err := service.Messages("inq-1", "2024-03-10T18:30:00.123456Z")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, userMessages, 1)
	assert.Len(t, moderatorMessages, 1)
	assert.Equal(t, "User", userMessages[0].UserType)
	assert.Equal(t, "Moderator", moderatorMessages[0].UserType)
	storageMock.AssertExpectations(t)
}

// TestMessages_RequiresInquiryID verifies the empty-id guard.
func TestMessages_RequiresInquiryID(t *testing.T) {
	storageMock := new(MockStorage)
	service, _ := newTestService(storageMock)

	_, _, err := service.Messages("", "")

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

// TestGet_MissingInquiry verifies a missing or foreign inquiry maps to not
// found.
func TestGet_MissingInquiry(t *testing.T) {
	storageMock := new(MockStorage)
	service, _ := newTestService(storageMock)

	ownerID := uint(1)
	storageMock.On("FindInquiry", "inq-404", &ownerID).Return(nil, nil)

	_, err := service.Get(1, "inq-404")

	assert.True(t, apperr.IsNotFound(err))
}

// TestCreateMessage_RequiresBody verifies a missing inquiry id or blank
// message is rejected before any storage call.
func TestCreateMessage_RequiresBody(t *testing.T) {
	storageMock := new(MockStorage)
	service, _ := newTestService(storageMock)

	_, err := service.CreateMessage("", inquiry.MessagePayload{Message: "hi"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = service.CreateMessage("inq-1", inquiry.MessagePayload{Message: "   "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	storageMock.AssertNotCalled(t, "CreateInquiryMessage", mock.Anything)
}

// TestCreateMessage_PersistsAndBroadcasts verifies the message is written,
// recency is bumped and the update fans out to the inquiry channel, the
// owner's channel and every assigned moderator's channel.
func TestCreateMessage_PersistsAndBroadcasts(t *testing.T) {
	// Arrange
	storageMock := new(MockStorage)
	service, publisher := newTestService(storageMock)

	summary := testSummary("inq-1", 1, 5, 9)
	storageMock.On("FindInquiry", "inq-1", (*uint)(nil)).Return(summary, nil)
	storageMock.On("CreateInquiryMessage", mock.AnythingOfType("*models.InquiryMessage")).Return(nil)
	storageMock.On("TouchInquiry", "inq-1").Return(nil)

	// Act
	message, err := service.CreateMessage("inq-1", inquiry.MessagePayload{Message: "my account is stuck"})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "inq-1", message.InquiryID)
	assert.Contains(t, publisher.channels, "users/inquiries/inq-1")
	assert.Contains(t, publisher.channels, "users/1/inquiries/updates")
	assert.Contains(t, publisher.channels, "moderators/5/inquiries/updates")
	assert.Contains(t, publisher.channels, "moderators/9/inquiries/updates")
	storageMock.AssertExpectations(t)
}

// TestCreateModeratorMessage_RejectsNonModerator verifies an ordinary user
// cannot author a moderator message.
func TestCreateModeratorMessage_RejectsNonModerator(t *testing.T) {
	storageMock := new(MockStorage)
	service, _ := newTestService(storageMock)

	summary := testSummary("inq-1", 1)
	storageMock.On("FindInquiry", "inq-1", (*uint)(nil)).Return(summary, nil)
	storageMock.On("GetUserByID", uint(3)).Return(&models.User{
		ID:   3,
		Role: models.Role{Name: models.RoleNameUser},
	}, nil)

	_, err := service.CreateModeratorMessage("inq-1", 3, inquiry.MessagePayload{Message: "hello"})

	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	storageMock.AssertNotCalled(t, "AssignModerator", mock.Anything, mock.Anything)
	storageMock.AssertNotCalled(t, "CreateInquiryModeratorMessage", mock.Anything)
}

// TestCreateModeratorMessage_AssignsOnFirstEngagement verifies the moderator
// is attached to the inquiry before their first message lands on the
// assignment.
func TestCreateModeratorMessage_AssignsOnFirstEngagement(t *testing.T) {
	// Arrange
	storageMock := new(MockStorage)
	service, publisher := newTestService(storageMock)

	summary := testSummary("inq-1", 1, 5)
	assignment := &models.InquiryModerator{ID: "assignment-5", InquiryID: "inq-1", ModeratorID: 5}

	storageMock.On("FindInquiry", "inq-1", (*uint)(nil)).Return(summary, nil)
	storageMock.On("GetUserByID", uint(5)).Return(&models.User{
		ID:       5,
		Username: "mod",
		Role:     models.Role{Name: models.RoleNameModerator},
	}, nil)
	storageMock.On("AssignModerator", "inq-1", uint(5)).Return(assignment, nil)
	storageMock.On("CreateInquiryModeratorMessage", mock.AnythingOfType("*models.InquiryModeratorMessage")).Return(nil)
	storageMock.On("TouchInquiry", "inq-1").Return(nil)

	// Act
	message, err := service.CreateModeratorMessage("inq-1", 5, inquiry.MessagePayload{Message: "looking into it"})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "assignment-5", message.InquiryModeratorID)
	assert.Contains(t, publisher.channels, "users/inquiries/inq-1")
	assert.Contains(t, publisher.channels, "users/1/inquiries/updates")
	assert.Contains(t, publisher.channels, "moderators/5/inquiries/updates")
	storageMock.AssertExpectations(t)
}

// TestMarkAsRead_StampsOwnerPointer verifies the owner read mark reaches
// storage with a current timestamp.
func TestMarkAsRead_StampsOwnerPointer(t *testing.T) {
	storageMock := new(MockStorage)
	service, _ := newTestService(storageMock)

	var stamped time.Time
	storageMock.On("MarkInquiryAsRead", "inq-1", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { stamped = args.Get(1).(time.Time) }).
		Return(nil)

	err := service.MarkAsRead("inq-1")

	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), stamped, time.Second)
}

// TestMarkAsReadForModerator_StampsAssignmentPointer verifies the moderator
// read mark targets that moderator's assignment only.
func TestMarkAsReadForModerator_StampsAssignmentPointer(t *testing.T) {
	storageMock := new(MockStorage)
	service, _ := newTestService(storageMock)

	storageMock.On("MarkInquiryAsReadForModerator", "inq-1", uint(5), mock.AnythingOfType("time.Time")).Return(nil)

	err := service.MarkAsReadForModerator("inq-1", 5)

	assert.NoError(t, err)
	storageMock.AssertExpectations(t)
}

// TestBroadcast_FailedReloadDoesNotFail verifies fan-out problems never
// surface to the caller of a successful write.
func TestBroadcast_FailedReloadDoesNotFail(t *testing.T) {
	storageMock := new(MockStorage)
	service, publisher := newTestService(storageMock)

	summary := testSummary("inq-1", 1)
	storageMock.On("FindInquiry", "inq-1", (*uint)(nil)).Return(summary, nil).Once()
	storageMock.On("CreateInquiryMessage", mock.AnythingOfType("*models.InquiryMessage")).Return(nil)
	storageMock.On("TouchInquiry", "inq-1").Return(nil)
	storageMock.On("FindInquiry", "inq-1", (*uint)(nil)).Return(nil, assert.AnError)

	_, err := service.CreateMessage("inq-1", inquiry.MessagePayload{Message: "hello"})

	assert.NoError(t, err)
	assert.Empty(t, publisher.channels)
}
