// Package notify publishes projected view data to named logical channels
// whenever chat or inquiry state changes. Publishing is a best-effort side
// channel: failures are logged and never roll back the triggering mutation.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher delivers a payload to one named channel. No delivery guarantee
// is assumed by callers.
type Publisher interface {
	Publish(channel string, payload any) error
}

// RedisPublisher publishes JSON payloads over Redis Pub/Sub. Live gateways
// subscribe to the same channel names to push updates to browsers.
type RedisPublisher struct {
	Redis *redis.Client
	Ctx   context.Context
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{Redis: rdb, Ctx: context.Background()}
}

// Publish serializes the payload and publishes it on the channel.
func (p *RedisPublisher) Publish(channel string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.Redis.Publish(p.Ctx, channel, string(raw)).Err()
}

// Channel name formats. Personal channels are per-user; the chat and inquiry
// channels are per-thread and subscribed to by every party's live view.
func UserChatUpdatesChannel(userID uint) string {
	return fmt.Sprintf("users/%d/chats/updates", userID)
}

func ChatChannel(chatID string) string {
	return fmt.Sprintf("users/chats/%s", chatID)
}

func InquiryChannel(inquiryID string) string {
	return fmt.Sprintf("users/inquiries/%s", inquiryID)
}

func UserInquiryUpdatesChannel(userID uint) string {
	return fmt.Sprintf("users/%d/inquiries/updates", userID)
}

func ModeratorInquiryUpdatesChannel(moderatorID uint) string {
	return fmt.Sprintf("moderators/%d/inquiries/updates", moderatorID)
}

// FanOut distributes projections to every stakeholder of a state change.
type FanOut struct {
	Publisher Publisher
}

func NewFanOut(p Publisher) *FanOut {
	return &FanOut{Publisher: p}
}

func (f *FanOut) publish(channel string, payload any) {
	if err := f.Publisher.Publish(channel, payload); err != nil {
		log.Printf("WARNING: Failed to publish to channel %s: %v", channel, err)
	}
}

// ChatUpdated pushes each party's own chat projection to their personal
// channel and the new-message projection to the chat's own channel. The two
// chat payloads differ because the projection is viewer-relative.
func (f *FanOut) ChatUpdated(senderID, recipientID uint, chatID string, senderPayload, recipientPayload, messagePayload any) {
	f.publish(UserChatUpdatesChannel(senderID), senderPayload)
	f.publish(UserChatUpdatesChannel(recipientID), recipientPayload)
	f.publish(ChatChannel(chatID), messagePayload)
}

// ChatRead pushes the refreshed chat projection to the reader's personal
// channel only.
func (f *FanOut) ChatRead(readerID uint, chatPayload any) {
	f.publish(UserChatUpdatesChannel(readerID), chatPayload)
}

// ModeratorPayload pairs a moderator with the projection prepared for that
// moderator's visibility.
type ModeratorPayload struct {
	ModeratorID uint
	Payload     any
}

// InquiryUpdated pushes the new-message projection to the inquiry channel,
// the inquiry projection to the owner's personal channel, and each
// moderator-scoped projection to that moderator's personal channel.
func (f *FanOut) InquiryUpdated(inquiryID string, ownerID uint, messagePayload, inquiryPayload any, moderators []ModeratorPayload) {
	f.publish(InquiryChannel(inquiryID), messagePayload)
	f.publish(UserInquiryUpdatesChannel(ownerID), inquiryPayload)
	for _, moderator := range moderators {
		f.publish(ModeratorInquiryUpdatesChannel(moderator.ModeratorID), moderator.Payload)
	}
}
