package realtime_test

import (
	"hooptalk/backend/internal/realtime"
)

type MockClient struct {
	id          string
	channels    []string
	closed      bool
	RecvChannel chan realtime.Event
}

func newMockClient(id string, channels ...string) *MockClient {
	return &MockClient{
		id:          id,
		channels:    channels,
		RecvChannel: make(chan realtime.Event, 10),
	}
}

func (c *MockClient) GetID() string { return c.id }

func (c *MockClient) GetChannels() []string { return c.channels }

func (c *MockClient) GetSendChannel() chan<- realtime.Event { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}
