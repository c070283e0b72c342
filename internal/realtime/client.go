package realtime

import "encoding/json"

// Event is one payload delivered on a logical channel. Payload is the
// serialized projection published by the notify package; the gateway never
// interprets it. Consumers must treat pushed payloads as hints and the next
// REST read as authoritative.
type Event struct {
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

// Client is the interface for one live connection. It abstracts the
// underlying transport so the manager can route events to WebSocket
// connections and test doubles uniformly.
type Client interface {
	// GetID returns the unique identifier of this connection.
	GetID() string
	// GetChannels returns the logical channel names this connection is
	// subscribed to.
	GetChannels() []string

	// GetSendChannel returns the channel the manager delivers events on.
	GetSendChannel() chan<- Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the connection and its channels.
	Close()
}
