package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// Subscriber yields the stream of published events the gateway forwards.
// The Redis implementation pattern-subscribes to every notify channel.
type Subscriber interface {
	Subscribe() <-chan Event
}

// RedisSubscriber listens on the channel-name patterns the notify package
// publishes to.
type RedisSubscriber struct {
	Redis *redis.Client
	Ctx   context.Context
}

func NewRedisSubscriber(rdb *redis.Client) *RedisSubscriber {
	return &RedisSubscriber{Redis: rdb, Ctx: context.Background()}
}

func (s *RedisSubscriber) Subscribe() <-chan Event {
	pubsub := s.Redis.PSubscribe(s.Ctx, "users/*", "moderators/*")
	events := make(chan Event)

	go func() {
		defer pubsub.Close()
		for msg := range pubsub.Channel() {
			events <- Event{
				Channel: msg.Channel,
				Payload: json.RawMessage(msg.Payload),
			}
		}
		close(events)
	}()

	return events
}

// Manager routes published events to the live connections subscribed to
// their channels. Delivery is best effort: a slow client is dropped rather
// than allowed to stall the loop.
type Manager struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventCh      chan Event

	Subscriber Subscriber

	// subscriptions indexes client ids by channel name.
	subscriptions map[string]map[string]Client
}

// NewManager creates the gateway manager.
func NewManager(sub Subscriber) *Manager {
	return &Manager{
		Clients:       make(map[string]Client),
		RegisterCh:    make(chan Client),
		UnregisterCh:  make(chan Client),
		EventCh:       make(chan Event),
		Subscriber:    sub,
		subscriptions: make(map[string]map[string]Client),
	}
}

// Run is the main dispatcher goroutine.
func (m *Manager) Run() {
	if m.Subscriber != nil {
		go func() {
			for event := range m.Subscriber.Subscribe() {
				m.EventCh <- event
			}
		}()
	}

	for {
		select {
		case client := <-m.RegisterCh:
			m.register(client)

		case client := <-m.UnregisterCh:
			m.unregister(client)

		case event := <-m.EventCh:
			m.dispatch(event)
		}
	}
}

func (m *Manager) register(client Client) {
	m.Clients[client.GetID()] = client
	for _, channel := range client.GetChannels() {
		if m.subscriptions[channel] == nil {
			m.subscriptions[channel] = make(map[string]Client)
		}
		m.subscriptions[channel][client.GetID()] = client
	}
	log.Printf("INFO: Client %s connected (%d channels)", client.GetID(), len(client.GetChannels()))
}

func (m *Manager) unregister(client Client) {
	if _, ok := m.Clients[client.GetID()]; !ok {
		return
	}
	delete(m.Clients, client.GetID())
	for _, channel := range client.GetChannels() {
		delete(m.subscriptions[channel], client.GetID())
		if len(m.subscriptions[channel]) == 0 {
			delete(m.subscriptions, channel)
		}
	}
	client.Close()
}

func (m *Manager) dispatch(event Event) {
	for _, client := range m.subscriptions[event.Channel] {
		select {
		case client.GetSendChannel() <- event:
		default:
			// Slow consumer; drop the connection instead of blocking.
			m.unregister(client)
		}
	}
}
