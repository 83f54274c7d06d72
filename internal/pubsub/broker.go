package pubsub

import (
	"sync"

	"github.com/google/uuid"
)

// Broker is the in-process fan-out between the message store and anything
// watching a conversation or the roster. Subscribers own an explicit handle
// and close it themselves; there is no implicit single-listener slot.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[string]*Subscription // topic -> subscription id
}

// Event is one push notification. Payload is a service-defined envelope.
type Event struct {
	Topic   string
	Payload interface{}
}

type Subscription struct {
	id     string
	topic  string
	events chan Event
	broker *Broker

	mu     sync.Mutex
	closed bool
}

const subscriptionBuffer = 64

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[string]*Subscription),
	}
}

func (b *Broker) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		id:     uuid.NewString(),
		topic:  topic,
		events: make(chan Event, subscriptionBuffer),
		broker: b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]*Subscription)
	}
	b.subs[topic][sub.id] = sub

	return sub
}

// Publish delivers the payload to every live subscriber of the topic, in call
// order. A subscriber whose buffer is full is dropped rather than allowed to
// block the publisher.
func (b *Broker) Publish(topic string, payload interface{}) {
	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.subs[topic]))
	for _, sub := range b.subs[topic] {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		if !sub.send(Event{Topic: topic, Payload: payload}) {
			sub.Close()
		}
	}
}

func (b *Broker) remove(topic, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.subs[topic]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(b.subs, topic)
		}
	}
}

// Events is the receive side of the subscription. It is closed when the
// subscription is torn down.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close tears the subscription down. Safe to call more than once and safe to
// call concurrently with Publish.
func (s *Subscription) Close() {
	s.broker.remove(s.topic, s.id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

// send reports false when the subscriber buffer is full. Sends to a closed
// subscription are silently discarded.
func (s *Subscription) send(e Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return true
	}

	select {
	case s.events <- e:
		return true
	default:
		return false
	}
}
