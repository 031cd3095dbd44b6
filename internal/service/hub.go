package service

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// FactType represents the type of a published fact
type FactType string

const (
	// Event lifecycle facts
	FactEventCreated FactType = "event.created"
	FactEventUpdated FactType = "event.updated"
	FactEventDeleted FactType = "event.deleted"

	// Seat facts
	FactSeatUpdated FactType = "seat.updated"

	// System facts
	FactHeartbeat FactType = "heartbeat"
)

// ChannelFirehose carries every published fact
const ChannelFirehose = "events"

// EventChannel returns the per-event channel name. Record IDs already carry
// the "event:" table prefix, so the channel is the record ID itself.
func EventChannel(eventID string) string {
	if strings.HasPrefix(eventID, "event:") {
		return eventID
	}
	return "event:" + eventID
}

// Fact represents a committed state change sent to SSE subscribers
type Fact struct {
	Type    FactType    `json:"type"`
	Data    interface{} `json:"data"`
	Channel string      `json:"-"` // Used for routing, not sent to client
}

// Format returns the SSE formatted string
func (f *Fact) Format() string {
	data, _ := json.Marshal(f.Data)
	return "event: " + string(f.Type) + "\ndata: " + string(data) + "\n\n"
}

// Subscriber represents a connected SSE client
type Subscriber struct {
	ID      string
	Channel string
	Facts   chan *Fact
	Done    chan struct{}
}

// Hub manages SSE subscriptions and fact broadcasting.
// Facts are published after commits land; a slow subscriber whose buffer
// is full misses the fact rather than blocking the publisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscriber // channel -> subscriberID -> subscriber
	bufferSize  int
	heartbeat   *time.Ticker
	done        chan struct{}
}

// NewHub creates a new hub with the given subscriber buffer size and
// heartbeat interval.
func NewHub(bufferSize int, heartbeatInterval time.Duration) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	if heartbeatInterval <= 0 {
		heartbeatInterval = 30 * time.Second
	}

	hub := &Hub{
		subscribers: make(map[string]map[string]*Subscriber),
		bufferSize:  bufferSize,
		done:        make(chan struct{}),
	}
	hub.heartbeat = time.NewTicker(heartbeatInterval)
	go hub.sendHeartbeats()
	return hub
}

// Subscribe adds a new subscriber for a channel
func (h *Hub) Subscribe(channel, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:      subscriberID,
		Channel: channel,
		Facts:   make(chan *Fact, h.bufferSize),
		Done:    make(chan struct{}),
	}

	if h.subscribers[channel] == nil {
		h.subscribers[channel] = make(map[string]*Subscriber)
	}
	h.subscribers[channel][subscriberID] = sub

	return sub
}

// Unsubscribe removes a subscriber
func (h *Hub) Unsubscribe(channel, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if channelSubs, ok := h.subscribers[channel]; ok {
		if sub, ok := channelSubs[subscriberID]; ok {
			close(sub.Done)
			close(sub.Facts)
			delete(channelSubs, subscriberID)
		}
		if len(channelSubs) == 0 {
			delete(h.subscribers, channel)
		}
	}
}

// Publish sends a fact to all subscribers of its channel
func (h *Hub) Publish(fact *Fact) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	channelSubs, ok := h.subscribers[fact.Channel]
	if !ok {
		return
	}

	for _, sub := range channelSubs {
		select {
		case sub.Facts <- fact:
			// Fact sent successfully
		default:
			// Buffer full, skip this subscriber
		}
	}
}

// sendHeartbeats sends periodic heartbeats to all subscribers
func (h *Hub) sendHeartbeats() {
	for {
		select {
		case <-h.heartbeat.C:
			h.mu.RLock()
			data := map[string]string{
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			}
			for channel, channelSubs := range h.subscribers {
				fact := &Fact{
					Type:    FactHeartbeat,
					Data:    data,
					Channel: channel,
				}
				for _, sub := range channelSubs {
					select {
					case sub.Facts <- fact:
					default:
					}
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			return
		}
	}
}

// Close stops the hub and disconnects all subscribers
func (h *Hub) Close() {
	close(h.done)
	h.heartbeat.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for channel, channelSubs := range h.subscribers {
		for _, sub := range channelSubs {
			close(sub.Done)
			close(sub.Facts)
		}
		delete(h.subscribers, channel)
	}
}

// SubscriberCount returns the number of subscribers for a channel
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if channelSubs, ok := h.subscribers[channel]; ok {
		return len(channelSubs)
	}
	return 0
}
