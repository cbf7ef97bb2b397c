// Package engine fans decoded broadcast packets out to the daemon's sinks:
// JSONL log, WebSocket bridge, MQTT bridge and the watch view.
package engine

import (
	"context"

	"um7go/pkg/protocol"
)

// Hub is a single-goroutine pub/sub for broadcast packets. Slow subscribers
// drop packets instead of stalling the pipeline.
type Hub struct {
	broadcast  chan protocol.Broadcast
	register   chan subscription
	unregister chan chan protocol.Broadcast
	clients    map[chan protocol.Broadcast]subscription
	clientBuf  int
}

type subscription struct {
	ch    chan protocol.Broadcast
	kinds map[string]struct{}
}

// Option configures a Hub.
type Option func(*Hub)

// WithBroadcastBuffer sizes the intake channel.
func WithBroadcastBuffer(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.broadcast = make(chan protocol.Broadcast, size)
		}
	}
}

// WithClientBuffer sizes per-subscriber channels.
func WithClientBuffer(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.clientBuf = size
		}
	}
}

// NewHub builds a hub; call Run before subscribing.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		broadcast:  make(chan protocol.Broadcast, 256),
		register:   make(chan subscription),
		unregister: make(chan chan protocol.Broadcast),
		clients:    make(map[chan protocol.Broadcast]subscription),
		clientBuf:  64,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run dispatches until the context ends, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for ch := range h.clients {
				close(ch)
			}
			return
		case sub := <-h.register:
			h.clients[sub.ch] = sub
		case ch := <-h.unregister:
			if _, ok := h.clients[ch]; ok {
				delete(h.clients, ch)
				close(ch)
			}
		case pkt := <-h.broadcast:
			for ch, sub := range h.clients {
				if sub.kinds != nil {
					if _, ok := sub.kinds[pkt.Kind]; !ok {
						continue
					}
				}
				select {
				case ch <- pkt:
				default:
				}
			}
		}
	}
}

// Subscribe registers a consumer for every packet kind.
func (h *Hub) Subscribe() chan protocol.Broadcast {
	return h.SubscribeKinds()
}

// SubscribeKinds registers a consumer for the named packet kinds only;
// with no kinds it receives everything.
func (h *Hub) SubscribeKinds(kinds ...string) chan protocol.Broadcast {
	sub := subscription{ch: make(chan protocol.Broadcast, h.clientBuf)}
	if len(kinds) > 0 {
		sub.kinds = make(map[string]struct{}, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = struct{}{}
		}
	}
	h.register <- sub
	return sub.ch
}

// Unsubscribe removes and closes a subscriber channel.
func (h *Hub) Unsubscribe(ch chan protocol.Broadcast) {
	h.unregister <- ch
}

// Publish enqueues a packet for dispatch.
func (h *Hub) Publish(pkt protocol.Broadcast) {
	h.broadcast <- pkt
}
