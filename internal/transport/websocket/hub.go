// Package websocket pushes monitor updates to browser and menu-bar clients
// subscribed to the speed, info and processes channels.
package websocket

import (
	"context"
	"encoding/json"

	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/logger"
)

// Snapshotter returns the current value of a channel so a new subscriber
// does not wait for the next update.
type Snapshotter func(channel string) (any, bool)

type Hub struct {
	ctx    context.Context
	cancel context.CancelFunc

	clients  map[*Client]bool
	channels map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription
	events      chan *domain.WsServerEvent

	snapshot Snapshotter
	log      logger.Logger
}

type Subscription struct {
	client  *Client
	channel string
}

func NewHub(parent context.Context, log logger.Logger, snapshot Snapshotter) *Hub {
	ctx, cancel := context.WithCancel(parent)

	return &Hub{
		ctx:    ctx,
		cancel: cancel,

		clients:  make(map[*Client]bool),
		channels: make(map[string]map[*Client]bool),

		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
		subscribe:   make(chan *Subscription, 64),
		unsubscribe: make(chan *Subscription, 64),
		events:      make(chan *domain.WsServerEvent, 256),

		snapshot: snapshot,
		log:      log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.log.Info("ws: hub shutting down")
			for client := range h.clients {
				close(client.send)
			}
			return

		case c := <-h.register:
			h.add(c)

		case c := <-h.unregister:
			h.remove(c)

		case sub := <-h.subscribe:
			// register and subscribe travel on different channels, so the
			// first subscription may overtake its registration.
			if !h.add(sub.client) {
				continue
			}
			if h.channels[sub.channel] == nil {
				h.channels[sub.channel] = make(map[*Client]bool)
			}
			h.channels[sub.channel][sub.client] = true
			h.log.Debug("ws: client subscribed", "id", sub.client.ID, "channel", sub.channel)
			h.sendCurrent(sub)

		case sub := <-h.unsubscribe:
			if subs, ok := h.channels[sub.channel]; ok {
				delete(subs, sub.client)
				if len(subs) == 0 {
					delete(h.channels, sub.channel)
				}
				h.log.Debug("ws: client unsubscribed", "id", sub.client.ID, "channel", sub.channel)
			}

		case ev := <-h.events:
			h.handleEvent(ev)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// Broadcast queues ev for delivery. It never blocks the publisher; when the
// queue is full the event is dropped.
func (h *Hub) Broadcast(ev *domain.WsServerEvent) {
	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	default:
		h.log.Warn("ws: broadcast buffer full, dropping event", "event", ev.Event)
	}
}

func (h *Hub) OnSpeedUpdate(s domain.SpeedSnapshot) {
	h.Broadcast(&domain.WsServerEvent{Channel: domain.WsChannelSpeed, Event: domain.WsEventSpeedUpdated, Payload: s})
}

func (h *Hub) OnInfoUpdate(s domain.NetworkInfoSnapshot) {
	h.Broadcast(&domain.WsServerEvent{Channel: domain.WsChannelInfo, Event: domain.WsEventInfoUpdated, Payload: s})
}

func (h *Hub) OnProcessUpdate(p []domain.ProcessTraffic) {
	h.Broadcast(&domain.WsServerEvent{Channel: domain.WsChannelProcesses, Event: domain.WsEventProcessesUpdated, Payload: p})
}

func (h *Hub) OnProcessReport(r domain.ProcessReport) {
	h.Broadcast(&domain.WsServerEvent{Channel: domain.WsChannelProcesses, Event: domain.WsEventProcessesUpdated, Payload: r})
}

// add registers c unless it already left. It reports whether c is live.
func (h *Hub) add(c *Client) bool {
	if c.gone {
		return false
	}
	if !h.clients[c] {
		h.clients[c] = true
		h.log.Info("ws: client registered", "id", c.ID, "total_clients", len(h.clients))
	}
	return true
}

func (h *Hub) remove(c *Client) {
	if c.gone {
		return
	}
	c.gone = true
	close(c.send)

	if !h.clients[c] {
		h.log.Debug("ws: client left before registering", "id", c.ID)
		return
	}

	delete(h.clients, c)
	h.log.Info("ws: client unregistered", "id", c.ID, "total_clients", len(h.clients))

	for chID, subs := range h.channels {
		if _, subscribed := subs[c]; subscribed {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.channels, chID)
			}
		}
	}
}

func (h *Hub) sendCurrent(sub *Subscription) {
	if h.snapshot == nil {
		return
	}

	payload, ok := h.snapshot(sub.channel)
	if !ok {
		return
	}

	message, err := json.Marshal(&domain.WsServerEvent{
		Channel: sub.channel,
		Event:   eventFor(sub.channel),
		Payload: payload,
	})
	if err != nil {
		h.log.Error("ws: failed to marshal snapshot", "error", err)
		return
	}

	select {
	case sub.client.send <- message:
	default:
		h.remove(sub.client)
	}
}

func (h *Hub) enqueue(ch chan *Subscription, sub *Subscription) {
	select {
	case ch <- sub:
	case <-h.ctx.Done():
	}
}

func (h *Hub) handleEvent(ev *domain.WsServerEvent) {
	subs, ok := h.channels[ev.Channel]
	if !ok {
		return
	}

	message, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("ws: failed to marshal server event", "error", err)
		return
	}

	for client := range subs {
		select {
		case client.send <- message:
		default:
			h.log.Warn("ws: client channel full, force unregister", "id", client.ID)
			h.remove(client)
		}
	}
}

func eventFor(channel string) string {
	switch channel {
	case domain.WsChannelSpeed:
		return domain.WsEventSpeedUpdated
	case domain.WsChannelInfo:
		return domain.WsEventInfoUpdated
	case domain.WsChannelProcesses:
		return domain.WsEventProcessesUpdated
	}
	return ""
}
