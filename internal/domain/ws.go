package domain

import "encoding/json"

const (
	WsChannelSpeed     = "speed"
	WsChannelInfo      = "info"
	WsChannelProcesses = "processes"
)

const (
	WsEventSpeedUpdated     = "speed_updated"
	WsEventInfoUpdated      = "info_updated"
	WsEventProcessesUpdated = "processes_updated"
)

const (
	WsSubscribe   = "subscribe"
	WsUnsubscribe = "unsubscribe"
)

type WsClientMessage struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type WsServerEvent struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

func IsWsChannel(channel string) bool {
	switch channel {
	case WsChannelSpeed, WsChannelInfo, WsChannelProcesses:
		return true
	}
	return false
}
