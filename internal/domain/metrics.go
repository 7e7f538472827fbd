// Package domain
package domain

import "time"

type InterfaceSample struct {
	Name          string `json:"name"`
	ReceivedBytes uint64 `json:"received_bytes"`
	SentBytes     uint64 `json:"sent_bytes"`
}

// AggregateCounters is the sum of cumulative counters over the accepted
// interfaces at one poll instant. Values are only comparable within one
// monitoring session; an interface restart can move them backwards.
type AggregateCounters struct {
	TotalReceived uint64 `json:"total_received"`
	TotalSent     uint64 `json:"total_sent"`
}

type SpeedSnapshot struct {
	DownloadBytesPerSec uint64    `json:"download_bytes_per_sec"`
	UploadBytesPerSec   uint64    `json:"upload_bytes_per_sec"`
	DownloadLabel       string    `json:"download_label"`
	UploadLabel         string    `json:"upload_label"`
	History             []float64 `json:"history"`
	TodayLabel          string    `json:"today_label"`
	MonthLabel          string    `json:"month_label"`

	TodayReceived uint64 `json:"today_received"`
	TodaySent     uint64 `json:"today_sent"`
	MonthReceived uint64 `json:"month_received"`
	MonthSent     uint64 `json:"month_sent"`

	RecordedAt time.Time `json:"recorded_at"`
}

type ProcessTraffic struct {
	ProcessName   string `json:"process_name"`
	DownloadBytes uint64 `json:"download_bytes"`
	UploadBytes   uint64 `json:"upload_bytes"`
	Connections   int    `json:"connections,omitempty"`

	DownloadLabel string `json:"download_label,omitempty"`
	UploadLabel   string `json:"upload_label,omitempty"`
}

func (p ProcessTraffic) TotalBytes() uint64 {
	return p.DownloadBytes + p.UploadBytes
}

type ProcessSource string

const (
	ProcessSourceNone        ProcessSource = "none"
	ProcessSourceTraffic     ProcessSource = "traffic"
	ProcessSourceConnections ProcessSource = "connections"
)

type ProcessReport struct {
	Source     ProcessSource    `json:"source"`
	Processes  []ProcessTraffic `json:"processes"`
	RecordedAt time.Time        `json:"recorded_at"`
}

type NetworkHealth string

const (
	HealthDetecting NetworkHealth = "detecting"
	HealthGood      NetworkHealth = "good"
	HealthFair      NetworkHealth = "fair"
	HealthPoor      NetworkHealth = "poor"
)

const (
	LocalIPUnresolved = "unresolved"
	PublicIPPending   = "pending"
	PublicIPFailed    = "failed"
	PingPending       = "-- ms"
	PingTimeout       = "timeout"
)

type NetworkInfoSnapshot struct {
	LocalIP     string        `json:"local_ip"`
	PublicIP    string        `json:"public_ip"`
	WifiSSID    *string       `json:"wifi_ssid"`
	WifiSignal  *string       `json:"wifi_signal"`
	PingLatency string        `json:"ping_latency"`
	Health      NetworkHealth `json:"health"`
	PacketLoss  string        `json:"packet_loss"`
}

func InitialNetworkInfo() NetworkInfoSnapshot {
	return NetworkInfoSnapshot{
		LocalIP:     LocalIPUnresolved,
		PublicIP:    PublicIPPending,
		PingLatency: PingPending,
		Health:      HealthDetecting,
		PacketLoss:  "0%",
	}
}

// Subscriber receives published snapshots. Calls arrive on the publishing
// goroutine; UI consumers must hop to their own thread.
type Subscriber interface {
	OnSpeedUpdate(s SpeedSnapshot)
	OnInfoUpdate(s NetworkInfoSnapshot)
	OnProcessUpdate(p []ProcessTraffic)
}

// ProcessReportSubscriber is an optional extension for subscribers that also
// want to know which source produced the process list.
type ProcessReportSubscriber interface {
	OnProcessReport(r ProcessReport)
}
