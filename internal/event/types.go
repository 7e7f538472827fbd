package event

import "netspeed-monitor/internal/domain"

type Type string

const (
	SpeedUpdated     Type = "speed_updated"
	InfoUpdated      Type = "info_updated"
	ProcessesUpdated Type = "processes_updated"
)

type Event struct {
	Type    Type
	Payload any
}

func Speed(s domain.SpeedSnapshot) Event {
	return Event{Type: SpeedUpdated, Payload: s}
}

func Info(s domain.NetworkInfoSnapshot) Event {
	return Event{Type: InfoUpdated, Payload: s}
}

func Processes(r domain.ProcessReport) Event {
	return Event{Type: ProcessesUpdated, Payload: r}
}

// Dispatch hands ev to the matching Subscriber callback.
func Dispatch(sub domain.Subscriber, ev Event) {
	switch p := ev.Payload.(type) {
	case domain.SpeedSnapshot:
		sub.OnSpeedUpdate(p)
	case domain.NetworkInfoSnapshot:
		sub.OnInfoUpdate(p)
	case domain.ProcessReport:
		if rs, ok := sub.(domain.ProcessReportSubscriber); ok {
			rs.OnProcessReport(p)
			return
		}
		sub.OnProcessUpdate(p.Processes)
	}
}
