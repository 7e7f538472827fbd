package rest

import (
	"net/http"

	"netspeed-monitor/internal/domain"
)

type Monitor interface {
	Speed() domain.SpeedSnapshot
	Info() domain.NetworkInfoSnapshot
	Processes() domain.ProcessReport
	ResetDaily()
	ResetMonthly()
}

type MonitorHandler struct {
	mon Monitor
}

func NewMonitorHandler(mon Monitor) *MonitorHandler {
	return &MonitorHandler{mon: mon}
}

func (h *MonitorHandler) Speed(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    h.mon.Speed(),
	})
}

func (h *MonitorHandler) Info(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    h.mon.Info(),
	})
}

func (h *MonitorHandler) Processes(w http.ResponseWriter, r *http.Request) {
	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    h.mon.Processes(),
	})
}

type resetRequest struct {
	Scope string `validate:"required,oneof=daily monthly"`
}

func (h *MonitorHandler) ResetUsage(w http.ResponseWriter, r *http.Request) {
	req := resetRequest{Scope: r.PathValue("scope")}
	if validationErrors := ValidateStruct(req); len(validationErrors) > 0 {
		JSONValidationError(w, validationErrors)
		return
	}

	switch req.Scope {
	case "daily":
		h.mon.ResetDaily()
	case "monthly":
		h.mon.ResetMonthly()
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "Usage counters reset.",
		Data:    map[string]string{"scope": req.Scope},
	})
}
