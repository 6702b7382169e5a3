package controllers

import (
	"fmt"
	"fvm/internal/services"
	"net/http"
	"time"
)

type HealthController struct {
	service   services.FamilyServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Buttons       int     `json:"buttons"`
	Storage       bool    `json:"storage"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(hc.startTime)
	state := hc.service.State()
	buttons := 0
	for _, m := range state.Machines {
		buttons += len(m.Buttons)
	}

	storage := hc.service.StorageAvailable()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Buttons:       buttons,
		Storage:       storage,
	}

	status := http.StatusOK
	if !storage {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.FamilyServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
	}
}
