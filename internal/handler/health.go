package handler

import (
	"net/http"

	"camstation/internal/logger"
)

// CaptureCounter is implemented by the frame loop.
type CaptureCounter interface {
	Captured() int64
}

// ViewerCounter is implemented by the live view hub.
type ViewerCounter interface {
	GetClientCount() int
}

// HealthHandler reports liveness together with a few counters.
func HealthHandler(captures CaptureCounter, viewers ViewerCounter, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"captured": captures.Captured(),
			"viewers":  viewers.GetClientCount(),
		})
	}
}
