package route

import (
	"net/http"

	"camstation/internal/config"
	"camstation/internal/handler"
	"camstation/internal/logger"
	"camstation/internal/middleware"
	"camstation/internal/repository"
	"camstation/internal/service/storage"
	"camstation/internal/service/websocket"
)

// SetupRoutes registers the API, live view and operational log endpoints and
// wraps the mux with request ID and access log middleware.
func SetupRoutes(store repository.SessionLogStore, images *storage.ImageStore, hub *websocket.HubService,
	captures handler.CaptureCounter, cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Capture log and charts
	mux.HandleFunc("/api/logs", handler.GetRecordsHandler(store, cfg, log))
	mux.HandleFunc("/api/counts", handler.GetCountsHandler(store, log))
	mux.HandleFunc("/api/dates", handler.GetDatesHandler(store, log))

	// Gallery
	mux.HandleFunc("/api/images", handler.GetImagesHandler(store, images, cfg, log))
	mux.HandleFunc("/api/images/view", handler.ViewImageHandler(images, log))
	mux.HandleFunc("/api/images/delete", handler.DeleteImageHandler(store, images, log))

	// Live view
	mux.HandleFunc("/api/live", handler.LiveWebsocketHandler(hub, log))

	// Operational log endpoints
	for _, name := range []string{"info", "warning", "error"} {
		file := name + ".log"
		mux.HandleFunc("/logs/"+name, handler.ShowLogsHandler(log, file))
		mux.HandleFunc("/logs/"+name+"/clear", handler.ClearLogsHandler(log, file))
	}

	mux.HandleFunc("/healthz", handler.HealthHandler(captures, hub, log))

	return middleware.RequestID(middleware.AccessLog(log)(mux))
}
