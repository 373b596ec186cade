package handler

import (
	"net/http"

	"camstation/internal/logger"
	"camstation/internal/service/websocket"

	gorilla "github.com/gorilla/websocket"
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = gorilla.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveWebsocketHandler handles viewer connections over WebSocket and
// registers them in the HubService to receive live frames and capture events.
func LiveWebsocketHandler(hub *websocket.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		client := websocket.NewClient(connection)
		hub.Register(client)
		defer hub.Unregister(client)

		go client.WritePump()

		if err := client.ReadPump(); err != nil {
			if gorilla.IsCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
				logger.Info("Viewer %s disconnected normally", client.ID)
			} else {
				logger.Warning("Viewer %s disconnected with error: %v", client.ID, err)
			}
		}
	}
}
