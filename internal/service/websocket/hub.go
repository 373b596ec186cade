package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"image"

	"camstation/internal/dto"
	"camstation/internal/logger"
	"camstation/internal/model"

	"github.com/disintegration/imaging"
	"github.com/gorilla/websocket"
)

const jpegQuality = 80

// HubService fans live frames and capture events out to every connected viewer.
type HubService struct {
	clients    map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}
	logger     *logger.Logger
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx is cancelled, then disconnects everyone.
func (h *HubService) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			h.logger.Info("Live view hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("Viewer %s connected. Total: %d", client.ID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("Viewer %s disconnected. Total: %d", client.ID, len(h.clients))
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					if msg.droppable {
						continue
					}
					h.logger.Warning("Viewer %s is too slow, disconnecting", client.ID)
					h.drop(client)
				}
			}
		}
	}
}

func (h *HubService) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
}

// Register adds a client. It is a no-op once the hub has stopped.
func (h *HubService) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *HubService) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *HubService) send(msg message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// GetClientCount returns the number of connected viewers.
func (h *HubService) GetClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// PublishFrame sends frame as JPEG to every viewer. Viewers that are behind
// skip the frame.
func (h *HubService) PublishFrame(frame image.Image) {
	if h.GetClientCount() == 0 {
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		h.logger.Error("Failed to encode live frame: %v", err)
		return
	}
	h.send(message{kind: websocket.BinaryMessage, data: buf.Bytes(), droppable: true})
}

// PublishRecord notifies viewers that rec was appended to the log.
func (h *HubService) PublishRecord(rec model.CaptureRecord) {
	data, err := json.Marshal(dto.RecordEvent{Type: dto.RecordEventType, Record: dto.NewRecordInfo(rec)})
	if err != nil {
		h.logger.Error("Failed to encode record event: %v", err)
		return
	}
	h.send(message{kind: websocket.TextMessage, data: data})
}
