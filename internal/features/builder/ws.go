package builder

import (
	"github.com/gofiber/contrib/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PreviewSocket streams preview updates for one builder session so the
// frontend does not need to poll while the debounce settles.
type PreviewSocket struct {
	Service BuilderService
	Logger  *zap.Logger
}

func NewPreviewSocket(service BuilderService, logger *zap.Logger) *PreviewSocket {
	return &PreviewSocket{
		Service: service,
		Logger:  logger,
	}
}

func (h *PreviewSocket) Handle(c *websocket.Conn) {
	orgID, ok := c.Locals("orgID").(primitive.ObjectID)
	if !ok {
		_ = c.Close()
		return
	}
	sessionID := c.Params("id")

	events, err := h.Service.Subscribe(orgID, sessionID)
	if err != nil {
		_ = c.WriteJSON(map[string]string{"error": err.Error()})
		_ = c.Close()
		return
	}
	defer h.Service.Unsubscribe(orgID, sessionID, events)

	// Reader goroutine detects the client going away. Inbound payloads
	// are ignored; this socket is push-only.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				h.Logger.Debug("preview socket write failed", zap.Error(err))
				return
			}
		case <-closed:
			return
		}
	}
}
