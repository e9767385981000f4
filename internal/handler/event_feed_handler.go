package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/gradeflow/gradeflow-api/internal/service"
)

// EventFeedHandler streams evaluation lifecycle events to websocket
// subscribers, typically the reporting collaborator.
type EventFeedHandler struct {
	events service.EventPublisher
	logger zerolog.Logger
}

// NewEventFeedHandler builds the websocket feed handler.
func NewEventFeedHandler(events service.EventPublisher, logger zerolog.Logger) *EventFeedHandler {
	return &EventFeedHandler{
		events: events,
		logger: logger.With().Str("component", "event_feed_handler").Logger(),
	}
}

// Register attaches the websocket upgrade route.
func (h *EventFeedHandler) Register(router fiber.Router) {
	router.Use(func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/evaluations", websocket.New(h.stream))
}

func (h *EventFeedHandler) stream(conn *websocket.Conn) {
	events, cancel := h.events.Subscribe()
	defer cancel()
	defer conn.Close()

	// Reader goroutine detects the peer closing the socket.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, open := <-events:
			if !open {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug().Err(err).Msg("websocket write failed, dropping subscriber")
				return
			}
		case <-done:
			return
		}
	}
}
