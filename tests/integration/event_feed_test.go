package integration_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gradeflow/gradeflow-api/internal/handler"
	"github.com/gradeflow/gradeflow-api/internal/middleware"
	"github.com/gradeflow/gradeflow-api/internal/service"
)

func TestEventFeedDeliversPublishedEvents(t *testing.T) {
	publisher := service.NewEventPublisher(nil, "", nil, "", zerolog.Nop())

	app := fiber.New()
	app.Use(middleware.CorrelationID())

	feed := handler.NewEventFeedHandler(publisher, zerolog.Nop())
	feed.Register(app.Group("/ws"))

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws/evaluations"
	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	conn, resp, err := dialer.Dial(url, http.Header{})
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	// Give the server a moment to register the subscriber.
	time.Sleep(50 * time.Millisecond)

	published := service.EvaluationEvent{
		Event:        "graded",
		EvaluationID: 7,
		PublicID:     "0f8fad5b-d9cb-469f-a165-70867728950e",
		CourseID:     11,
		StudentID:    21,
		EvaluatorID:  42,
		Status:       "completed",
		ActorID:      42,
		ActorRole:    "teacher",
		At:           time.Now().UTC(),
	}
	publisher.Publish(context.Background(), published)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var received service.EvaluationEvent
	require.NoError(t, conn.ReadJSON(&received))
	require.Equal(t, "graded", received.Event)
	require.Equal(t, uint(7), received.EvaluationID)
	require.Equal(t, "completed", received.Status)
}

func TestEventFeedRejectsPlainHTTP(t *testing.T) {
	publisher := service.NewEventPublisher(nil, "", nil, "", zerolog.Nop())

	app := fiber.New()
	feed := handler.NewEventFeedHandler(publisher, zerolog.Nop())
	feed.Register(app.Group("/ws"))

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	resp, err := http.Get(baseURL + "/ws/evaluations")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}
