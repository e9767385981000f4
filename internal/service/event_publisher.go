package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EvaluationEvent is the payload emitted on every evaluation lifecycle
// change. Notification and reporting collaborators consume it from NATS, the
// redis channel, or the websocket feed.
type EvaluationEvent struct {
	Event        string    `json:"event"`
	EvaluationID uint      `json:"evaluation_id"`
	PublicID     string    `json:"public_id"`
	CourseID     uint      `json:"course_id"`
	StudentID    uint      `json:"student_id"`
	EvaluatorID  uint      `json:"evaluator_id"`
	Status       string    `json:"status"`
	ActorID      uint      `json:"actor_id"`
	ActorRole    string    `json:"actor_role,omitempty"`
	At           time.Time `json:"at"`
	Source       string    `json:"source,omitempty"`
}

// EventPublisher fans evaluation lifecycle events out to collaborators.
// Publishing is best-effort: the store is the source of truth and a failed
// publish never fails the transition that produced it.
type EventPublisher interface {
	Publish(ctx context.Context, event EvaluationEvent)
	Subscribe() (<-chan EvaluationEvent, func())
}

type eventPublisher struct {
	nats        *nats.Conn
	natsSubject string
	redis       *redis.Client
	channel     string
	logger      zerolog.Logger
	nodeID      string

	mu          sync.RWMutex
	subscribers map[chan EvaluationEvent]struct{}
}

const eventBufferSize = 16

// NewEventPublisher constructs the publisher. Both the NATS connection and
// the redis client are optional; in-process subscribers always work.
func NewEventPublisher(natsConn *nats.Conn, natsSubject string, redisClient *redis.Client, channel string, logger zerolog.Logger) EventPublisher {
	return &eventPublisher{
		nats:        natsConn,
		natsSubject: natsSubject,
		redis:       redisClient,
		channel:     channel,
		logger:      logger.With().Str("component", "event_publisher").Logger(),
		nodeID:      uuid.NewString(),
		subscribers: make(map[chan EvaluationEvent]struct{}),
	}
}

func (p *eventPublisher) Publish(ctx context.Context, event EvaluationEvent) {
	event.Source = p.nodeID

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to marshal evaluation event")
		return
	}

	if p.nats != nil && p.natsSubject != "" {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			p.logger.Warn().Err(err).Str("subject", p.natsSubject).Msg("failed to publish event to nats")
		}
	}

	if p.redis != nil && p.channel != "" {
		if err := p.redis.Publish(ctx, p.channel, payload).Err(); err != nil {
			p.logger.Warn().Err(err).Str("channel", p.channel).Msg("failed to publish event to redis")
		}
	}

	p.broadcast(event)
}

// Subscribe registers an in-process consumer, used by the websocket feed.
// Slow consumers drop events rather than block a transition.
func (p *eventPublisher) Subscribe() (<-chan EvaluationEvent, func()) {
	channel := make(chan EvaluationEvent, eventBufferSize)

	p.mu.Lock()
	p.subscribers[channel] = struct{}{}
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		if _, ok := p.subscribers[channel]; ok {
			delete(p.subscribers, channel)
			close(channel)
		}
		p.mu.Unlock()
	}
	return channel, cancel
}

func (p *eventPublisher) broadcast(event EvaluationEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for subscriber := range p.subscribers {
		select {
		case subscriber <- event:
		default:
			p.logger.Debug().Str("event", event.Event).Msg("dropping event for slow subscriber")
		}
	}
}
