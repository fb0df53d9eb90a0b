package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/intake/internal/domain"
)

// MonitorChannel carries every call transition for the live dashboard.
const MonitorChannel = "calls"

// CallChannel returns the per-call channel name.
func CallChannel(callID string) string {
	return "call:" + callID
}

// Events publishes call transitions over Redis pub/sub and lets monitors
// subscribe to them.
type Events struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*Events, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Events{client: client}, nil
}

func (e *Events) Close() error {
	if err := e.client.Close(); err != nil {
		return fmt.Errorf("redis.Events.Close: %w", err)
	}
	return nil
}

func (e *Events) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := e.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Events.Publish: %w", err)
	}
	return nil
}

func (e *Events) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := e.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.Events.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// CallEventPayload is the JSON shape published for each applied transition.
type CallEventPayload struct {
	CallID      string           `json:"call_id"`
	Event       domain.EventType `json:"event"`
	State       domain.State     `json:"state"`
	CallStatus  string           `json:"call_status,omitempty"`
	ComplaintID string           `json:"complaint_id,omitempty"`
	At          time.Time        `json:"at"`
}

// CallEvent implements flow.Publisher. Publish failures are logged, never
// surfaced to the webhook path.
func (e *Events) CallEvent(ctx context.Context, sess *domain.Session, evType domain.EventType) {
	payload, err := json.Marshal(CallEventPayload{
		CallID:      sess.CallID,
		Event:       evType,
		State:       sess.State,
		CallStatus:  sess.CallStatus,
		ComplaintID: sess.ComplaintID,
		At:          sess.UpdatedAt,
	})
	if err != nil {
		log.Warn().Err(err).Str("call_id", sess.CallID).Msg("marshal call event")
		return
	}

	for _, channel := range []string{MonitorChannel, CallChannel(sess.CallID)} {
		if pubErr := e.Publish(ctx, channel, payload); pubErr != nil {
			log.Warn().Err(pubErr).Str("channel", channel).Msg("publish call event")
		}
	}
}
