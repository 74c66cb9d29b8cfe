package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/contactbook-backend/internal/domain/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

const DefaultChannel = "contacts.events"

const (
	EventContactCreated = "contact.created"
	EventContactUpdated = "contact.updated"
	EventContactDeleted = "contact.deleted"
)

// ContactEvent is published after a contact write commits.
type ContactEvent struct {
	Type      string    `json:"type"`
	ContactID uuid.UUID `json:"contactId"`
	contacts.DocumentKey
	OccurredAt time.Time `json:"occurredAt"`
}

type ContactEventBus interface {
	Publish(ctx context.Context, ev ContactEvent) error
	// Subscribe delivers events to onEvent until ctx is done.
	Subscribe(ctx context.Context, onEvent func(ev ContactEvent)) error
	Close() error
}

// NewClient dials addr and checks it answers a ping.
func NewClient(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type contactEventBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewContactEventBus(log *logger.Logger, rdb *goredis.Client, channel string) (ContactEventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	return &contactEventBus{
		log:     log.With("service", "RedisContactEventBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *contactEventBus) Publish(ctx context.Context, ev ContactEvent) error {
	raw, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *contactEventBus) Subscribe(ctx context.Context, onEvent func(ev ContactEvent)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				ev, err := decodeEvent(m.Payload)
				if err != nil {
					b.log.Warn("bad contact event payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *contactEventBus) Close() error {
	return b.rdb.Close()
}

func encodeEvent(ev ContactEvent) ([]byte, error) {
	if strings.TrimSpace(ev.Type) == "" {
		return nil, fmt.Errorf("event type required")
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	return json.Marshal(ev)
}

func decodeEvent(payload string) (ContactEvent, error) {
	var ev ContactEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ContactEvent{}, err
	}
	if ev.Type == "" {
		return ContactEvent{}, fmt.Errorf("event type missing")
	}
	return ev, nil
}

type noopEventBus struct{}

// NewNoopEventBus drops every event. It is used when no Redis is configured.
func NewNoopEventBus() ContactEventBus { return noopEventBus{} }

func (noopEventBus) Publish(context.Context, ContactEvent) error { return nil }
func (noopEventBus) Subscribe(ctx context.Context, _ func(ContactEvent)) error {
	return fmt.Errorf("contact events are disabled (REDIS_ADDR not set)")
}
func (noopEventBus) Close() error { return nil }
