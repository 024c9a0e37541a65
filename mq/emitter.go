// Package mq broadcasts change events between mealseek processes over Redis
// pub/sub.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mealseek/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const FavoritesChanged = "favorites.changed"

type Event struct {
	Kind   string    `json:"kind"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

// Emitter publishes events on one channel. Every emitter has its own origin
// id so a process can ignore what it published itself.
type Emitter struct {
	conn    *redis.Client
	channel string
	origin  string
	log     *zap.Logger
}

// FavoritesChannel names the channel for changes to one favorites slot.
func FavoritesChannel(slot string) string {
	return "favorites:" + slot + ":changed"
}

func NewEmitter(conn *redis.Client, channel string, log *zap.Logger) *Emitter {
	return &Emitter{conn: conn, channel: channel, origin: utils.GetUUID(), log: log}
}

// Emit publishes kind. Failures are logged, never returned: listeners only
// miss a refresh.
func (e *Emitter) Emit(ctx context.Context, kind string) {
	data, err := json.Marshal(Event{Kind: kind, Origin: e.origin, At: time.Now().UTC()})
	if err != nil {
		e.log.Error("event not encoded", zap.String("kind", kind), zap.Error(err))
		return
	}
	if err := e.conn.Publish(ctx, e.channel, data).Err(); err != nil {
		e.log.Warn("event not published", zap.String("channel", e.channel), zap.Error(err))
		return
	}
	e.log.Debug("event published", zap.String("channel", e.channel), zap.String("kind", kind))
}

// Listener receives events published by other emitters on the channel.
type Listener struct {
	sub    *redis.PubSub
	origin string
	log    *zap.Logger
}

// Subscribe returns once the subscription is confirmed by the server.
func (e *Emitter) Subscribe(ctx context.Context) (*Listener, error) {
	sub := e.conn.Subscribe(ctx, e.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", e.channel, err)
	}
	return &Listener{sub: sub, origin: e.origin, log: e.log}, nil
}

// Run hands foreign events to handle until ctx is done, then closes the
// subscription.
func (l *Listener) Run(ctx context.Context, handle func(context.Context, Event)) {
	defer l.sub.Close()
	ch := l.sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				l.log.Warn("event discarded", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			if ev.Origin == l.origin {
				continue
			}
			handle(ctx, ev)
		}
	}
}
