package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"github.com/rs/zerolog"
)

type bridgeEnvelope struct {
	Origin  string  `json:"origin"`
	Message Message `json:"message"`
}

// RedisBridge relays hub broadcasts across instances over a Redis pub/sub
// channel. Each instance tags outgoing envelopes with its own id and drops
// its own messages on receipt.
type RedisBridge struct {
	client  rueidis.Client
	channel string
	origin  string
	logger  zerolog.Logger
}

func NewRedisBridge(client rueidis.Client, channel string, logger zerolog.Logger) *RedisBridge {
	return &RedisBridge{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
	}
}

func (b *RedisBridge) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(bridgeEnvelope{Origin: b.origin, Message: msg})
	if err != nil {
		return err
	}

	return b.client.Do(
		ctx,
		b.client.B().Publish().Channel(b.channel).Message(string(data)).Build(),
	).Error()
}

// Listen blocks on the subscription until ctx is cancelled, re-delivering
// messages published by other instances into the local hub rooms.
func (b *RedisBridge) Listen(ctx context.Context, hub *Hub) {
	err := b.client.Receive(
		ctx,
		b.client.B().Subscribe().Channel(b.channel).Build(),
		func(msg rueidis.PubSubMessage) {
			var envelope bridgeEnvelope
			if err := json.Unmarshal([]byte(msg.Message), &envelope); err != nil {
				b.logger.Warn().Err(err).Msg("bad bridge envelope")
				return
			}
			if envelope.Origin == b.origin {
				return
			}

			data, err := json.Marshal(envelope.Message)
			if err != nil {
				return
			}
			hub.deliverLocal(envelope.Message.Room, data)
		},
	)
	if err != nil && ctx.Err() == nil {
		b.logger.Error().Err(err).Msg("redis bridge subscription ended")
	}
}
