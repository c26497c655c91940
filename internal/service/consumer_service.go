package service

import (
	"context"
	"encoding/json"

	"cooksession-be/internal/dto"
	"cooksession-be/internal/pkg/logger"
	"cooksession-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the session-change topic and fans each change out
// to the websocket hub. It runs for the process lifetime; the subscription
// goroutine exits when the context is cancelled and the channel closes.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.SessionChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal session change", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages are not retriable
		return
	}

	if cs.hub != nil {
		cs.hub.Send(payload.SessionId, payload)
	}
	msg.Ack()
}
