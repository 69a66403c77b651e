package service

import (
	"context"
	"encoding/json"

	"lumenra-be/internal/pkg/logger"
	"lumenra-be/internal/pkg/mailer"
	"lumenra-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the OTP topic and turns each event into an email.
// Mail failures are logged and acked; the code is already on the user row,
// so there is nothing to retry into.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	log          logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		log:          log,
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
	var event events.OtpRequested
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.log.Error("mailer", "failed to unmarshal OTP event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads are not retriable
		return
	}

	if err := cs.emailService.SendOTP(event.Email, event.Otp); err != nil {
		cs.log.Error("mailer", "failed to send OTP email", map[string]interface{}{
			"email": event.Email,
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	cs.log.Info("mailer", "OTP email sent", map[string]interface{}{
		"email": event.Email,
	})
	msg.Ack()
}
