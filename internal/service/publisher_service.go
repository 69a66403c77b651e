package service

import (
	"context"
	"encoding/json"

	"lumenra-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IOtpPublisher interface {
	PublishOtpRequested(ctx context.Context, event events.OtpRequested) error
}

type otpPublisher struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewOtpPublisher(topicName string, pubSub *gochannel.GoChannel) IOtpPublisher {
	return &otpPublisher{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *otpPublisher) PublishOtpRequested(ctx context.Context, event events.OtpRequested) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pubSub.Publish(p.topicName, msg)
}
