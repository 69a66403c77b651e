package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"lumenra-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	to  string
	otp string
}

func (m *recordingMailer) SendOTP(toEmail, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: toEmail, otp: otp})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) first() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[0]
}

func TestOtpPipeline_PublishToEmail(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	mailerStub := &recordingMailer{}
	consumer := NewConsumerService(pubSub, "otp.requested", mailerStub, nopLogger{})
	publisher := NewOtpPublisher("otp.requested", pubSub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	err := publisher.PublishOtpRequested(ctx, events.OtpRequested{
		UserId:      uuid.New(),
		Email:       "alice@example.com",
		Otp:         "123456",
		RequestedAt: time.Now(),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return mailerStub.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "alice@example.com", mailerStub.first().to)
	assert.Equal(t, "123456", mailerStub.first().otp)
}

func TestOtpPipeline_MailFailureDoesNotBlock(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	mailerStub := &recordingMailer{err: assert.AnError}
	consumer := NewConsumerService(pubSub, "otp.requested", mailerStub, nopLogger{})
	publisher := NewOtpPublisher("otp.requested", pubSub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	// Two failing events; the ack on failure keeps the topic draining.
	for i := 0; i < 2; i++ {
		require.NoError(t, publisher.PublishOtpRequested(ctx, events.OtpRequested{
			UserId:      uuid.New(),
			Email:       "alice@example.com",
			Otp:         "123456",
			RequestedAt: time.Now(),
		}))
	}

	// A third publish must still go through.
	assert.NoError(t, publisher.PublishOtpRequested(ctx, events.OtpRequested{
		UserId:      uuid.New(),
		Email:       "alice@example.com",
		Otp:         "654321",
		RequestedAt: time.Now(),
	}))
}
