package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer drains booking events and forwards each to the notification
// webhook. It keeps reconnecting with backoff until the context is
// cancelled.
type Consumer struct {
	url        string
	queue      string
	webhookURL string
	client     *resty.Client
	logger     *zap.Logger
}

func NewConsumer(url, queueName, webhookURL string, logger *zap.Logger) *Consumer {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)
	return &Consumer{
		url:        url,
		queue:      queueName,
		webhookURL: webhookURL,
		client:     client,
		logger:     logger,
	}
}

// Run blocks until ctx is done. Broker failures trigger reconnects with
// exponential backoff capped at 30s; a successful connection resets it.
func (c *Consumer) Run(ctx context.Context) {
	backoff := time.Second
	for {
		connected, err := c.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if connected {
			backoff = time.Second
		}
		if err != nil {
			c.logger.Warn("queue consumer disconnected",
				zap.Error(err),
				zap.Duration("retry_in", backoff),
			)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Consumer) consume(ctx context.Context) (bool, error) {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return false, err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return false, err
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return false, err
	}
	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return false, err
	}
	c.logger.Info("queue consumer connected", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case d, ok := <-deliveries:
			if !ok {
				return true, errors.New("delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

// handle forwards one delivery. Malformed payloads are dropped; webhook
// failures requeue the message once and then drop it.
func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var event BookingConfirmedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logger.Error("dropping malformed booking event", zap.Error(err))
		d.Nack(false, false)
		return
	}
	if c.webhookURL == "" {
		d.Ack(false)
		return
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(c.webhookURL)
	if err != nil || resp.IsError() {
		requeue := !d.Redelivered
		c.logger.Warn("webhook delivery failed",
			zap.Strings("codes", event.BookingCodes),
			zap.Bool("requeue", requeue),
			zap.Error(err),
		)
		d.Nack(false, requeue)
		return
	}
	d.Ack(false)
}
