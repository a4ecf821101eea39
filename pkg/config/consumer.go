package config

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// ErrDropMessage marks a handler failure as permanent. Messages failing
// with it are discarded instead of requeued, so a body that can never be
// processed does not circulate forever.
var ErrDropMessage = errors.New("message cannot be processed")

// shouldRequeue decides redelivery: transient failures go back on the
// queue, permanent ones are dropped.
func shouldRequeue(err error) bool {
	return !errors.Is(err, ErrDropMessage)
}

// Consumer reads messages from one durable queue. The worker uses it to
// receive launch events from the API.
type Consumer struct {
	channel *amqp.Channel
	queue   string
}

// NewConsumer opens a channel and declares the queue so consuming works
// even when the worker starts before the first publish.
func NewConsumer(queueName string) (*Consumer, error) {
	if RabbitMQ == nil {
		return nil, fmt.Errorf("RabbitMQ connection not initialized")
	}

	ch, err := RabbitMQ.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &Consumer{
		channel: ch,
		queue:   q.Name,
	}, nil
}

// Consume blocks, invoking handler for every delivery. A transient
// handler error nacks the message back onto the queue; an error wrapping
// ErrDropMessage discards it; success acks it.
func (c *Consumer) Consume(handler func([]byte) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming from %s: %w", c.queue, err)
	}

	log.Infof("Consumer is running on queue: %s", c.queue)

	for msg := range deliveries {
		if err := handler(msg.Body); err != nil {
			requeue := shouldRequeue(err)
			log.WithFields(log.Fields{
				"queue":   c.queue,
				"error":   err.Error(),
				"requeue": requeue,
			}).Error("Message handler failed")
			msg.Nack(false, requeue)
			continue
		}
		msg.Ack(false)
	}

	return fmt.Errorf("delivery channel for %s closed", c.queue)
}

// Close releases the channel, which also stops Consume.
func (c *Consumer) Close() error {
	if c.channel == nil {
		return nil
	}
	return c.channel.Close()
}
