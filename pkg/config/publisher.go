package config

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// Publisher sends JSON messages to durable queues. One instance is
// shared by the API process for launch event notifications.
type Publisher struct {
	channel *amqp.Channel
	// Queues already declared on this channel, to avoid re-declaring on
	// every publish.
	declared map[string]bool
}

// NewPublisher opens a channel on the shared RabbitMQ connection.
func NewPublisher() (*Publisher, error) {
	if RabbitMQ == nil {
		return nil, fmt.Errorf("RabbitMQ connection not initialized")
	}

	ch, err := RabbitMQ.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &Publisher{
		channel:  ch,
		declared: make(map[string]bool),
	}, nil
}

// Publish marshals message as JSON and sends it to queueName, declaring
// the queue durably on first use.
func (p *Publisher) Publish(queueName string, message interface{}) error {
	if !p.declared[queueName] {
		if _, err := p.channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}
		p.declared[queueName] = true
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.channel.Publish("", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	log.WithFields(log.Fields{
		"queue": queueName,
	}).Debugf("Published message: %s", string(body))
	return nil
}

// Close releases the channel. The underlying connection stays open.
func (p *Publisher) Close() error {
	if p.channel == nil {
		return nil
	}
	return p.channel.Close()
}
