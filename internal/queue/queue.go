package queue

import (
	"fmt"
	"time"

	"plexus/internal/util"
	"plexus/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// Job queues. Each has a companion <name>_retry queue with a TTL that
// dead-letters back into the main queue, and a <name>_dlq for messages
// that exhausted their retries.
const (
	ExtractQueue = "extract_queue"
	LayoutQueue  = "layout_queue"
	DeleteQueue  = "delete_queue"
)

// Queues lists every job queue the worker consumes.
var Queues = []string{ExtractQueue, LayoutQueue, DeleteQueue}

const retryDelayMs = 10000

// Init connects to RabbitMQ using the RABBITMQ_* environment variables.
func Init() *amqp091.Connection {
	connURL := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		util.GetEnv("RABBITMQ_USER"),
		util.GetEnv("RABBITMQ_PASSWORD"),
		util.GetEnv("RABBITMQ_HOST"),
		util.GetEnv("RABBITMQ_PORT"),
	)

	conn, err := amqp091.Dial(connURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

// SetupQueues declares the given queues along with their retry and
// dead-letter companions. Idempotent.
func SetupQueues(ch *amqp091.Channel, queueNames []string) error {
	for _, name := range queueNames {
		_, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}

		_, err = ch.QueueDeclare(
			name+"_dlq",
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s_dlq: %w", name, err)
		}

		_, err = ch.QueueDeclare(
			name+"_retry",
			true,
			false,
			false,
			false,
			amqp091.Table{
				"x-message-ttl":             int32(retryDelayMs),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s_retry: %w", name, err)
		}
	}

	return nil
}

// PublishFIFO publishes a persistent message to the named queue.
func PublishFIFO(ch *amqp091.Channel, queueName string, data []byte) error {
	q, err := ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	return ch.Publish(
		"",
		q.Name,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         data,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
}
