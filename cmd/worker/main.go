package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plexus/internal/queue"
	"plexus/internal/storage"
	"plexus/internal/store"
	"plexus/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	"plexus/pkg/ai"
	ollamaai "plexus/pkg/ai/ollama"
	openaiai "plexus/pkg/ai/openai"
	"plexus/pkg/logger"
	"plexus/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(console.New(console.Params{
		Debug:  debug,
		Prefix: "worker",
	}))

	s3Client, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("Failed to create S3 client", "err", err)
	}

	aiClient := newAIClient()

	pgConn, err := store.NewPool(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to declare queues", "err", err)
	}

	if err := queue.RecoverStaleNotebooks(ctx, ch, pgConn); err != nil {
		logger.Error("Failed to recover stale notebooks", "err", err)
	}

	// Single consumer channel with prefetch 1 so only one message is
	// in flight across all queues.
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	logger.Info("Listening for messages")

	type queuedMessage struct {
		msg       amqp.Delivery
		queueName string
	}

	messageChan := make(chan queuedMessage)

	for _, queueName := range queue.Queues {
		go func(qName string) {
			msgs, err := consumerCh.Consume(
				qName,
				fmt.Sprintf("%s_consumer", qName),
				false, // autoAck
				false, // exclusive
				false, // noLocal
				false, // noWait
				nil,   // args
			)
			if err != nil {
				logger.Fatal("Failed to start consuming", "queue", qName, "err", err)
			}

			for {
				select {
				case <-ctx.Done():
					logger.Info("Stopping consumer", "queue", qName)
					return
				case msg, ok := <-msgs:
					if !ok {
						logger.Info("Message channel closed", "queue", qName)
						return
					}
					messageChan <- queuedMessage{msg: msg, queueName: qName}
				}
			}
		}(queueName)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case qm := <-messageChan:
				startTime := time.Now()
				logger.Info("Received message", "queue", qm.queueName)

				var processingErr error
				switch qm.queueName {
				case queue.ExtractQueue:
					processingErr = queue.ProcessExtractMessage(ctx, s3Client, aiClient, ch, pgConn, string(qm.msg.Body))
				case queue.LayoutQueue:
					processingErr = queue.ProcessLayoutMessage(ctx, ch, pgConn, string(qm.msg.Body))
				case queue.DeleteQueue:
					processingErr = queue.ProcessDeleteMessage(ctx, s3Client, pgConn, string(qm.msg.Body))
				}

				if processingErr != nil {
					logger.Error("Error processing message", "queue", qm.queueName, "err", processingErr)
					queue.ResetStatusForRetry(ctx, pgConn, qm.queueName, qm.msg.Body)
					handleProcessingError(consumerCh, qm.msg, qm.queueName)
				} else {
					if err := qm.msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", qm.queueName)
				}

				metrics := aiClient.GetMetrics()
				if metrics.TotalTokens > 0 {
					logger.Info(
						"AI metrics",
						"input_tokens", metrics.InputTokens,
						"output_tokens", metrics.OutputTokens,
						"total_tokens", metrics.TotalTokens,
						"duration_ms", metrics.DurationMs,
					)
				}
				aiClient.ResetMetrics()

				logger.Info("Processing time", "duration", time.Since(startTime).Round(time.Millisecond).String())
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

func newAIClient() ai.GraphAIClient {
	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := ollamaai.New(ollamaai.Params{
			ChatModel:             util.GetEnv("AI_CHAT_EXTRACT_MODEL"),
			EmbeddingModel:        util.GetEnv("AI_EMBED_MODEL"),
			BaseURL:               util.GetEnv("AI_CHAT_URL"),
			APIKey:                util.GetEnv("AI_CHAT_KEY"),
			MaxConcurrentRequests: int64(util.GetEnvInt("AI_MAX_CONCURRENT", 2)),
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		return client
	default:
		return openaiai.New(openaiai.Params{
			ChatModel:           util.GetEnv("AI_CHAT_EXTRACT_MODEL"),
			EmbeddingModel:      util.GetEnv("AI_EMBED_MODEL"),
			ChatURL:             util.GetEnv("AI_CHAT_URL"),
			ChatKey:             util.GetEnv("AI_CHAT_KEY"),
			EmbeddingURL:        util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey:        util.GetEnv("AI_EMBED_KEY"),
			EmbeddingDimensions: util.GetEnvInt("AI_EMBED_DIM", 1536),
		})
	}
}

func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	// After 10 attempts the message parks in the DLQ for inspection.
	if retries >= 10 {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = int32(retries + 1)

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
