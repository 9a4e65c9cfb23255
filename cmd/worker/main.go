// cmd/worker/main.go
package main

import (
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/unclebandit/recruitflow-backend/internal/config"
	"github.com/unclebandit/recruitflow-backend/internal/db"
	"github.com/unclebandit/recruitflow-backend/internal/repository"
	"github.com/unclebandit/recruitflow-backend/internal/service"
)

const maxRedeliveries = 3

// retryCount reads how many times a message has been requeued. Brokers may
// hand the header back as a different integer width than it was published
// with.
func retryCount(headers amqp.Table) int {
	switch n := headers["x-retry-count"].(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func requeue(ch *amqp.Channel, queueName string, body []byte, retries int) error {
	return ch.Publish("", queueName, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Headers:     amqp.Table{"x-retry-count": int32(retries)},
	})
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	cfg := config.Load()
	if cfg.AMQP.URL == "" {
		log.Fatal("AMQP_URL is required for the event worker")
	}

	db.Init(cfg.Database)

	eventService := &service.EventService{
		EmailLogRepo: &repository.EmailLogRepository{DB: db.DB},
		CampaignRepo: &repository.CampaignRepository{DB: db.DB},
	}

	// Connect to RabbitMQ
	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.AMQP.Queue, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var event service.EngagementEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Println("⚠️ Invalid event payload:", err)
				d.Ack(false)
				continue
			}

			if err := eventService.Apply(event); err != nil {
				log.Printf("⚠️ Failed to apply %s event for campaign %d: %v", event.Event, event.CampaignID, err)
				retries := retryCount(d.Headers)
				if retries < maxRedeliveries {
					// A plain Nack would not carry the counter, so requeue by
					// republishing with it bumped.
					if pubErr := requeue(ch, q.Name, d.Body, retries+1); pubErr != nil {
						log.Println("⚠️ Failed to requeue event:", pubErr)
						d.Nack(false, true)
						continue
					}
				} else {
					log.Printf("❌ Dropping %s event for campaign %d after %d retries", event.Event, event.CampaignID, retries)
				}
			}

			d.Ack(false)
		}
	}()

	log.Println("📨 Event worker running, waiting for messages...")
	<-forever
}
