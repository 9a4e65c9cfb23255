package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/unclebandit/recruitflow-backend/internal/service"
)

// TopicEmailEvents carries engagement events from the delivery provider.
const TopicEmailEvents = "email_events"

// Queue interface
type Queue interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler func(payload []byte) error) error
}

// InMemoryQueue is an in-process queue with retry, used when the service
// runs without a broker and in tests.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload []byte) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload []byte) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    []byte
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload []byte) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload []byte) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("⚠️ job failed (attempt %d/%d): %v", job.RetryCount, job.MaxRetries, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("❌ job permanently failed after %d attempts", job.MaxRetries)
			return // no requeue
		}

		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartEmailEventSubscriber wires the engagement-event pipeline onto a queue.
// Malformed payloads are acked and dropped; apply errors go back to the queue
// for its bounded retry.
func StartEmailEventSubscriber(q Queue, events *service.EventService) {
	err := q.Subscribe(TopicEmailEvents, func(payload []byte) error {
		var event service.EngagementEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Printf("⚠️ invalid email event payload: %v", err)
			return nil // no retry
		}

		log.Printf("📩 processing %s event for campaign %d", event.Event, event.CampaignID)
		return events.Apply(event)
	})
	if err != nil {
		log.Println("⚠️ failed to start subscriber for email_events:", err)
	}
}
