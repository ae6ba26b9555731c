// Package service holds the RabbitMQ publisher for POS domain events.
// Publishing is strictly best-effort: errors are logged and returned, and
// callers are expected to ignore them — a down broker must never fail a
// committed order or payment.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/restaurant-pos/internal/queue"
)

// Publisher publishes POS domain events. The zero value is usable; each
// publish dials the broker so a restarted broker is picked up without
// connection management in the request path.
type Publisher struct{}

// NewPublisher returns an event publisher for the configured broker.
func NewPublisher() *Publisher { return &Publisher{} }

// PublishOrderPlaced publishes an OrderPlacedEvent to the "order.placed"
// queue. Messages are marked persistent.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev q.OrderPlacedEvent) error {
    return publish(ctx, "order.placed", ev)
}

// PublishPaymentCompleted publishes a PaymentCompletedEvent to the
// "payment.completed" queue.
func (p *Publisher) PublishPaymentCompleted(ctx context.Context, ev q.PaymentCompletedEvent) error {
    return publish(ctx, "payment.completed", ev)
}

func publish(ctx context.Context, queueName string, event any) error {
    conn, err := amqp.Dial(q.BrokerURL())
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    // Idempotent declare; durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}
