package event

import (
	"encoding/json"

	"poll-quiz-service/internal/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Routing keys emitted by this service.
const (
	SubmissionCompleted = "quiz.submission.completed"
	QuizCreated         = "quiz.created"
	QuizStatusChanged   = "quiz.status_changed"
)

// Publisher hands events to the notification dispatcher. Publishing is
// fire-and-forget: a failure must never fail the operation that emitted
// the event.
type Publisher interface {
	Publish(eventType string, payload interface{}) error
	Close()
}

type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(eventType string, payload interface{}) error {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	logger.Log.Debug("publishing event", zap.String("type", eventType))

	// The event type doubles as the routing key on the topic exchange.
	return p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Noop stands in when RabbitMQ is not configured.
type Noop struct{}

func (Noop) Publish(string, interface{}) error { return nil }
func (Noop) Close()                            {}
