package queue

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"
)

// AmqpQueue moves AI jobs through RabbitMQ so the worker binary can run the
// continuations out of process. One durable queue per topic.
type AmqpQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAmqpQueue(url string) (*AmqpQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &AmqpQueue{conn: conn, ch: ch}, nil
}

func (q *AmqpQueue) declare(topic string) (amqp.Queue, error) {
	return q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func (q *AmqpQueue) Publish(topic string, payload any) error {
	queue, err := q.declare(topic)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return q.ch.Publish(
		"",
		queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Subscribe consumes the topic queue and hands the raw JSON body to the
// handler. A handler error nacks and requeues once the broker redelivers.
func (q *AmqpQueue) Subscribe(topic string, handler func(payload any) error) error {
	queue, err := q.declare(topic)
	if err != nil {
		return err
	}

	msgs, err := q.ch.Consume(
		queue.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				log.Println("⚠️ handler failed for topic", topic, ":", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}()

	return nil
}

func (q *AmqpQueue) Close() {
	q.ch.Close()
	q.conn.Close()
}

var _ Queue = (*AmqpQueue)(nil)
