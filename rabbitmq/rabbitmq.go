package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ResetPasswordMailQueue = "notifications.reset_password_otp"
)

// Publisher is what the controllers depend on; tests substitute a stub.
type Publisher interface {
	Publish(queue string, body []byte) error
}

type MQConn struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(url string) (*MQConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(ResetPasswordMailQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &MQConn{conn: conn, ch: ch}, nil
}

func (m *MQConn) Publish(queue string, body []byte) error {
	return m.ch.Publish("", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
}

func (m *MQConn) Close() {
	if m.ch != nil {
		m.ch.Close()
	}
	if m.conn != nil {
		m.conn.Close()
	}
}
