package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartAttendanceConsumer connects to RabbitMQ, declares the
// attendee.joined queue (durable), and starts consuming messages.  Each
// message is appended to logs/attendance.log as a single human-readable
// line.  The function runs a reconnect loop with backoff and keeps the
// server operating through broker outages; failed messages are rejected
// without requeue to avoid tight redelivery loops.
func StartAttendanceConsumer(brokerURL string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL)
		if err != nil {
			slog.Warn("attendance-consumer: dial failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			slog.Warn("attendance-consumer: consume loop ended", "error", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		slog.Warn("attendance-consumer: set QoS failed", "error", err)
	}

	if _, err := ch.QueueDeclare(AttendeeJoinedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(AttendeeJoinedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleJoined(d.Body); err != nil {
			slog.Warn("attendance-consumer: handle message failed", "error", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleJoined(body []byte) error {
	var ev AttendeeJoinedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "attendance.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	name := ev.DisplayName
	if name == "" {
		name = "(anonymous)"
	}
	line := fmt.Sprintf("[%s] Attendee joined | event_id=%s | session_id=%s | attendee_id=%s | name=%q\n",
		ev.JoinedAt, ev.EventID, ev.SessionID, ev.AttendeeID, name)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
