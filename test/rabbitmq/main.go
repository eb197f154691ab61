package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/streadway/amqp"
)

const (
	rabbitMQHost     = "127.0.0.1"
	rabbitMQPort     = "5672"
	rabbitMQUser     = "guest"
	rabbitMQPassword = "guest"
	exchangeName     = "dna.verification"
	queueName        = "dna.verification.audit"
	routingKey       = "result"
)

// buildRabbitMQURL builds the broker URL, encoding credentials that may
// carry special characters.
func buildRabbitMQURL() string {
	encodedUser := url.QueryEscape(rabbitMQUser)
	encodedPassword := url.QueryEscape(rabbitMQPassword)

	return fmt.Sprintf("amqp://%s:%s@%s:%s/", encodedUser, encodedPassword, rabbitMQHost, rabbitMQPort)
}

// Consumer drains verification events published by the service and prints
// them, acknowledging one message at a time.
func Consumer(ctx context.Context) error {
	conn, err := amqp.Dial(buildRabbitMQURL())
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // kind
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // auto-delete
		false,     // exclusive
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		queueName,    // queue
		routingKey,   // routing key
		exchangeName, // exchange
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	// One unacked message at a time keeps the output ordered.
	if err = ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(
		queueName, // queue
		"",        // consumer tag
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	log.Println("[consumer] waiting for verification events...")

	for {
		select {
		case <-ctx.Done():
			log.Println("[consumer] stopped")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				log.Println("[consumer] delivery channel closed")
				return nil
			}

			log.Printf("[consumer] received: %s", string(msg.Body))

			if err = msg.Ack(false); err != nil {
				log.Printf("[consumer] ack failed: %v", err)
			}
		}
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	if err := Consumer(ctx); err != nil {
		log.Fatalf("[consumer] error: %v", err)
	}
}
