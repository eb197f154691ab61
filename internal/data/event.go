package data

import (
	"context"
	"time"

	"github.com/facundofernandezmiguez/mutants/internal/biz"
	"github.com/facundofernandezmiguez/mutants/internal/conf"

	jsoniter "github.com/json-iterator/go"
	"github.com/streadway/amqp"
	"github.com/yola1107/kratos/v2/log"
)

const (
	defaultExchange = "dna.verification"
	verificationKey = "result"
)

type eventPublisher struct {
	data     *Data
	exchange string
	log      *log.Helper
}

// NewEventPublisher .
func NewEventPublisher(c *conf.Data, data *Data, logger log.Logger) biz.EventPublisher {
	if data.mq == nil {
		return nopPublisher{}
	}
	return &eventPublisher{
		data:     data,
		exchange: exchangeName(c.Rabbitmq),
		log:      log.NewHelper(logger),
	}
}

func (p *eventPublisher) Publish(ctx context.Context, ev *biz.VerificationEvent) error {
	body, err := jsoniter.Marshal(ev)
	if err != nil {
		return err
	}
	return p.data.mq.Publish(
		p.exchange,      // exchange
		verificationKey, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

// nopPublisher stands in when no broker is configured.
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *biz.VerificationEvent) error {
	return nil
}
