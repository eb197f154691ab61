package data

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/facundofernandezmiguez/mutants/internal/conf"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	kredis "github.com/yola1107/kratos/v2/library/db/redis"
	kxorm "github.com/yola1107/kratos/v2/library/db/xorm"
	"github.com/yola1107/kratos/v2/log"
	"xorm.io/xorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewRedis, NewMysql, NewRabbitMQ, NewDnaRepo, NewEventPublisher)

// Data .
type Data struct {
	db  *xorm.Engine
	rdb redis.UniversalClient
	mq  *amqp.Channel
}

// NewData .
func NewData(c *conf.Data, logger log.Logger, db *xorm.Engine, rdb redis.UniversalClient, mq *amqp.Channel) (*Data, func(), error) {
	if err := db.Sync(new(dnaRecord)); err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
	}
	return &Data{
		db:  db,
		rdb: rdb,
		mq:  mq,
	}, cleanup, nil
}

func NewRedis(c *conf.Data, logger log.Logger) redis.UniversalClient {
	return kredis.NewClient(kredis.WithAddress(c.Redis.Addr))
}

func NewMysql(c *conf.Data, logger log.Logger) (*xorm.Engine, func(), error) {
	engine, err := kxorm.NewEngine(
		kxorm.WithDriver(c.Database.Driver),
		kxorm.WithDataSource(c.Database.Source),
	)
	if err != nil {
		return nil, nil, err
	}
	return engine, func() { engine.Close() }, nil
}

// NewRabbitMQ opens a channel on the configured broker and declares the
// verification exchange. A missing broker section disables publishing
// instead of failing startup.
func NewRabbitMQ(c *conf.Data, logger log.Logger) (*amqp.Channel, func(), error) {
	if c.Rabbitmq == nil || c.Rabbitmq.Host == "" {
		return nil, func() {}, nil
	}
	conn, err := amqp.Dial(rabbitURI(c.Rabbitmq))
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	err = ch.ExchangeDeclare(
		exchangeName(c.Rabbitmq), // name
		"direct",                 // kind
		true,                     // durable
		false,                    // auto-delete
		false,                    // internal
		false,                    // no-wait
		nil,                      // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}
	cleanup := func() {
		ch.Close()
		conn.Close()
	}
	return ch, cleanup, nil
}

// rabbitURI builds the broker URL, encoding credentials that may carry
// special characters.
func rabbitURI(c *conf.Rabbitmq) string {
	user := url.QueryEscape(c.Username)
	password := url.QueryEscape(c.Password)
	vhost := strings.TrimPrefix(c.Vhost, "/")
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", user, password, c.Host, c.Port, vhost)
}

func exchangeName(c *conf.Rabbitmq) string {
	if c == nil || c.Exchange == "" {
		return defaultExchange
	}
	return c.Exchange
}
