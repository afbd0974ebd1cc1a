package config

import (
	"time"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
	DBReadTimeout() time.Duration
	DBWriteTimeout() time.Duration
	AdminToken() string
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Database interface {
	MigrationDirectory() string
	DSN() string
}

type Mongo interface {
	DSN() string
	DatabaseName() string
	ProductsCollection() string
	WishlistsCollection() string
}

type Kafka interface {
	Brokers() []string
	OrderCreatedTopic() string
	OrderCreatedConsumerGroupID() string
	OrderCreatedProducerConfig() *sarama.Config
	OrderCreatedConsumerConfig() *sarama.Config
}

type Cart interface {
	TaxRate() decimal.Decimal
	Currency() currency.Unit
	ClearRetries() uint64
	ClearBackoff() time.Duration
	SessionCookie() string
}

type Mailer interface {
	Endpoint() string
	ServiceID() string
	TemplateID() string
	PublicKey() string
	Timeout() time.Duration
}
