package envconfig

import (
	"github.com/IBM/sarama"
	"github.com/caarlos0/env/v11"
)

type kafkaEnv struct {
	Brokers                     []string `env:"KAFKA_BROKERS,required"`
	OrderCreatedTopicName       string   `env:"ORDER_CREATED_TOPIC_NAME" envDefault:"orders.created"`
	OrderCreatedConsumerGroupID string   `env:"ORDER_CREATED_CONSUMER_GROUP_ID" envDefault:"nexus-notification"`
}

type kafka struct {
	raw kafkaEnv
}

func NewKafkaConfig() (*kafka, error) {
	var raw kafkaEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &kafka{raw: raw}, nil
}

func (cfg *kafka) Brokers() []string         { return cfg.raw.Brokers }
func (cfg *kafka) OrderCreatedTopic() string { return cfg.raw.OrderCreatedTopicName }
func (cfg *kafka) OrderCreatedConsumerGroupID() string {
	return cfg.raw.OrderCreatedConsumerGroupID
}

func (cfg *kafka) OrderCreatedProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V4_0_0_0
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	return config
}

func (cfg *kafka) OrderCreatedConsumerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V4_0_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	return config
}
