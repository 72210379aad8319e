package util

import (
	"context"
	"fmt"
	"time"

	"catalogo/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer обертка над Kafka writer для отправки событий каталога
// События CATEGORY_* / PRODUCT_* уходят в топик catalog_events
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer создает новый Kafka producer
// brokers - список брокеров Kafka в формате ["host:port"]
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		// Настройки для production окружения
		BatchSize:    100,
		BatchTimeout: 10 * time.Second,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishMessage отправляет сообщение в Kafka
// key - id сущности для партиционирования (сохраняет порядок событий одной сущности)
// value - JSON сериализованное событие CatalogEvent
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.RecordKafkaError(serviceName, p.topic, "produce")
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	metrics.RecordKafkaMessageProduced(serviceName, p.topic, time.Since(start))

	return nil
}

// Close закрывает Kafka writer и освобождает ресурсы
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
