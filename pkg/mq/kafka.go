// Package mq 提供领域事件发布：配置了 broker 时写入 Kafka，否则仅记录日志
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Publisher 领域事件发布接口
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	Brokers      []string
	TopicPrefix  string
	MaxRetries   int
	RetryBackoff int
}

// Topic 拼接带前缀的 topic 名称
func Topic(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + "." + topic
}

// NewPublisher 按配置选择 Kafka 或日志发布器
func NewPublisher(cfg KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Info(context.Background(), "Kafka brokers not configured, events are logged only")
		return NewLogPublisher(cfg.TopicPrefix)
	}
	return NewProducer(cfg)
}

// KafkaProducer Kafka 生产者
type KafkaProducer struct {
	writer *kafka.Writer
	prefix string
}

// NewProducer 创建 Kafka 生产者
func NewProducer(cfg KafkaConfig) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Compression:            kafka.Gzip,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxRetries,
		WriteBackoffMin:        time.Duration(cfg.RetryBackoff) * time.Millisecond,
		WriteBackoffMax:        time.Duration(cfg.RetryBackoff*10) * time.Millisecond,
	}

	logger.Info(context.Background(), "Kafka producer created successfully", "brokers", cfg.Brokers)
	return &KafkaProducer{writer: writer, prefix: cfg.TopicPrefix}
}

// Publish 同步写入一条 JSON 消息
func (kp *KafkaProducer) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	full := Topic(kp.prefix, topic)
	msg := kafka.Message{
		Topic: full,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error(ctx, "Failed to send Kafka message", "topic", full, "key", key, "error", err)
		return err
	}

	logger.Debug(ctx, "Kafka message sent", "topic", full, "key", key)
	return nil
}

// Close 关闭生产者
func (kp *KafkaProducer) Close() error {
	return kp.writer.Close()
}

// LogPublisher 只写日志的发布器
type LogPublisher struct {
	prefix string
}

// NewLogPublisher 创建日志发布器
func NewLogPublisher(prefix string) *LogPublisher {
	return &LogPublisher{prefix: prefix}
}

// Publish 以 info 级别记录事件
func (p *LogPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	logger.Info(ctx, "Domain event", "topic", Topic(p.prefix, topic), "key", key, "payload", string(data))
	return nil
}

// Emit 发布事件，失败只记录日志
func Emit(ctx context.Context, p Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, key, event); err != nil {
		logger.Warn(ctx, "Failed to publish domain event", "topic", topic, "key", key, "error", err)
	}
}
