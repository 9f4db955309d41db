// Package kafka 提供了与 Kafka 消息队列交互的功能：发布继任事件、消费成员命令。
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"

	"succession-go/internal/config"
	"succession-go/pkg/log"
	"succession-go/pkg/tasks"
)

// CommandProcessor 处理一条成员命令，解耦 Kafka 消费者与具体的业务实现。
type CommandProcessor interface {
	Process(ctx context.Context, cmd tasks.MemberCommand) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer 把继任事件写入事件主题，以成员 id 作为消息 key 保证同一成员的事件有序。
type Producer struct {
	writer messageWriter
}

// NewProducer 初始化 Kafka 生产者。
func NewProducer(cfg config.KafkaConfig) *Producer {
	log.Infof("Kafka 生产者初始化成功, topic=%s", cfg.EventTopic)
	return &Producer{writer: &kafka.Writer{
		Addr:     kafka.TCP(brokerList(cfg.Brokers)...),
		Topic:    cfg.EventTopic,
		Balancer: &kafka.Hash{},
	}}
}

// PublishEvent 发送一个继任事件。
func (p *Producer) PublishEvent(ctx context.Context, evt tasks.SuccessionEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.MemberID, 10)),
		Value: value,
	})
}

// Close 关闭底层 writer，刷新未发送的消息。
func (p *Producer) Close() error {
	return p.writer.Close()
}

// AttemptCounter 记录一条命令失败的次数。
type AttemptCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

type redisAttemptCounter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisAttemptCounter 使用 Redis 计数失败次数，计数在 ttl 后过期。
func NewRedisAttemptCounter(rdb *redis.Client, ttl time.Duration) AttemptCounter {
	return &redisAttemptCounter{rdb: rdb, ttl: ttl}
}

func (c *redisAttemptCounter) Incr(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	_ = c.rdb.Expire(ctx, key, c.ttl).Err()
	return n, nil
}

func (c *redisAttemptCounter) Reset(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// defaultRetryBackoff 是同一条命令两次重试之间的间隔。
const defaultRetryBackoff = 500 * time.Millisecond

// Consumer 从命令主题读取成员命令并交给 CommandProcessor 处理。
// 暂时性失败在拉取下一条消息之前原地重试，重试次数记录在 AttemptCounter 中，重启后继续累计。
type Consumer struct {
	reader      messageReader
	processor   CommandProcessor
	attempts    AttemptCounter
	maxAttempts int64
	backoff     time.Duration
}

// NewConsumer 创建一个命令消费者。
func NewConsumer(cfg config.KafkaConfig, processor CommandProcessor, attempts AttemptCounter) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokerList(cfg.Brokers),
		Topic:    cfg.CommandTopic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 1e6, // 1MB
	})
	return newConsumer(r, processor, attempts, cfg.MaxAttempts, defaultRetryBackoff)
}

func newConsumer(r messageReader, processor CommandProcessor, attempts AttemptCounter, maxAttempts int, backoff time.Duration) *Consumer {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Consumer{reader: r, processor: processor, attempts: attempts, maxAttempts: int64(maxAttempts), backoff: backoff}
}

// Run 循环消费消息，直到 ctx 被取消或读取失败。
func (c *Consumer) Run(ctx context.Context) error {
	log.Info("Kafka 命令消费者已启动")
	defer func() {
		if err := c.reader.Close(); err != nil {
			log.Errorf("关闭 Kafka 消费者失败: %v", err)
		}
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("从 Kafka 读取消息失败: %w", err)
		}
		c.handle(ctx, m)
	}
}

// handle 处理单条消息并决定是否提交 offset。
// 只有 ctx 被取消时才会不提交就返回，其余情况都会提交，保证后续消息不会越过一条未处理的命令。
func (c *Consumer) handle(ctx context.Context, m kafka.Message) {
	var cmd tasks.MemberCommand
	if err := json.Unmarshal(m.Value, &cmd); err != nil {
		log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
		// 消息格式错误，直接提交，避免阻塞队列
		c.commit(ctx, m)
		return
	}

	key := attemptsKey(cmd, m)
	var local int64
	for {
		err := c.processor.Process(ctx, cmd)
		if err == nil {
			log.Infof("成员命令处理成功: action=%s member=%d", cmd.Action, cmd.MemberID)
			c.resetAttempts(ctx, key)
			c.commit(ctx, m)
			return
		}

		if errors.Is(err, tasks.ErrPermanent) {
			log.Warnf("成员命令被拒绝，不再重试: action=%s member=%d err=%v", cmd.Action, cmd.MemberID, err)
			c.resetAttempts(ctx, key)
			c.commit(ctx, m)
			return
		}

		local++
		attempts := c.recordFailure(ctx, key, local)
		log.Errorf("成员命令处理失败(%d/%d): action=%s member=%d err=%v", attempts, c.maxAttempts, cmd.Action, cmd.MemberID, err)
		if attempts >= c.maxAttempts {
			log.Errorf("成员命令多次失败(>=%d)，提交 offset 终止重试: key=%s", c.maxAttempts, key)
			c.resetAttempts(ctx, key)
			c.commit(ctx, m)
			return
		}

		select {
		case <-ctx.Done():
			// 停机时不提交，下次启动从这条命令继续
			return
		case <-time.After(c.backoff):
		}
	}
}

// recordFailure 返回该命令累计失败次数。Redis 不可用时退回本次会话内的计数。
func (c *Consumer) recordFailure(ctx context.Context, key string, local int64) int64 {
	if c.attempts == nil {
		return local
	}
	n, err := c.attempts.Incr(ctx, key)
	if err != nil {
		log.Warnf("记录命令失败次数失败: key=%s err=%v", key, err)
		return local
	}
	return n
}

func (c *Consumer) resetAttempts(ctx context.Context, key string) {
	if c.attempts != nil {
		_ = c.attempts.Reset(ctx, key)
	}
}

func (c *Consumer) commit(ctx context.Context, m kafka.Message) {
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
	}
}

// brokerList 支持以逗号分隔的多个 broker 地址。
func brokerList(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func attemptsKey(cmd tasks.MemberCommand, m kafka.Message) string {
	if cmd.CommandID != "" {
		return "kafka:attempts:" + cmd.CommandID
	}
	return fmt.Sprintf("kafka:attempts:%s:%d:%d", m.Topic, m.Partition, m.Offset)
}

// StartConsumer 创建命令消费者并阻塞运行，直到 ctx 被取消。
func StartConsumer(ctx context.Context, cfg config.KafkaConfig, processor CommandProcessor, attempts AttemptCounter) {
	if err := NewConsumer(cfg, processor, attempts).Run(ctx); err != nil {
		log.Errorf("Kafka 命令消费者退出: %v", err)
	}
}
