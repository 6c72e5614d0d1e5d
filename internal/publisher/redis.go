package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"CoinTicker/internal/model"
)

// RedisPublisher stores the latest sample under a key and announces it on a pub/sub channel.
type RedisPublisher struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisPublisher connects to Redis and verifies the connection with a ping.
func NewRedisPublisher(ctx context.Context, addr, password string, db int, prefix string, ttl time.Duration) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
		MaxRetries:  1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}

	logrus.Infof("redis publisher connected: %s (db %d)", addr, db)
	return NewRedisPublisherWithClient(client, prefix, ttl), nil
}

// NewRedisPublisherWithClient wraps an existing client.
func NewRedisPublisherWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix, ttl: ttl}
}

func (p *RedisPublisher) Name() string { return "redis" }

// Channel is the pub/sub channel samples for symbol are published on.
func (p *RedisPublisher) Channel(symbol string) string {
	return p.prefix + strings.ToLower(symbol)
}

// LatestKey holds the most recent sample for symbol.
func (p *RedisPublisher) LatestKey(symbol string) string {
	return p.Channel(symbol) + ":latest"
}

func (p *RedisPublisher) Render(ctx context.Context, s model.PriceSample) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal sample: %w", err)
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, p.LatestKey(s.Symbol), data, p.ttl)
	pipe.Publish(ctx, p.Channel(s.Symbol), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish sample: %w", err)
	}
	return nil
}

// Latest reads back the most recent sample for symbol.
func (p *RedisPublisher) Latest(ctx context.Context, symbol string) (model.PriceSample, error) {
	var s model.PriceSample
	data, err := p.client.Get(ctx, p.LatestKey(symbol)).Bytes()
	if err != nil {
		return s, fmt.Errorf("get latest sample: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode latest sample: %w", err)
	}
	return s, nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
