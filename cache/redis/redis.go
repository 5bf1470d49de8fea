package redis

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkoval/notewave/cache"
)

type RedisNotewaveCache struct {
	client redis.UniversalClient
}

func NewRedisNotewaveCache(ctx context.Context, devMode bool, redisEndpoint string) (*RedisNotewaveCache, error) {
	var client redis.UniversalClient
	if devMode {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: redisEndpoint,
			// AWS elasticache endpoints require TLS
			TLSConfig: &tls.Config{},
		})
	}

	err := client.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return &RedisNotewaveCache{client: client}, nil
}

func (redisCache *RedisNotewaveCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := redisCache.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, cache.ErrCacheMiss
		}
		return nil, err
	}
	return val, nil
}

func (redisCache *RedisNotewaveCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return redisCache.client.Set(ctx, key, value, ttl).Err()
}

func (redisCache *RedisNotewaveCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	// In Redis Cluster, keys may hash to different slots; delete one by one
	// so a cross-slot DEL does not fail the whole invalidation.
	for _, key := range keys {
		if err := redisCache.client.Del(ctx, key).Err(); err != nil {
			return err
		}
	}

	return nil
}

func (redisCache *RedisNotewaveCache) ScanPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := redisCache.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}

func (redisCache *RedisNotewaveCache) Publish(ctx context.Context, channel string, message []byte) error {
	if err := redisCache.client.Publish(ctx, channel, message).Err(); err != nil {
		return err
	}
	return nil
}

func (redisCache *RedisNotewaveCache) Subscribe(ctx context.Context, channel string, handler func(message []byte)) error {
	pubsub := redisCache.client.Subscribe(ctx, channel)
	// Ensure subscription is established
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		log.Printf("Pubsub channel closed: %s", channel)
		return err
	}

	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(msg.Payload))
			}
		}
	}()

	return nil
}
