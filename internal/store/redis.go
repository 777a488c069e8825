package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arduinolearn/commentboard/internal/comment"
)

const (
	redisIDSet       = Collection + ":ids"
	redisKeyPrefix   = Collection + ":doc:"
	redisChangesChan = Collection + ":changes"

	// appendAttempts bounds the optimistic WATCH/MULTI retry on AppendReply.
	appendAttempts = 5
)

// RedisStore is a document store backed by Redis: one JSON document per
// comment key, an ID set for listing, and a pub/sub channel for change
// fan-out so every process sees remote mutations.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis using a redis:// URL.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// List returns every comment in the collection.
func (s *RedisStore) List(ctx context.Context) ([]comment.Comment, error) {
	ids, err := s.client.SMembers(ctx, redisIDSet).Result()
	if err != nil {
		return nil, wrapRedisErr("listing comment ids", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKey(id)
	}

	docs, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, wrapRedisErr("fetching comments", err)
	}

	comments := make([]comment.Comment, 0, len(docs))
	for i, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			// ID set member without a document: deleted concurrently.
			continue
		}
		var c comment.Comment
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			slog.Warn("skipping undecodable comment document", "id", ids[i], "error", err)
			continue
		}
		c.ID = ids[i]
		comments = append(comments, c)
	}

	return comments, nil
}

// Insert adds a comment, stamping the ID and creation time.
func (s *RedisStore) Insert(ctx context.Context, c comment.Comment) (string, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = comment.Now()
	c.Replies = nil

	doc, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding comment: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKey(c.ID), doc, 0)
	pipe.SAdd(ctx, redisIDSet, c.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", wrapRedisErr("inserting comment", err)
	}

	s.publishChange(ctx)
	return c.ID, nil
}

// AppendReply appends a reply to a comment's reply list. The append is
// atomic: concurrent appends are serialized with WATCH/MULTI.
func (s *RedisStore) AppendReply(ctx context.Context, id string, r comment.Reply) error {
	key := redisKey(id)

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var c comment.Comment
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return fmt.Errorf("decoding comment %s: %w", id, err)
		}
		c.Replies = append(c.Replies, r)

		doc, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encoding comment %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, doc, 0)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < appendAttempts; attempt++ {
		err = s.client.Watch(ctx, txn, key)
		if err != redis.TxFailedErr {
			break
		}
	}
	if err != nil {
		return wrapRedisErr("appending reply", err)
	}

	s.publishChange(ctx)
	return nil
}

// Delete removes a comment document and its ID set entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.SRem(ctx, redisIDSet, id).Result()
	if err != nil {
		return wrapRedisErr("deleting comment", err)
	}
	if removed == 0 {
		return fmt.Errorf("deleting comment %s: %w", id, ErrNotFound)
	}

	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return wrapRedisErr("deleting comment document", err)
	}

	s.publishChange(ctx)
	return nil
}

// Subscribe listens on the change channel until stop is called or ctx ends.
func (s *RedisStore) Subscribe(ctx context.Context, onChange func(), onError func(error)) (func(), error) {
	pubsub := s.client.Subscribe(ctx, redisChangesChan)

	// Force the subscription to be established before returning.
	if _, err := pubsub.Receive(ctx); err != nil {
		closeErr := pubsub.Close()
		if closeErr != nil {
			slog.Warn("closing failed subscription", "error", closeErr)
		}
		return nil, wrapRedisErr("subscribing to changes", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				_ = msg
				onChange()
			}
		}
	}()

	stop := func() {
		if err := pubsub.Close(); err != nil && onError != nil {
			onError(fmt.Errorf("closing subscription: %w", err))
		}
	}
	return stop, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// publishChange notifies subscribers. Publish failures are logged: the
// mutation itself already succeeded and reloads will catch up.
func (s *RedisStore) publishChange(ctx context.Context) {
	if err := s.client.Publish(ctx, redisChangesChan, "changed").Err(); err != nil {
		slog.Warn("publishing change notification", "error", err)
	}
}

// wrapRedisErr maps Redis ACL refusals onto ErrPermissionDenied and wraps
// everything else generically.
func wrapRedisErr(op string, err error) error {
	if strings.Contains(err.Error(), "NOPERM") || strings.Contains(err.Error(), "NOAUTH") {
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}
	return fmt.Errorf("%s: %w", op, err)
}
