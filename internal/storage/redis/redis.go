// Package redis stores the cart and the recently viewed history in Redis so
// they survive restarts.
package redis

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-redis/redis/v8"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/recent"
)

// RecentlyViewedKey is the list holding viewed product ids.
const RecentlyViewedKey = "recently-viewed"

var (
	_ cart.Storage   = (*KV)(nil)
	_ recent.Tracker = (*Tracker)(nil)
)

// NewClient connects to the Redis server at url and verifies the connection.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return client, nil
}

// KV is a key-value store over plain Redis strings. Keys are namespaced with
// a prefix.
type KV struct {
	client redis.UniversalClient
	prefix string
}

// NewKV creates a KV. Keys are stored as prefix + key.
func NewKV(client redis.UniversalClient, prefix string) *KV {
	return &KV{client: client, prefix: prefix}
}

// Get implements cart.Storage.
func (kv *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := kv.client.Get(ctx, kv.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "get")
	}
	return v, true, nil
}

// Set implements cart.Storage.
func (kv *KV) Set(ctx context.Context, key, value string) error {
	if err := kv.client.Set(ctx, kv.prefix+key, value, 0).Err(); err != nil {
		return errors.Wrap(err, "set")
	}
	return nil
}

// Tracker keeps viewed product ids in a capped Redis list, most recent first.
type Tracker struct {
	client redis.UniversalClient
	key    string
	max    int64
}

// NewTracker creates a Tracker holding at most max ids under key.
func NewTracker(client redis.UniversalClient, key string, max int) *Tracker {
	if max <= 0 {
		max = recent.DefaultMax
	}
	return &Tracker{client: client, key: key, max: int64(max)}
}

// IDs implements recent.Tracker. Entries that are not ids are skipped.
func (t *Tracker) IDs(ctx context.Context) ([]int64, error) {
	vals, err := t.client.LRange(ctx, t.key, 0, t.max-1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "lrange")
	}
	ids := make([]int64, 0, len(vals))
	for _, v := range vals {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// TrackView implements recent.Tracker. The id moves to the head of the list.
func (t *Tracker) TrackView(ctx context.Context, productID int64) error {
	member := strconv.FormatInt(productID, 10)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, t.key, 0, member)
		pipe.LPush(ctx, t.key, member)
		pipe.LTrim(ctx, t.key, 0, t.max-1)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "track view")
	}
	return nil
}

// Clear implements recent.Tracker.
func (t *Tracker) Clear(ctx context.Context) error {
	if err := t.client.Del(ctx, t.key).Err(); err != nil {
		return errors.Wrap(err, "del")
	}
	return nil
}
