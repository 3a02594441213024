package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces catalog keys.
const DefaultRedisPrefix = "polyfill:"

// RedisClient is the subset of go-redis used by RedisProvider.
// Both *redis.Client and redis.UniversalClient satisfy it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	MSet(ctx context.Context, values ...any) *redis.StatusCmd
}

// RedisProvider stores the catalog in a Redis keyspace:
//
//	<prefix>meta:<name>  JSON metadata
//	<prefix>raw:<name>   implementation text
//	<prefix>min:<name>   minified implementation text
//	<prefix>aliases      JSON alias table
type RedisProvider struct {
	client RedisClient
	prefix string
}

// RedisOption configures a RedisProvider.
type RedisOption func(*RedisProvider)

// WithRedisPrefix overrides DefaultRedisPrefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(p *RedisProvider) {
		p.prefix = prefix
	}
}

// NewRedisProvider returns a catalog backed by client.
func NewRedisProvider(client RedisClient, opts ...RedisOption) *RedisProvider {
	p := &RedisProvider{client: client, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *RedisProvider) metaKey(name string) string { return p.prefix + "meta:" + name }

func (p *RedisProvider) sourceKey(name string, variant Variant) string {
	return p.prefix + string(variant) + ":" + name
}

func (p *RedisProvider) get(ctx context.Context, key string) (string, error) {
	val, err := p.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Join(ErrBackendFailure, fmt.Errorf("redis get %s: %w", key, err))
	}
	return val, nil
}

func (p *RedisProvider) Meta(ctx context.Context, name string) (*Meta, error) {
	val, err := p.get(ctx, p.metaKey(name))
	if err != nil {
		return nil, err
	}
	return DecodeMeta([]byte(val))
}

func (p *RedisProvider) Source(ctx context.Context, name string, variant Variant) (string, error) {
	if !variant.Valid() {
		return "", ErrInvalidVariant
	}
	return p.get(ctx, p.sourceKey(name, variant))
}

func (p *RedisProvider) Aliases(ctx context.Context) (map[string][]string, error) {
	val, err := p.get(ctx, p.prefix+"aliases")
	if errors.Is(err, ErrNotFound) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeAliases([]byte(val))
}

// WriteRecords stores a batch of features with a single MSET.
func (p *RedisProvider) WriteRecords(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	values := make([]any, 0, len(records)*6)
	for _, r := range records {
		meta, err := EncodeMeta(r.Meta)
		if err != nil {
			return fmt.Errorf("%w: %s", err, r.Name)
		}
		values = append(values,
			p.metaKey(r.Name), string(meta),
			p.sourceKey(r.Name, VariantRaw), r.Raw,
			p.sourceKey(r.Name, VariantMin), r.Min,
		)
	}
	if err := p.client.MSet(ctx, values...).Err(); err != nil {
		return errors.Join(ErrBackendFailure, err)
	}
	return nil
}

func (p *RedisProvider) WriteAliases(ctx context.Context, aliases map[string][]string) error {
	data, err := json.Marshal(aliases)
	if err != nil {
		return errors.Join(ErrInvalidAliases, err)
	}
	if err := p.client.Set(ctx, p.prefix+"aliases", string(data), 0).Err(); err != nil {
		return errors.Join(ErrBackendFailure, err)
	}
	return nil
}
