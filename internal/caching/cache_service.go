package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storepos/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "storepos"

// productVersionTTL outlives any product entry so a bumped version is still
// visible to readers that started before the bump.
const productVersionTTL = 24 * time.Hour

// setProductScript writes a product only when its version key still holds
// the version the reader saw before going to the database.
var setProductScript = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

type CacheService interface {
	// Product caching. GetProduct also returns the product's cache version;
	// SetProduct is a no-op once DeleteProducts has moved that version on,
	// so a read that raced a write cannot re-cache stale stock.
	GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, int64, error)
	SetProduct(ctx context.Context, tenantID uuid.UUID, product *models.Product, version int64, ttl time.Duration) error
	DeleteProducts(ctx context.Context, tenantID uuid.UUID, productIDs ...uuid.UUID) error

	// Settings caching
	GetSettings(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error)
	SetSettings(ctx context.Context, settings *models.Settings, ttl time.Duration) error
	DeleteSettings(ctx context.Context, tenantID uuid.UUID) error

	// Statistics caching, keyed by tenant and window
	GetStatistics(ctx context.Context, tenantID uuid.UUID, window string) (*models.Statistics, error)
	SetStatistics(ctx context.Context, tenantID uuid.UUID, window string, stats *models.Statistics, ttl time.Duration) error
	InvalidateStatistics(ctx context.Context, tenantID uuid.UUID) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCacheService connects to addr, which may be a bare host:port or a
// redis:// / rediss:// URL.
func NewRedisCacheService(addr, password string, db int, logger *zap.Logger) CacheService {
	var opts *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			logger.Warn("invalid redis url, falling back to host:port", zap.Error(err))
			addr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
		} else {
			opts = parsed
		}
	}
	if opts == nil {
		opts = &redis.Options{Addr: addr}
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis ping failed on initialization", zap.String("addr", opts.Addr), zap.Error(err))
	} else {
		logger.Info("redis connection established", zap.String("addr", opts.Addr))
	}

	return &redisCacheService{client: client, logger: logger}
}

// NewRedisCacheServiceWithClient wraps an existing client.
func NewRedisCacheServiceWithClient(client *redis.Client, logger *zap.Logger) CacheService {
	return &redisCacheService{client: client, logger: logger}
}

func productKey(tenantID, productID uuid.UUID) string {
	return fmt.Sprintf("%s:product:%s:%s", keyPrefix, tenantID, productID)
}

func productVersionKey(tenantID, productID uuid.UUID) string {
	return fmt.Sprintf("%s:product-version:%s:%s", keyPrefix, tenantID, productID)
}

func settingsKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:settings:%s", keyPrefix, tenantID)
}

func statisticsKey(tenantID uuid.UUID, window string) string {
	return fmt.Sprintf("%s:statistics:%s:%s", keyPrefix, tenantID, window)
}

// getJSON returns false on a cache miss.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, int64, error) {
	vals, err := r.client.MGet(ctx, productKey(tenantID, productID), productVersionKey(tenantID, productID)).Result()
	if err != nil {
		return nil, 0, err
	}

	var version int64
	if raw, ok := vals[1].(string); ok {
		if version, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, 0, err
		}
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, version, nil
	}
	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		return nil, version, err
	}
	// tenant_id is not serialised
	product.TenantID = tenantID
	return &product, version, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, tenantID uuid.UUID, product *models.Product, version int64, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	keys := []string{productKey(tenantID, product.ID), productVersionKey(tenantID, product.ID)}
	return setProductScript.Run(ctx, r.client, keys, strconv.FormatInt(version, 10), data, ttl.Milliseconds()).Err()
}

// DeleteProducts drops the entries and bumps their versions in one
// transaction.
func (r *redisCacheService) DeleteProducts(ctx context.Context, tenantID uuid.UUID, productIDs ...uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range productIDs {
			versionKey := productVersionKey(tenantID, id)
			pipe.Incr(ctx, versionKey)
			pipe.Expire(ctx, versionKey, productVersionTTL)
			pipe.Del(ctx, productKey(tenantID, id))
		}
		return nil
	})
	return err
}

func (r *redisCacheService) GetSettings(ctx context.Context, tenantID uuid.UUID) (*models.Settings, error) {
	var settings models.Settings
	ok, err := r.getJSON(ctx, settingsKey(tenantID), &settings)
	if !ok || err != nil {
		return nil, err
	}
	settings.TenantID = tenantID
	return &settings, nil
}

func (r *redisCacheService) SetSettings(ctx context.Context, settings *models.Settings, ttl time.Duration) error {
	return r.setJSON(ctx, settingsKey(settings.TenantID), settings, ttl)
}

func (r *redisCacheService) DeleteSettings(ctx context.Context, tenantID uuid.UUID) error {
	return r.client.Del(ctx, settingsKey(tenantID)).Err()
}

func (r *redisCacheService) GetStatistics(ctx context.Context, tenantID uuid.UUID, window string) (*models.Statistics, error) {
	var stats models.Statistics
	ok, err := r.getJSON(ctx, statisticsKey(tenantID, window), &stats)
	if !ok || err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *redisCacheService) SetStatistics(ctx context.Context, tenantID uuid.UUID, window string, stats *models.Statistics, ttl time.Duration) error {
	return r.setJSON(ctx, statisticsKey(tenantID, window), stats, ttl)
}

func (r *redisCacheService) InvalidateStatistics(ctx context.Context, tenantID uuid.UUID) error {
	return r.deletePattern(ctx, fmt.Sprintf("%s:statistics:%s:*", keyPrefix, tenantID))
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	if err := r.deletePattern(ctx, fmt.Sprintf("%s:*:%s:*", keyPrefix, tenantID)); err != nil {
		return err
	}
	return r.DeleteSettings(ctx, tenantID)
}

// deletePattern removes every key matching pattern, walking with SCAN.
func (r *redisCacheService) deletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
