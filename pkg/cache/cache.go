package cache

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const verdictKeyPattern = "verdict:%x"

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}

// VerdictCache keeps recent verdicts keyed by a hash of the analyzed content
// so repeated analyses of the same page do not re-bill the classifier. All
// methods are nil-receiver safe; a nil cache is simply a miss.
type VerdictCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewVerdictCache(config Config, ttl time.Duration, logger *logrus.Logger) *VerdictCache {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	}
	if config.TLS {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}
	return &VerdictCache{
		client: redis.NewClient(options),
		ttl:    ttl,
		logger: logger,
	}
}

// NewVerdictCacheWithClient wires an existing redis client; used by tests.
func NewVerdictCacheWithClient(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *VerdictCache {
	return &VerdictCache{client: client, ttl: ttl, logger: logger}
}

func (c *VerdictCache) Get(ctx context.Context, content string) (*verdict.Verdict, bool) {
	if c == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	raw, err := c.client.Get(ctx, key(content)).Result()
	if err != nil {
		return nil, false
	}
	var v verdict.Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		c.logger.WithError(err).Warn("discarding undecodable cached verdict")
		return nil, false
	}
	return &v, true
}

func (c *VerdictCache) Set(ctx context.Context, content string, v *verdict.Verdict) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(content), string(raw), c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("failed to cache verdict")
	}
}

func key(content string) string {
	return fmt.Sprintf(verdictKeyPattern, sha256.Sum256([]byte(content)))
}
