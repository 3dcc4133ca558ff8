package cache

import (
	"encoding/json"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/fintrack-ml/internal/logger"
	"max.ks1230/fintrack-ml/internal/model/anomaly"
	"max.ks1230/fintrack-ml/internal/model/health"
)

const (
	assessmentTTL = 60 * 60 // seconds
	anomaliesTTL  = 15 * 60
)

type config interface {
	Hosts() []string
}

// MemcacheClient caches the latest health assessment and recent anomaly
// results per user.
type MemcacheClient struct {
	client *memcache.Client
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func assessmentKey(userID string) string { return "health:" + userID }

func anomaliesKey(userID string) string { return "anomalies:" + userID }

func (mc *MemcacheClient) CacheLatestAssessment(userID string, a health.Assessment) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "marshal assessment")
	}
	return mc.client.Set(&memcache.Item{
		Key:        assessmentKey(userID),
		Value:      raw,
		Expiration: assessmentTTL,
	})
}

// LatestAssessment returns the cached assessment, or nil on a cache miss.
func (mc *MemcacheClient) LatestAssessment(userID string) (*health.Assessment, error) {
	item, err := mc.client.Get(assessmentKey(userID))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var a health.Assessment
	if err := json.Unmarshal(item.Value, &a); err != nil {
		return nil, errors.Wrap(err, "unmarshal assessment")
	}
	return &a, nil
}

func (mc *MemcacheClient) CacheRecentAnomalies(userID string, results []anomaly.Result) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return errors.Wrap(err, "marshal anomalies")
	}
	return mc.client.Set(&memcache.Item{
		Key:        anomaliesKey(userID),
		Value:      raw,
		Expiration: anomaliesTTL,
	})
}

// RecentAnomalies returns the cached anomaly results; a miss yields an
// empty slice.
func (mc *MemcacheClient) RecentAnomalies(userID string) ([]anomaly.Result, error) {
	item, err := mc.client.Get(anomaliesKey(userID))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var results []anomaly.Result
	if err := json.Unmarshal(item.Value, &results); err != nil {
		return nil, errors.Wrap(err, "unmarshal anomalies")
	}
	return results, nil
}

func (mc *MemcacheClient) Ping() error {
	return mc.client.Ping()
}
