package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"motri-backend/shared/config"
	"motri-backend/shared/database/models"
)

const (
	reportListKey = "reports:all"
	reportListTTL = 5 * time.Minute
)

// ReportCache keeps the director dashboard's report listing in Redis so
// repeated polls don't hit the database. The cache is invalidated on every
// submit and delete; a stale entry can live at most reportListTTL.
type ReportCache struct {
	client *redis.Client
}

// NewReportCache connects to Redis and verifies the connection.
func NewReportCache(cfg *config.Config) (*ReportCache, error) {
	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	log.Printf("✅ Report cache initialized - %s:%s DB:%d", cfg.RedisHost, cfg.RedisPort, redisDB)

	return &ReportCache{client: client}, nil
}

// GetReports returns the cached listing, or ok=false on a miss.
func (rc *ReportCache) GetReports(ctx context.Context) ([]models.Report, bool) {
	data, err := rc.client.Get(ctx, reportListKey).Bytes()
	if err != nil {
		return nil, false
	}

	var reports []models.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		log.Printf("❌ Failed to decode cached reports: %v", err)
		rc.client.Del(ctx, reportListKey)
		return nil, false
	}

	return reports, true
}

// SetReports stores the listing with the default TTL.
func (rc *ReportCache) SetReports(ctx context.Context, reports []models.Report) {
	data, err := json.Marshal(reports)
	if err != nil {
		log.Printf("❌ Failed to encode reports for cache: %v", err)
		return
	}

	if err := rc.client.Set(ctx, reportListKey, data, reportListTTL).Err(); err != nil {
		log.Printf("❌ Failed to cache reports: %v", err)
	}
}

// Invalidate drops the cached listing.
func (rc *ReportCache) Invalidate(ctx context.Context) {
	if err := rc.client.Del(ctx, reportListKey).Err(); err != nil {
		log.Printf("❌ Failed to invalidate report cache: %v", err)
	}
}
