package caching

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"tradedocs/internal/models"
)

const (
	companyProfileKey = "company:profile"
	dashboardKey      = "dashboard:counts"
)

type CacheService interface {
	// Company profile caching; the profile is read on every document render.
	GetCompanyProfile(ctx context.Context) (*models.CompanyProfile, error)
	SetCompanyProfile(ctx context.Context, company *models.CompanyProfile, ttl time.Duration) error
	InvalidateCompanyProfile(ctx context.Context) error

	// Dashboard counters refreshed by the background job.
	GetDashboardCounts(ctx context.Context) (map[string]int, error)
	SetDashboardCounts(ctx context.Context, counts map[string]int, ttl time.Duration) error

	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisCacheService(addr, password string, db int, log *logrus.Logger) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).WithField("addr", parsedAddr).Warn("redis ping failed on initialization")
	}

	return &redisCacheService{client: client, log: log}
}

func (c *redisCacheService) GetCompanyProfile(ctx context.Context) (*models.CompanyProfile, error) {
	data, err := c.client.Get(ctx, companyProfileKey).Bytes()
	if err != nil {
		return nil, err
	}
	company := &models.CompanyProfile{}
	if err := json.Unmarshal(data, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (c *redisCacheService) SetCompanyProfile(ctx context.Context, company *models.CompanyProfile, ttl time.Duration) error {
	data, err := json.Marshal(company)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, companyProfileKey, data, ttl).Err()
}

func (c *redisCacheService) InvalidateCompanyProfile(ctx context.Context) error {
	return c.client.Del(ctx, companyProfileKey).Err()
}

func (c *redisCacheService) GetDashboardCounts(ctx context.Context) (map[string]int, error) {
	data, err := c.client.Get(ctx, dashboardKey).Bytes()
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (c *redisCacheService) SetDashboardCounts(ctx context.Context, counts map[string]int, ttl time.Duration) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardKey, data, ttl).Err()
}

func (c *redisCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *redisCacheService) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
