package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"civicwatch/internal/repository"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = time.Minute
)

type Stats struct {
	TotalPosts   int64                        `json:"total_posts"`
	ByStatus     []repository.StatusCount     `json:"by_status"`
	ByDepartment []repository.DepartmentCount `json:"by_department"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	statsRepo repository.StatsRepository
	redis     *redis.Client
}

func NewService(statsRepo repository.StatsRepository, rdb *redis.Client) Service {
	return &service{
		statsRepo: statsRepo,
		redis:     rdb,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	total, err := s.statsRepo.CountPosts(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.statsRepo.CountPostsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byDepartment, err := s.statsRepo.CountPostsByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalPosts:   total,
		ByStatus:     byStatus,
		ByDepartment: byDepartment,
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, statsCacheKey, statsJSON, statsCacheTTL).Err()
		}
	}

	return stats, nil
}
