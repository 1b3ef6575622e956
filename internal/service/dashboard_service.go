package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/policy"
	"github.com/tickease/tickease/internal/repository"
)

// DashboardStats summarizes a principal's task workload.
type DashboardStats struct {
	TotalTasks      int `json:"totalTasks"`
	AssignedTasks   int `json:"assignedTasks"`
	CompletedTasks  int `json:"completedTasks"`
	IncompleteTasks int `json:"incompleteTasks"`
	OverdueTasks    int `json:"overdueTasks"`
}

// DashboardService computes per-principal task statistics, cached in Redis.
type DashboardService struct {
	tasks  repository.TaskRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardService constructs the service. A nil cache disables caching.
func NewDashboardService(tasks repository.TaskRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *DashboardService {
	return &DashboardService{tasks: tasks, cache: cache, ttl: ttl, logger: logger}
}

// Stats returns workload statistics: employees see their assigned tasks,
// customers the tasks that belong to them.
func (s *DashboardService) Stats(ctx context.Context, p policy.Principal) (*DashboardStats, error) {
	cacheKey := "dashboard:stats:" + p.ID
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var (
		tasks []domain.Task
		err   error
	)
	if p.IsEmployee() {
		tasks, err = s.tasks.ListByAssignee(ctx, p.ID)
	} else {
		tasks, err = s.tasks.ListByOwner(ctx, p.ID)
	}
	if err != nil {
		return nil, err
	}

	stats := computeStats(tasks, time.Now())
	s.toCache(ctx, cacheKey, stats)
	return stats, nil
}

func computeStats(tasks []domain.Task, now time.Time) *DashboardStats {
	stats := &DashboardStats{TotalTasks: len(tasks)}
	for _, task := range tasks {
		done := task.Status == domain.StatusCompleted || task.Status == domain.StatusClosed
		if done {
			stats.CompletedTasks++
		} else {
			stats.AssignedTasks++
			if task.DueDate != nil && task.DueDate.Before(now) {
				stats.OverdueTasks++
			}
		}
	}
	stats.IncompleteTasks = stats.TotalTasks - stats.CompletedTasks
	return stats
}

func (s *DashboardService) fromCache(ctx context.Context, key string) *DashboardStats {
	if s.cache == nil || s.ttl <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *DashboardService) toCache(ctx context.Context, key string, stats *DashboardStats) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil && s.logger != nil {
		s.logger.Debug("dashboard cache write failed", zap.Error(err))
	}
}
