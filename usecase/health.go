package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AzielCF/az-content/domains/health"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/sirupsen/logrus"
)

type healthService struct {
	mu       sync.RWMutex
	checkers map[health.Component]health.Checker
	records  map[health.Component]health.HealthRecord
}

func NewHealthService() health.IHealthUsecase {
	return &healthService{
		checkers: make(map[health.Component]health.Checker),
		records:  make(map[health.Component]health.HealthRecord),
	}
}

func (s *healthService) Register(component health.Component, check health.Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[component] = check
}

func (s *healthService) GetStatus(ctx context.Context) ([]health.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]health.HealthRecord, 0, len(s.checkers))
	for component := range s.checkers {
		r, ok := s.records[component]
		if !ok {
			r = health.HealthRecord{Component: component, Status: health.StatusUnknown}
		}
		records = append(records, r)
	}
	sortRecords(records)
	return records, nil
}

func (s *healthService) Check(ctx context.Context, component health.Component) (health.HealthRecord, error) {
	s.mu.RLock()
	check, ok := s.checkers[component]
	s.mu.RUnlock()
	if !ok {
		return health.HealthRecord{}, pkgError.NotFoundError(fmt.Sprintf("component %s is not registered", component))
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	record := health.HealthRecord{
		Component:   component,
		Status:      health.StatusOk,
		LastChecked: time.Now(),
	}
	msg, err := check(checkCtx)
	if err != nil {
		record.Status = health.StatusError
		record.LastMessage = err.Error()
		logrus.WithError(err).Warnf("[Health] %s check failed", component)
	} else {
		record.LastMessage = msg
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if record.Status == health.StatusOk {
		checked := record.LastChecked
		record.LastSuccess = &checked
	} else if prev, ok := s.records[component]; ok {
		record.LastSuccess = prev.LastSuccess
	}
	s.records[component] = record
	return record, nil
}

func (s *healthService) CheckAll(ctx context.Context) ([]health.HealthRecord, error) {
	s.mu.RLock()
	components := make([]health.Component, 0, len(s.checkers))
	for c := range s.checkers {
		components = append(components, c)
	}
	s.mu.RUnlock()

	results := make([]health.HealthRecord, 0, len(components))
	for _, c := range components {
		res, err := s.Check(ctx, c)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	sortRecords(results)
	return results, nil
}

func (s *healthService) StartPeriodicChecks(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	logrus.Infof("[Health] starting periodic health checks loop (interval: %s)", interval)
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		logrus.Info("[Health] performing initial health check")
		_, _ = s.CheckAll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logrus.Debug("[Health] performing scheduled health check")
				_, _ = s.CheckAll(ctx)
			}
		}
	}()
}

func sortRecords(records []health.HealthRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Component < records[j].Component
	})
}
