package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HealthCheck pings one backend.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthMonitor keeps the latest result of a periodic set of checks.
type HealthMonitor struct {
	checks   []HealthCheck
	interval time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(interval time.Duration, logger *zap.Logger, checks ...HealthCheck) *HealthMonitor {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthMonitor{checks: checks, interval: interval, logger: logger}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Start runs the checks once and then on every tick until ctx is cancelled.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.RunChecks(ctx)
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.RunChecks(ctx)
			}
		}
	}()
}

// RunChecks performs every check and stores the result.
func (m *HealthMonitor) RunChecks(ctx context.Context) HealthStatus {
	status := HealthStatus{Healthy: true, Services: make(map[string]bool, len(m.checks))}
	for _, hc := range m.checks {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := hc.Check(checkCtx)
		cancel()
		status.Services[hc.Name] = err == nil
		if err != nil {
			status.Healthy = false
			m.logger.Warn("Health check failed", zap.String("service", hc.Name), zap.Error(err))
		}
	}
	status.CheckedAt = time.Now()

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}
