package health

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Checker reports whether one backing service is usable
type Checker interface {
	HealthCheck(ctx context.Context) error
	IsCritical() bool
	Name() string
}

// Manager runs a set of health checkers
type Manager struct {
	checkers []Checker
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewManager creates a new health manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		checkers: make([]Checker, 0),
		logger:   logger,
	}
}

// AddChecker adds a health checker to the manager
func (m *Manager) AddChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// StartupHealthCheck performs critical health checks that must pass for startup
func (m *Manager) StartupHealthCheck(ctx context.Context) error {
	results := m.RuntimeHealthCheck(ctx)

	for name, err := range results {
		if err != nil {
			m.logger.Warn("Service health check failed",
				zap.String("service", name),
				zap.Bool("critical", m.isCritical(name)),
				zap.Error(err))
		} else {
			m.logger.Info("Service health check passed", zap.String("service", name))
		}
	}

	if err := m.Critical(results); err != nil {
		return err
	}

	m.logger.Info("All critical services healthy", zap.Int("total_checks", len(results)))
	return nil
}

// RuntimeHealthCheck runs every checker and returns the error per service name
func (m *Manager) RuntimeHealthCheck(ctx context.Context) map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]error, len(m.checkers))
	for _, checker := range m.checkers {
		results[checker.Name()] = checker.HealthCheck(ctx)
	}
	return results
}

// Critical returns an error naming every critical checker that failed in results
func (m *Manager) Critical(results map[string]error) error {
	var failed []string
	for name, err := range results {
		if err != nil && m.isCritical(name) {
			failed = append(failed, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	sort.Strings(failed)
	return fmt.Errorf("critical services failed health check: %v", failed)
}

func (m *Manager) isCritical(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, checker := range m.checkers {
		if checker.Name() == name {
			return checker.IsCritical()
		}
	}
	return false
}

// FuncChecker adapts a function into a Checker
type FuncChecker struct {
	name     string
	critical bool
	check    func(ctx context.Context) error
}

// NewFuncChecker creates a checker named name that calls check
func NewFuncChecker(name string, critical bool, check func(ctx context.Context) error) *FuncChecker {
	return &FuncChecker{name: name, critical: critical, check: check}
}

func (f *FuncChecker) HealthCheck(ctx context.Context) error {
	return f.check(ctx)
}

func (f *FuncChecker) IsCritical() bool {
	return f.critical
}

func (f *FuncChecker) Name() string {
	return f.name
}
