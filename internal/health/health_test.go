package health

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func ok(context.Context) error { return nil }

func TestManagerAllHealthy(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.AddChecker(NewFuncChecker("dynamodb", true, ok))
	m.AddChecker(NewFuncChecker("cache", false, ok))

	results := m.RuntimeHealthCheck(context.Background())

	assert.Len(t, results, 2)
	assert.NoError(t, results["dynamodb"])
	assert.NoError(t, m.Critical(results))
	assert.NoError(t, m.StartupHealthCheck(context.Background()))
}

func TestManagerNonCriticalFailureIsTolerated(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.AddChecker(NewFuncChecker("dynamodb", true, ok))
	m.AddChecker(NewFuncChecker("memory", false, func(context.Context) error {
		return errors.New("degraded")
	}))

	results := m.RuntimeHealthCheck(context.Background())

	assert.Error(t, results["memory"])
	assert.NoError(t, m.Critical(results))
	assert.NoError(t, m.StartupHealthCheck(context.Background()))
}

func TestManagerCriticalFailures(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.AddChecker(NewFuncChecker("redis", true, func(context.Context) error {
		return errors.New("connection refused")
	}))
	m.AddChecker(NewFuncChecker("dynamodb", true, func(context.Context) error {
		return errors.New("table not active")
	}))

	err := m.StartupHealthCheck(context.Background())

	require.Error(t, err)
	// failures are reported in name order
	assert.Contains(t, err.Error(), "[dynamodb: table not active redis: connection refused]")
}

func TestManagerEmpty(t *testing.T) {
	m := NewManager(zap.NewNop())

	results := m.RuntimeHealthCheck(context.Background())

	assert.Empty(t, results)
	assert.NoError(t, m.Critical(results))
}

func TestManagerConcurrentUse(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewManager(zap.NewNop())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.AddChecker(NewFuncChecker("memory", false, ok))
		}()
		go func() {
			defer wg.Done()
			_ = m.Critical(m.RuntimeHealthCheck(context.Background()))
		}()
	}
	wg.Wait()

	assert.Len(t, m.RuntimeHealthCheck(context.Background()), 1)
}
