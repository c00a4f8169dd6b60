package systems

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zeusync/gallery/internal/core/observability/log"
)

// Manager orchestrates all systems of a session.
// Handles execution order and lifecycle. It is not safe for concurrent use;
// the owning session drives it from a single goroutine.
type Manager struct {
	log     log.Log
	systems []System // execution order
	byName  map[string]System

	metrics ManagerMetrics
	onError []func(string, error)

	initialized bool
}

// ManagerMetrics provides system manager statistics
type ManagerMetrics struct {
	RegisteredSystems uint32
	EnabledSystems    uint32
	TotalUpdateTime   time.Duration
	AverageUpdateTime time.Duration
	Updates           uint64
	SystemErrorCount  map[string]uint32
	LastUpdateTime    time.Time
}

func NewManager(logger log.Log) *Manager {
	return &Manager{
		log:     logger.Named("systems"),
		byName:  make(map[string]System),
		metrics: ManagerMetrics{SystemErrorCount: make(map[string]uint32)},
	}
}

// RegisterSystem adds s to the execution order. Systems with equal priority
// keep registration order.
func (m *Manager) RegisterSystem(s System) error {
	if s == nil {
		return ErrNilSystem
	}
	if _, exists := m.byName[s.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrSystemExists, s.Name())
	}
	m.byName[s.Name()] = s
	m.systems = append(m.systems, s)
	slices.SortStableFunc(m.systems, func(a, b System) int {
		return int(b.Priority()) - int(a.Priority())
	})
	m.log.Debug("system registered", log.String("system", s.Name()), log.Int("priority", int(s.Priority())))
	return nil
}

func (m *Manager) UnregisterSystem(name string) error {
	if _, ok := m.byName[name]; !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	delete(m.byName, name)
	m.systems = slices.DeleteFunc(m.systems, func(s System) bool { return s.Name() == name })
	return nil
}

func (m *Manager) GetSystem(name string) (System, bool) {
	s, ok := m.byName[name]
	return s, ok
}

func (m *Manager) HasSystem(name string) bool {
	_, ok := m.byName[name]
	return ok
}

func (m *Manager) GetExecutionOrder() []string {
	names := make([]string, len(m.systems))
	for i, s := range m.systems {
		names[i] = s.Name()
	}
	return names
}

// InitializeAll initializes systems in execution order and stops at the first failure.
func (m *Manager) InitializeAll(ctx context.Context) error {
	for _, s := range m.systems {
		if err := s.Initialize(ctx); err != nil {
			return fmt.Errorf("initialize %s: %w", s.Name(), err)
		}
	}
	m.initialized = true
	return nil
}

// ShutdownAll shuts systems down in reverse order, collecting every error.
func (m *Manager) ShutdownAll(ctx context.Context) error {
	var all error
	for i := len(m.systems) - 1; i >= 0; i-- {
		s := m.systems[i]
		if err := s.Shutdown(ctx); err != nil {
			all = errors.Join(all, fmt.Errorf("shutdown %s: %w", s.Name(), err))
		}
	}
	m.initialized = false
	return all
}

func (m *Manager) IsInitialized() bool { return m.initialized }

func (m *Manager) EnableSystem(name string) error  { return m.setEnabled(name, true) }
func (m *Manager) DisableSystem(name string) error { return m.setEnabled(name, false) }

func (m *Manager) setEnabled(name string, enabled bool) error {
	s, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	s.SetEnabled(enabled)
	return nil
}

// Update runs every enabled system once for frame. A failing system does not
// stop the others; errors are joined.
func (m *Manager) Update(frame Frame) error {
	start := time.Now()
	var all error
	var enabled uint32
	for _, s := range m.systems {
		if !s.IsEnabled() {
			continue
		}
		enabled++
		if err := s.Update(frame); err != nil {
			m.metrics.SystemErrorCount[s.Name()]++
			for _, fn := range m.onError {
				fn(s.Name(), err)
			}
			all = errors.Join(all, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}

	elapsed := time.Since(start)
	m.metrics.RegisteredSystems = uint32(len(m.systems))
	m.metrics.EnabledSystems = enabled
	m.metrics.Updates++
	m.metrics.TotalUpdateTime += elapsed
	m.metrics.AverageUpdateTime = m.metrics.TotalUpdateTime / time.Duration(m.metrics.Updates)
	m.metrics.LastUpdateTime = time.Now()
	return all
}

// GetMetrics returns a copy of the manager counters.
func (m *Manager) GetMetrics() ManagerMetrics {
	out := m.metrics
	out.SystemErrorCount = make(map[string]uint32, len(m.metrics.SystemErrorCount))
	for k, v := range m.metrics.SystemErrorCount {
		out.SystemErrorCount[k] = v
	}
	return out
}

func (m *Manager) GetSystemMetrics(name string) (Metrics, bool) {
	s, ok := m.byName[name]
	if !ok {
		return Metrics{}, false
	}
	return s.GetMetrics(), true
}

// OnSystemError registers a callback invoked whenever a system update fails.
func (m *Manager) OnSystemError(fn func(string, error)) {
	m.onError = append(m.onError, fn)
}
