package systems

import (
	"context"
	"time"
)

// System represents a per-frame game logic processor driven by the Manager.
type System interface {
	// Identity

	Name() string

	// Lifecycle

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error

	// Execution

	Update(frame Frame) error

	// Configuration

	Priority() Priority

	// State management

	IsEnabled() bool
	SetEnabled(bool)

	// Performance monitoring

	GetMetrics() Metrics
}

// Frame is the timing information handed to every system once per tick.
// Time and Delta are in seconds.
type Frame struct {
	Time  float64
	Delta float64
	Count uint64
}

// Next returns the frame that follows f after delta seconds.
func (f Frame) Next(delta float64) Frame {
	return Frame{Time: f.Time + delta, Delta: delta, Count: f.Count + 1}
}

// Priority defines execution order priority; higher runs first.
type Priority uint16

// System priorities
const (
	PriorityLowest  Priority = 100
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	MinExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
	EntitiesProcessed    uint64
}

// Record folds one execution into the metrics.
func (m *Metrics) Record(elapsed time.Duration, processed uint64, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += elapsed
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if elapsed > m.MaxExecutionTime {
		m.MaxExecutionTime = elapsed
	}
	if m.ExecutionCount == 1 || elapsed < m.MinExecutionTime {
		m.MinExecutionTime = elapsed
	}
	m.EntitiesProcessed += processed
	m.LastExecutionTime = time.Now()
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}
