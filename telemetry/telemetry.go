// Package telemetry provides hierarchical timing collection for operations.
// It allows tracking operation durations in a tree structure for detailed
// performance analysis.
//
// The telemetry system uses the context pattern for non-intrusive instrumentation.
// Collectors are passed through context and can be enabled/disabled without
// changing function signatures.
//
// Example usage:
//
//	// Create a timing collector
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	// Instrument operations
//	timer := collector.Start("Scan file")
//	defer timer.End()
//
//	// Nested operations
//	childTimer := timer.Child("Walk words")
//	// ... work ...
//	childTimer.End()
//
//	// Print report
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/textwin/output"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

var (
	collectorKey = contextKey{}
	rootTimerKey = &struct{ name string }{"rootTimer"}
)

// Collector is the main interface for collecting telemetry data.
// Implementations can collect timings, metrics, or other telemetry data.
type Collector interface {
	// Start begins timing an operation and returns a Timer.
	// The timer should be ended with End() when the operation completes.
	Start(name string) Timer

	// Report outputs the collected telemetry to a writer.
	// The format is implementation-specific.
	// Styles add terminal coloring and may be nil for plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation's timing.
// Timers support hierarchical nesting via Child().
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	// The child timer will appear nested in the output.
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
// The collector can be retrieved later with FromContext.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context.
// If no collector is present, returns a NoOpCollector that does nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithRootTimer attaches a timer to the context so that instrumented callees
// nest their timers under it instead of starting parallel roots.
func WithRootTimer(ctx context.Context, timer Timer) context.Context {
	return context.WithValue(ctx, rootTimerKey, timer)
}

// StartTimer begins timing an operation under the root timer carried by the
// context. When no root timer is present it starts a top-level timer on the
// context's collector, which is a no-op timer when telemetry is disabled.
func StartTimer(ctx context.Context, name string) Timer {
	if timer, ok := ctx.Value(rootTimerKey).(Timer); ok {
		return timer.Child(name)
	}
	return FromContext(ctx).Start(name)
}
