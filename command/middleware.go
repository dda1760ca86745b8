package command

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lixenwraith/plane-battle/state"
	"github.com/lixenwraith/plane-battle/status"
)

// TracerName identifies spans produced by the pipeline
const TracerName = "github.com/lixenwraith/plane-battle/command"

// StateSource exposes the state read by audit middleware
type StateSource interface {
	State() *state.GameState
}

// StateLogger writes an audit line with a state summary before and after every command
type StateLogger struct {
	source StateSource
	logger *log.Logger
}

// NewStateLogger creates an audit middleware; a nil logger discards output
func NewStateLogger(source StateSource, logger *log.Logger) *StateLogger {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &StateLogger{source: source, logger: logger}
}

func (m *StateLogger) Before(ctx context.Context, name string, params any) {
	m.logger.Printf("[CMD] #%d %s before params=%+v state=%+v", CallID(ctx), name, params, m.source.State().Summary())
}

func (m *StateLogger) After(ctx context.Context, name string, params, result any, err error) {
	if err != nil {
		m.logger.Printf("[CMD] #%d %s failed params=%+v err=%v state=%+v", CallID(ctx), name, params, err, m.source.State().Summary())
		return
	}
	m.logger.Printf("[CMD] #%d %s after result=%+v state=%+v", CallID(ctx), name, result, m.source.State().Summary())
}

// Tracing records one OpenTelemetry span per command execution
// Spans are matched to their execution by CallID so hooks stay side-effect only
type Tracing struct {
	tracer trace.Tracer
	mu     sync.Mutex
	open   map[uint64]trace.Span
}

// NewTracing creates a tracing middleware; a nil provider uses the global one
func NewTracing(tp trace.TracerProvider) *Tracing {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Tracing{
		tracer: tp.Tracer(TracerName),
		open:   make(map[uint64]trace.Span),
	}
}

func (m *Tracing) Before(ctx context.Context, name string, _ any) {
	_, span := m.tracer.Start(ctx, "command."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("command.name", name)),
	)
	m.mu.Lock()
	m.open[CallID(ctx)] = span
	m.mu.Unlock()
}

func (m *Tracing) After(ctx context.Context, _ string, _, _ any, err error) {
	id := CallID(ctx)
	m.mu.Lock()
	span, ok := m.open[id]
	delete(m.open, id)
	m.mu.Unlock()
	if !ok {
		return
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("command.code", string(code)))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Metrics counts executions and failures in the status registry
type Metrics struct {
	reg      *status.Registry
	executed *atomic.Int64
	failed   *atomic.Int64
}

func NewMetrics(reg *status.Registry) *Metrics {
	return &Metrics{
		reg:      reg,
		executed: reg.Ints.Get(status.KeyCommands),
		failed:   reg.Ints.Get(status.KeyCommandErrors),
	}
}

func (m *Metrics) Before(context.Context, string, any) {}

func (m *Metrics) After(_ context.Context, name string, _, _ any, err error) {
	m.executed.Add(1)
	m.reg.Ints.Get(status.KeyCommands + "." + name).Add(1)
	if err != nil {
		m.failed.Add(1)
	}
}
