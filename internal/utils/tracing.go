package utils

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewTracerProvider installs a global tracer provider whose finished spans
// are written to logger at debug level
func NewTracerProvider(logger *logrus.Logger) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(&logSpanProcessor{logger: logger}),
	)
	otel.SetTracerProvider(tp)
	return tp
}

// logSpanProcessor logs spans as they end
type logSpanProcessor struct {
	logger *logrus.Logger
}

func (p *logSpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if !p.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}

	fields := logrus.Fields{
		"span":        s.Name(),
		"trace_id":    s.SpanContext().TraceID().String(),
		"duration_ms": s.EndTime().Sub(s.StartTime()).Milliseconds(),
		"status":      s.Status().Code.String(),
	}
	for _, attr := range s.Attributes() {
		fields[string(attr.Key)] = attr.Value.Emit()
	}
	p.logger.WithFields(fields).Debug("Span finished")
}

func (p *logSpanProcessor) Shutdown(ctx context.Context) error   { return nil }
func (p *logSpanProcessor) ForceFlush(ctx context.Context) error { return nil }
