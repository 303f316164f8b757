// Package telemetry adapts OpenTelemetry spans to the tracer port.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/rebuild/internal/core/ports"
)

// InstrumentationName names the tracer of this tool.
const InstrumentationName = "go.trai.ch/rebuild"

// OTelTracer implements ports.Tracer on an OpenTelemetry tracer provider.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer creates a tracer from provider.
func NewOTelTracer(provider trace.TracerProvider) *OTelTracer {
	return &OTelTracer{tracer: provider.Tracer(InstrumentationName)}
}

// Start opens a span named name as a child of any span in ctx.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, s := t.tracer.Start(ctx, name)
	return ctx, span{s}
}

type span struct {
	trace.Span
}

func (s span) End() {
	s.Span.End()
}

// RecordError also marks the span failed, which is what the bridge reports.
func (s span) RecordError(err error) {
	s.Span.RecordError(err)
	s.SetStatus(codes.Error, err.Error())
}

func (s span) SetAttribute(key string, value any) {
	s.SetAttributes(keyValue(key, value))
}

func keyValue(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case time.Duration:
		return attribute.String(key, v.String())
	case []string:
		return attribute.StringSlice(key, v)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
