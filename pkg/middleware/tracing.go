package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kadirpekel/agentcore/pkg/strategy"
)

// spanKey is used to thread the active span between Before and After
// without reaching back into otel's own context lookup twice.
type spanKeyType struct{}

var spanKey = spanKeyType{}

// TracerConfig controls the stdout span exporter. There is no OTLP
// collector endpoint here: a core execution library has no business
// assuming one exists, so spans are written to an io.Writer instead.
type TracerConfig struct {
	ServiceName string
	Writer      stdouttrace.Option // typically stdouttrace.WithWriter(...)
}

// NewTracerProvider builds an otel TracerProvider backed by the stdout
// exporter, with no OTLP-gRPC exporter wired.
func NewTracerProvider(cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
	if cfg.Writer != nil {
		opts = append(opts, cfg.Writer)
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("middleware: create stdout span exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	return tp, nil
}

// Tracing returns a Middleware that opens one span named "strategy.execute"
// per strategy execution (Execute or Stream), tagged with the agent id, and
// closes it with the outcome.
func Tracing(tp trace.TracerProvider, name string) Middleware {
	tracer := tp.Tracer(name)
	return Middleware{
		Name: "tracing",
		Before: func(ctx context.Context, ec strategy.ExecutionContext) (context.Context, strategy.ExecutionContext, error) {
			spanCtx, span := tracer.Start(ctx, "strategy.execute",
				trace.WithAttributes(
					attribute.String("agent.id", ec.Agent.ID),
				),
			)
			return context.WithValue(spanCtx, spanKey, span), ec, nil
		},
		After: func(ctx context.Context, res strategy.Result, err error) strategy.Result {
			span, ok := ctx.Value(spanKey).(trace.Span)
			if !ok {
				return res
			}
			if err != nil {
				span.RecordError(err)
			} else {
				span.SetAttributes(attribute.Int("final.step", res.State.Step()))
			}
			span.End()
			return res
		},
	}
}
