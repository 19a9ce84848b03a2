package tracer

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Init creates a new trace provider instance and registers it as global trace provider.
func Init(serviceName string, reporterURI string, probability float64, log *log.Logger) (func(context.Context) error, error) {
	if reporterURI == "" {
		return nil, errors.New("zipkin reporter uri cannot be empty")
	}

	exporter, err := zipkin.New(reporterURI, zipkin.WithLogger(log))
	if err != nil {
		return nil, errors.Wrap(err, "creating zipkin exporter")
	}

	batcher := sdktrace.NewBatchSpanProcessor(exporter)

	// Sample a fraction of new traces and follow the caller's decision
	// for propagated ones.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(batcher),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(probability))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
