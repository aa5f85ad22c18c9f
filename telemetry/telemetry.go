//
// Copyright (C) 2026 The nordeval authors.  All rights reserved.
//
// nordeval is licensed under the Apache License Version 2.0.
//
//

// Package telemetry wires the benchmark harness into OpenTelemetry: OTLP
// trace and metric providers, and the instruments the run loop records on.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// telemetry service constants.
const (
	ServiceName      = "nordeval"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "nordeval"
	InstrumentName   = "github.com/nordeval/nordeval"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporters.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporters.
	ProtocolHTTP string = "http"
)

// grpcDial is a package-level variable to allow test injection of a custom
// dialer. In production, this points to grpc.Dial.
var grpcDial = grpc.Dial

// Tracer is the tracer benchmark spans are started on. It resolves through
// the global provider, so installing an SDK provider upgrades it from the
// no-op default.
var Tracer trace.Tracer = otel.Tracer(InstrumentName)

// Instruments recorded by the benchmark run loop. They stay nil until
// InitMeterProvider runs; the Record helpers tolerate that.
var (
	Meter metric.Meter

	runCounter        metric.Int64Counter
	exampleCounter    metric.Int64Counter
	inferenceDuration metric.Float64Histogram
)

// InitMeterProvider registers the meter provider and creates the benchmark
// instruments on it.
func InitMeterProvider(mp metric.MeterProvider) error {
	otel.SetMeterProvider(mp)
	Meter = mp.Meter(InstrumentName)

	var err error
	if runCounter, err = Meter.Int64Counter(
		"nordeval.benchmark.runs",
		metric.WithDescription("Completed benchmark runs"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create run counter: %w", err)
	}
	if exampleCounter, err = Meter.Int64Counter(
		"nordeval.benchmark.examples",
		metric.WithDescription("Evaluated examples"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("create example counter: %w", err)
	}
	if inferenceDuration, err = Meter.Float64Histogram(
		"nordeval.model.inference.duration",
		metric.WithDescription("Duration of one model inference batch"),
		metric.WithUnit("s"),
	); err != nil {
		return fmt.Errorf("create inference duration histogram: %w", err)
	}
	return nil
}

// RecordRun counts one finished benchmark run.
func RecordRun(ctx context.Context, attrs ...attribute.KeyValue) {
	if runCounter == nil {
		return
	}
	runCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordExamples counts evaluated examples.
func RecordExamples(ctx context.Context, n int, attrs ...attribute.KeyValue) {
	if exampleCounter == nil {
		return
	}
	exampleCounter.Add(ctx, int64(n), metric.WithAttributes(attrs...))
}

// RecordInference records the duration of one model inference batch in
// seconds.
func RecordInference(ctx context.Context, seconds float64, attrs ...attribute.KeyValue) {
	if inferenceDuration == nil {
		return
	}
	inferenceDuration.Record(ctx, seconds, metric.WithAttributes(attrs...))
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	// Note the use of insecure transport here. TLS is recommended in production.
	conn, err := grpcDial(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, err
}
