package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"google.golang.org/grpc/credentials"
)

// MetricsConfigured reports whether a meter provider has been installed.
var MetricsConfigured bool

// MetricsConfig selects where score metrics are exported.
type MetricsConfig struct {
	OTLPAddress string
	OTLPHeaders map[string]string
	OTLPUseTLS  bool
}

// ConfigureMeterProvider installs mp as the global meter provider. Call it
// before InitMetrics so the instruments bind to mp.
func ConfigureMeterProvider(mp *sdkmetric.MeterProvider) {
	otel.SetMeterProvider(mp)
	MetricsConfigured = true
}

// MeterProvider builds an OTLP gRPC exporting provider. It returns
// (nil, nil, nil) when no endpoint is configured.
func (c MetricsConfig) MeterProvider(ctx context.Context) (*sdkmetric.MeterProvider, func(context.Context) error, error) {
	if c.OTLPAddress == "" {
		return nil, nil, nil
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(c.OTLPAddress),
	}
	if len(c.OTLPHeaders) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(c.OTLPHeaders))
	}

	if c.OTLPUseTLS {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	} else {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)
	return mp, mp.Shutdown, nil
}
