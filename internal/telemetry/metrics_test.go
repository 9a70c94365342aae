package telemetry_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/telemetry"
)

var _ = Describe("Metrics", func() {
	var (
		ctx    context.Context
		reader *sdkmetric.ManualReader
	)

	collect := func() map[string]metricdata.Aggregation {
		var rm metricdata.ResourceMetrics
		Expect(reader.Collect(ctx, &rm)).To(Succeed())

		out := map[string]metricdata.Aggregation{}
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				out[m.Name] = m.Data
			}
		}
		return out
	}

	BeforeEach(func() {
		ctx = context.Background()
		reader = sdkmetric.NewManualReader()
		telemetry.MetricsConfigured = false
		telemetry.ConfigureMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
		telemetry.InitMetrics()
	})

	It("marks metrics as configured", func() {
		Expect(telemetry.MetricsConfigured).To(BeTrue())
	})

	It("records computed snapshots", func() {
		telemetry.RecordSnapshot(ctx, domain.ScoreSnapshot{
			ID:              uuid.New(),
			BodyScore:       82.5,
			ConfidenceScore: 60,
			CategoryScores:  map[domain.Category]float64{domain.CategoryLifestyle: 82.5},
			Timestamp:       time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		}, true)

		metrics := collect()
		Expect(metrics).To(HaveKey("bodyscore.snapshot.body_score"))
		Expect(metrics).To(HaveKey("bodyscore.snapshot.confidence_score"))

		body, ok := metrics["bodyscore.snapshot.body_score"].(metricdata.Histogram[float64])
		Expect(ok).To(BeTrue())
		Expect(body.DataPoints).To(HaveLen(1))
		Expect(body.DataPoints[0].Count).To(Equal(uint64(1)))
		Expect(body.DataPoints[0].Sum).To(Equal(82.5))

		computed, ok := metrics["bodyscore.snapshots.computed"].(metricdata.Sum[int64])
		Expect(ok).To(BeTrue())
		Expect(computed.DataPoints).To(HaveLen(1))
		Expect(computed.DataPoints[0].Value).To(Equal(int64(1)))
	})

	It("counts superseded refreshes", func() {
		telemetry.RecordSuperseded(ctx)
		telemetry.RecordSuperseded(ctx)

		superseded, ok := collect()["bodyscore.refresh.superseded"].(metricdata.Sum[int64])
		Expect(ok).To(BeTrue())
		Expect(superseded.DataPoints).To(HaveLen(1))
		Expect(superseded.DataPoints[0].Value).To(Equal(int64(2)))
	})

	It("skips empty skipped-reading batches", func() {
		telemetry.RecordSkippedReadings(ctx, 0)
		Expect(collect()).NotTo(HaveKey("bodyscore.readings.skipped"))

		telemetry.RecordSkippedReadings(ctx, 3)
		skipped, ok := collect()["bodyscore.readings.skipped"].(metricdata.Sum[int64])
		Expect(ok).To(BeTrue())
		Expect(skipped.DataPoints[0].Value).To(Equal(int64(3)))
	})

	It("records refresh durations in seconds", func() {
		telemetry.RecordRefreshDuration(ctx, 1500*time.Millisecond)

		duration, ok := collect()["bodyscore.refresh.duration"].(metricdata.Histogram[float64])
		Expect(ok).To(BeTrue())
		Expect(duration.DataPoints[0].Sum).To(Equal(1.5))
	})
})

var _ = Describe("MetricsConfig", func() {
	It("returns nil when no endpoint is configured", func() {
		mp, shutdown, err := telemetry.MetricsConfig{}.MeterProvider(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(mp).To(BeNil())
		Expect(shutdown).To(BeNil())
	})

	It("builds an OTLP provider for a configured endpoint", func() {
		mp, shutdown, err := telemetry.MetricsConfig{
			OTLPAddress: "localhost:4317",
			OTLPHeaders: map[string]string{"Authorization": "Bearer token"},
		}.MeterProvider(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(mp).NotTo(BeNil())
		Expect(shutdown).NotTo(BeNil())
	})

	It("supports TLS for OTLP", func() {
		mp, _, err := telemetry.MetricsConfig{
			OTLPAddress: "localhost:4317",
			OTLPUseTLS:  true,
		}.MeterProvider(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(mp).NotTo(BeNil())
	})
})
