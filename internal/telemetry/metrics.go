// Package telemetry records OpenTelemetry instruments for score
// computations and installs the meter provider they export through.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/yusufkecer/body-score-backend/internal/domain"
)

var (
	bodyScoreHistogram       otelmetric.Float64Histogram
	confidenceScoreHistogram otelmetric.Float64Histogram
	refreshDurationHistogram otelmetric.Float64Histogram
	snapshotsCounter         otelmetric.Int64Counter
	skippedReadingsCounter   otelmetric.Int64Counter
	supersededCounter        otelmetric.Int64Counter
)

// InitMetrics creates the instruments on the global meter provider.
func InitMetrics() {
	meter := otel.Meter("bodyscore")

	h, err := meter.Float64Histogram(
		"bodyscore.snapshot.body_score",
		otelmetric.WithDescription("Body score of computed snapshots"),
	)
	if err == nil {
		bodyScoreHistogram = h
	}

	h, err = meter.Float64Histogram(
		"bodyscore.snapshot.confidence_score",
		otelmetric.WithDescription("Confidence score of computed snapshots"),
	)
	if err == nil {
		confidenceScoreHistogram = h
	}

	h, err = meter.Float64Histogram(
		"bodyscore.refresh.duration",
		otelmetric.WithDescription("Time from acquisition start to persisted snapshot"),
		otelmetric.WithUnit("s"),
	)
	if err == nil {
		refreshDurationHistogram = h
	}

	c, err := meter.Int64Counter(
		"bodyscore.snapshots.computed",
		otelmetric.WithDescription("Number of snapshots computed"),
	)
	if err == nil {
		snapshotsCounter = c
	}

	c, err = meter.Int64Counter(
		"bodyscore.readings.skipped",
		otelmetric.WithDescription("Readings no normalizer could score"),
	)
	if err == nil {
		skippedReadingsCounter = c
	}

	c, err = meter.Int64Counter(
		"bodyscore.refresh.superseded",
		otelmetric.WithDescription("Refreshes discarded because preferences changed mid-computation"),
	)
	if err == nil {
		supersededCounter = c
	}
}

func RecordSnapshot(ctx context.Context, snapshot domain.ScoreSnapshot, persisted bool) {
	attrs := otelmetric.WithAttributes(
		attribute.Bool("persisted", persisted),
		attribute.Int("categories", len(snapshot.CategoryScores)),
	)
	if bodyScoreHistogram != nil {
		bodyScoreHistogram.Record(ctx, snapshot.BodyScore, attrs)
	}
	if confidenceScoreHistogram != nil {
		confidenceScoreHistogram.Record(ctx, snapshot.ConfidenceScore, attrs)
	}
	if snapshotsCounter != nil {
		snapshotsCounter.Add(ctx, 1, attrs)
	}
}

func RecordRefreshDuration(ctx context.Context, d time.Duration) {
	if refreshDurationHistogram != nil {
		refreshDurationHistogram.Record(ctx, d.Seconds())
	}
}

func RecordSkippedReadings(ctx context.Context, n int) {
	if skippedReadingsCounter != nil && n > 0 {
		skippedReadingsCounter.Add(ctx, int64(n))
	}
}

func RecordSuperseded(ctx context.Context) {
	if supersededCounter != nil {
		supersededCounter.Add(ctx, 1)
	}
}
