// Package observability provides best-effort operational telemetry.
// Nothing here may fail a request: metric publication errors are logged and
// dropped.
package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client the metrics publisher uses
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes operation counters and latencies to CloudWatch.
// A nil *Metrics is valid and records nothing, so callers never need to
// branch on whether telemetry is enabled.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
	logger    *zap.Logger
}

// NewMetrics creates a metrics publisher. Returns nil when no client is
// configured, which disables publication.
func NewMetrics(client CloudWatchAPI, namespace string, logger *zap.Logger) *Metrics {
	if client == nil {
		return nil
	}
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// Count records a unit count for the named operation
func (m *Metrics) Count(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String(name),
		Unit:       cwtypes.StandardUnitCount,
		Value:      aws.Float64(1),
		Timestamp:  aws.Time(time.Now()),
	})
}

// Latency records the duration of the named operation
func (m *Metrics) Latency(ctx context.Context, name string, d time.Duration) {
	if m == nil {
		return
	}
	m.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String(name + "Latency"),
		Unit:       cwtypes.StandardUnitMilliseconds,
		Value:      aws.Float64(float64(d.Milliseconds())),
		Timestamp:  aws.Time(time.Now()),
	})
}

func (m *Metrics) put(ctx context.Context, datum cwtypes.MetricDatum) {
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		m.logger.Warn("Failed to publish metric",
			zap.String("metric", aws.ToString(datum.MetricName)),
			zap.Error(err),
		)
	}
}
