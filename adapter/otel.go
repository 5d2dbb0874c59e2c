package adapter

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OTelRecorder implements keepalive.Recorder on OpenTelemetry instruments.
// Each probe is additionally recorded as a short span so liveness activity
// shows up next to the application's traces.
type OTelRecorder struct {
	sent        metric.Int64Counter
	replies     metric.Int64Counter
	skipped     metric.Int64Counter
	faults      metric.Int64Counter
	outstanding metric.Int64Gauge
	tracer      trace.Tracer
}

// NewOTelRecorder builds the instruments on meter and tracer. Both must be
// non-nil; use noop providers to disable either side.
func NewOTelRecorder(meter metric.Meter, tracer trace.Tracer) (*OTelRecorder, error) {
	r := &OTelRecorder{tracer: tracer}
	var err error
	if r.sent, err = meter.Int64Counter("ssh.heartbeats.sent",
		metric.WithDescription("Keep-alive probes sent")); err != nil {
		return nil, err
	}
	if r.replies, err = meter.Int64Counter("ssh.heartbeat.replies",
		metric.WithDescription("Keep-alive replies received")); err != nil {
		return nil, err
	}
	if r.skipped, err = meter.Int64Counter("ssh.heartbeats.skipped",
		metric.WithDescription("Keep-alive ticks skipped during key exchange")); err != nil {
		return nil, err
	}
	if r.faults, err = meter.Int64Counter("ssh.heartbeat.faults",
		metric.WithDescription("Keep-alive faults reported to the session")); err != nil {
		return nil, err
	}
	if r.outstanding, err = meter.Int64Gauge("ssh.heartbeat.outstanding",
		metric.WithDescription("Probes sent since the last reply")); err != nil {
		return nil, err
	}
	return r, nil
}

// ProbeSent implements keepalive.Recorder.
func (r *OTelRecorder) ProbeSent(total uint64, outstanding int) {
	ctx := context.Background()
	_, span := r.tracer.Start(ctx, "ssh.heartbeat.probe", trace.WithAttributes(
		attribute.Int64("ssh.heartbeat.total", int64(total)),
		attribute.Int("ssh.heartbeat.outstanding", outstanding),
	))
	span.End()
	r.sent.Add(ctx, 1)
	r.outstanding.Record(ctx, int64(outstanding))
}

// ProbeSkipped implements keepalive.Recorder.
func (r *OTelRecorder) ProbeSkipped() {
	r.skipped.Add(context.Background(), 1)
}

// ReplyReceived implements keepalive.Recorder.
func (r *OTelRecorder) ReplyReceived() {
	ctx := context.Background()
	r.replies.Add(ctx, 1)
	r.outstanding.Record(ctx, 0)
}

// Fault implements keepalive.Recorder.
func (r *OTelRecorder) Fault(err error) {
	ctx := context.Background()
	_, span := r.tracer.Start(ctx, "ssh.heartbeat.fault")
	span.SetStatus(codes.Error, err.Error())
	span.End()
	r.faults.Add(ctx, 1)
}
