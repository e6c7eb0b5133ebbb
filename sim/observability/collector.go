// Package observability exports simulation telemetry as Prometheus metrics
// and OpenTelemetry spans.
package observability

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/aoi-sim/aoi-sim/sim/trace"
)

const (
	OutcomeDelivered = "delivered"
	OutcomeDropped   = "dropped"
)

// Collector exposes per-flow AoI state and packet outcomes. It implements
// trace.Sink so it can be teed next to the in-memory trace.
type Collector struct {
	gatherer prometheus.Gatherer

	CurrentAge     *prometheus.GaugeVec
	Successes      *prometheus.GaugeVec
	Priority       *prometheus.GaugeVec
	PacketsCreated prometheus.Counter
	Deliveries     *prometheus.CounterVec
	DeadlineMisses prometheus.Counter
	Latency        prometheus.Histogram
}

var _ trace.Sink = (*Collector)(nil)

// NewCollector registers AoI metrics against the provided registerer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	age, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aoi_current_age",
		Help: "Age of Information of each flow at its latest grant decision or at the end of the run.",
	}, []string{"flow"}), "aoi_current_age")
	if err != nil {
		return nil, err
	}

	successes, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aoi_reliability_successes",
		Help: "Successful transmissions counted by each flow's reliability estimator.",
	}, []string{"flow"}), "aoi_reliability_successes")
	if err != nil {
		return nil, err
	}

	priority, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aoi_metric_priority",
		Help: "Scheduling priority combining age and reliability; higher is served first.",
	}, []string{"flow"}), "aoi_metric_priority")
	if err != nil {
		return nil, err
	}

	created, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aoi_packets_created_total",
		Help: "Packets created by all senders.",
	}), "aoi_packets_created_total")
	if err != nil {
		return nil, err
	}

	deliveries, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aoi_deliveries_total",
		Help: "Final packet outcomes by result.",
	}, []string{"outcome"}), "aoi_deliveries_total")
	if err != nil {
		return nil, err
	}

	misses, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aoi_deadline_misses_total",
		Help: "Delivered packets whose latency exceeded the advisory deadline.",
	}), "aoi_deadline_misses_total")
	if err != nil {
		return nil, err
	}

	latency, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aoi_delivery_latency_seconds",
		Help:    "Creation-to-delivery latency of delivered packets, from the provenance tag.",
		Buckets: prometheus.ExponentialBuckets(125e-6, 2, 12),
	}), "aoi_delivery_latency_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		CurrentAge:     age,
		Successes:      successes,
		Priority:       priority,
		PacketsCreated: created,
		Deliveries:     deliveries,
		DeadlineMisses: misses,
		Latency:        latency,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// RecordCreation counts a created packet.
func (c *Collector) RecordCreation(trace.CreationRecord) {
	if c == nil {
		return
	}
	c.PacketsCreated.Inc()
}

// RecordGrant refreshes the per-flow gauges from the candidates ranked in a slot.
func (c *Collector) RecordGrant(r trace.GrantRecord) {
	if c == nil {
		return
	}
	for _, cand := range r.Candidates {
		c.SetFlowState(cand.FlowID, cand.Age, cand.Successes, cand.Priority)
	}
}

// RecordDelivery counts a packet outcome and observes its latency.
func (c *Collector) RecordDelivery(r trace.DeliveryRecord) {
	if c == nil {
		return
	}
	if !r.Delivered {
		c.Deliveries.WithLabelValues(OutcomeDropped).Inc()
		return
	}
	c.Deliveries.WithLabelValues(OutcomeDelivered).Inc()
	c.Latency.Observe(float64(r.Latency) / 1e9)
	if r.DeadlineMissed {
		c.DeadlineMisses.Inc()
	}
}

// SetFlowState overwrites the gauges of one flow.
func (c *Collector) SetFlowState(flowID uint32, age float64, successes uint64, priority float64) {
	if c == nil {
		return
	}
	label := strconv.FormatUint(uint64(flowID), 10)
	c.CurrentAge.WithLabelValues(label).Set(age)
	c.Successes.WithLabelValues(label).Set(float64(successes))
	c.Priority.WithLabelValues(label).Set(priority)
}

// WriteMetrics encodes everything g gathers in the Prometheus text format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// SaveMetrics writes the text exposition of g to path.
func SaveMetrics(path string, g prometheus.Gatherer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close metrics file: %w", closeErr)
		}
	}()
	return WriteMetrics(f, g)
}

// register adds col to reg, reusing an identical collector that is already
// registered under the same descriptor.
func register[T prometheus.Collector](reg prometheus.Registerer, col T, name string) (T, error) {
	if err := reg.Register(col); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return col, nil
}
