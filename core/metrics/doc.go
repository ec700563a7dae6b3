// Package metrics defines the telemetry events emitted around the learning
// agent and the sink interfaces that record them. Concrete sinks (Prometheus,
// InfluxDB) live in infra/metrics and register themselves with the factory so
// that NewMetricsSink can build them from configuration.
package metrics
