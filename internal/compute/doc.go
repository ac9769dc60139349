// Package compute turns walked node-stats samples into exported metrics.
//
// definitions.go holds the static metric table: one Definition per exported
// metric with its name, help text, ordered label names and Kind. The table
// and its prometheus descriptors are built once and never change.
//
// translate.go provides the pure Translate(samples) function. Each call
// builds a fresh MetricSet (one Family per Definition) so nothing carries
// over between polls. MetricSet.Metrics renders the set as constant metrics.
//
// All values are exported as counters: Logstash only resets them on restart.
package compute
