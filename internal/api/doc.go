// Package api implements the exporter's HTTP surface.
//
// New(gatherer, metricsPath) returns an http.Handler that serves:
//
//	GET <metricsPath>  Prometheus text exposition (default /metrics)
//	GET /healthz       {"status":"ok"} while the process is up
//	GET /              landing page linking to the metrics path
//
// The exposition handler uses promhttp with ContinueOnError: a collector
// error is logged and the metrics that could be gathered are still served
// with a 200. No external HTTP framework is used.
package api
