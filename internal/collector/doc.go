// Package collector exposes Logstash pipeline statistics through a
// prometheus.Collector.
//
// Every Collect call performs one synchronous poll:
//
//	scraper.Scrape -> scraper.Walk -> compute.Translate -> const metrics
//
// ConnectError, StatusError, DecodeError and SchemaError are logged at error
// level and turned into an empty result, so the exporter's own /metrics keeps
// answering 200 while Logstash is down. Describe always reports the full
// metric table, whether or not the current poll produced observations.
package collector
