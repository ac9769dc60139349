// Package scraper polls Logstash's node stats API and walks the result.
//
// New(endpoint, timeout) returns a Scraper whose Scrape issues one
// GET {endpoint}/_node/stats and decodes it into a typed NodeStats. Failures
// are classified as *ConnectError, *StatusError or *DecodeError.
//
// Walk(doc) flattens a NodeStats into Samples (metric key, ordered label
// values, value): five per pipeline, two per input plugin, three per filter
// plugin plus matches/failures for grok, three per output plugin. Millisecond
// durations become seconds. A missing field fails the walk with *SchemaError.
package scraper
