package scraper

import "fmt"

// ConnectError is returned when the Logstash node-stats API could not be
// reached at all: connection refused, DNS failure, timeout, cancellation.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// StatusError is returned when Logstash answered with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
}

// DecodeError is returned when the response body is not valid JSON, or does
// not fit the node-stats document shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaError is returned by Walk when a pipeline or plugin record lacks a
// field the exporter needs. Path is the dotted location of the missing field,
// e.g. "pipelines.main.plugins.filters[0].events.in".
type SchemaError struct {
	Path string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("node stats: missing field %s", e.Path)
}
