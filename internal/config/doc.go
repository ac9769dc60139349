// Package config parses the exporter's command line.
//
// There is no config file. Parse(args, getenv, out) understands:
//   - logstash_endpoint (positional, default http://localhost:9600); must be an
//     absolute http(s) URL, trailing slashes are stripped
//   - listen_address (positional, default 0.0.0.0:9649); a bare port number is
//     bound on all interfaces
//   - -d/--debug, --timeout (default 10s), --web.telemetry-path (default /metrics)
//
// LOG_LEVEL optionally sets the log level; --debug always wins.
package config
