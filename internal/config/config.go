package config

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Default values applied when arguments are absent.
const (
	DefaultEndpoint    = "http://localhost:9600"
	DefaultListenAddr  = "0.0.0.0:9649"
	DefaultTimeout     = 10 * time.Second
	DefaultMetricsPath = "/metrics"

	// EnvLogLevel optionally overrides the log level: debug | info | warn | error.
	EnvLogLevel = "LOG_LEVEL"
)

// Config is the exporter's runtime configuration, built from the command line.
type Config struct {
	// Endpoint is the base URL of the Logstash node-stats API, without a
	// trailing slash.
	Endpoint string

	// ListenAddr is the host:port the exporter serves its own HTTP on.
	ListenAddr string

	// MetricsPath is where the metrics exposition is served.
	MetricsPath string

	// Timeout bounds one poll of Logstash.
	Timeout time.Duration

	// Debug forces debug logging.
	Debug bool

	// LogLevel is the effective log level.
	LogLevel slog.Level
}

// Parse builds a Config from command-line arguments (without the program
// name). getenv resolves environment variables; pass os.Getenv in production.
//
//	logstash-exporter [-d|--debug] [--timeout 10s] [logstash_endpoint] [listen_address]
//
// A bare port number is accepted as listen_address for compatibility and is
// bound on all interfaces. -h/--help returns pflag.ErrHelp after writing usage
// to out.
func Parse(args []string, getenv func(string) string, out io.Writer) (*Config, error) {
	cfg := defaults()

	fs := pflag.NewFlagSet("logstash-exporter", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.BoolVarP(&cfg.Debug, "debug", "d", false, "set debug mode")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "timeout for one poll of logstash's node stats API")
	fs.StringVar(&cfg.MetricsPath, "web.telemetry-path", DefaultMetricsPath, "path under which to expose metrics")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: logstash-exporter [flags] [logstash_endpoint] [listen_address]\n\n")
		fmt.Fprintf(out, "  logstash_endpoint  logstash's endpoint (default %q)\n", DefaultEndpoint)
		fmt.Fprintf(out, "  listen_address     exporter binding address or port (default %q)\n\n", DefaultListenAddr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	pos := fs.Args()
	if len(pos) > 2 {
		return nil, fmt.Errorf("config: unexpected arguments %q", pos[2:])
	}
	if len(pos) > 0 {
		cfg.Endpoint = pos[0]
	}
	if len(pos) > 1 {
		cfg.ListenAddr = pos[1]
	}

	level, err := parseLevel(getenv(EnvLogLevel))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level
	if cfg.Debug {
		cfg.LogLevel = slog.LevelDebug
	}

	if err := normalize(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Endpoint:    DefaultEndpoint,
		ListenAddr:  DefaultListenAddr,
		MetricsPath: DefaultMetricsPath,
		Timeout:     DefaultTimeout,
		LogLevel:    slog.LevelInfo,
	}
}

// normalize validates cfg and rewrites fields into canonical form.
func normalize(cfg *Config) error {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("logstash_endpoint %q: %w", cfg.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("logstash_endpoint %q: scheme must be http or https", cfg.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("logstash_endpoint %q: host is required", cfg.Endpoint)
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	addr, err := listenAddr(cfg.ListenAddr)
	if err != nil {
		return err
	}
	cfg.ListenAddr = addr

	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	switch {
	case !strings.HasPrefix(cfg.MetricsPath, "/"):
		return fmt.Errorf("web.telemetry-path %q must start with /", cfg.MetricsPath)
	case cfg.MetricsPath == "/" || cfg.MetricsPath == "/healthz":
		return fmt.Errorf("web.telemetry-path %q is reserved", cfg.MetricsPath)
	}
	return nil
}

// listenAddr accepts "host:port", ":port" or a bare port number.
func listenAddr(s string) (string, error) {
	if _, err := strconv.Atoi(s); err == nil {
		s = "0.0.0.0:" + s
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return "", fmt.Errorf("listen_address %q: %w", s, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return "", fmt.Errorf("listen_address %q: invalid port %q", s, port)
	}
	return net.JoinHostPort(host, port), nil
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return l, nil
}
