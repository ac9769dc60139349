package api

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var landingPage = template.Must(template.New("landing").Parse(`<html>
<head><title>Logstash Exporter</title></head>
<body>
<h1>Logstash Exporter</h1>
<p><a href="{{.}}">Metrics</a></p>
</body>
</html>
`))

// Handler is the exporter's HTTP handler: metrics exposition, liveness and a
// landing page.
type Handler struct {
	metricsPath string
	mux         *http.ServeMux
}

// New creates a Handler that serves g on metricsPath and registers all routes.
func New(g prometheus.Gatherer, metricsPath string) http.Handler {
	h := &Handler{metricsPath: metricsPath, mux: http.NewServeMux()}

	h.mux.Handle(metricsPath, promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog: errorLogger{},
		// Serve whatever could be gathered rather than a 500.
		ErrorHandling: promhttp.ContinueOnError,
	}))
	h.mux.HandleFunc("/healthz", h.health)
	h.mux.HandleFunc("/", h.landing)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /healthz. It reports the exporter's own liveness only;
// Logstash reachability shows up in the logs and the metrics.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// landing returns GET /, a link to the metrics path.
func (h *Handler) landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	landingPage.Execute(w, h.metricsPath) //nolint:errcheck
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// errorLogger routes promhttp errors into slog.
type errorLogger struct{}

func (errorLogger) Println(v ...interface{}) {
	slog.Error("api: metrics exposition", "err", fmt.Sprint(v...))
}
