// Package metrics keeps request and prediction counters for the stand-in API
// and renders them in the Prometheus text format.
package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	requestsTotal    map[string]map[int]int64 // route -> status -> count
	predictionsTotal map[string]int64         // model -> count
	predictionErrors map[string]int64         // route -> count
	csvRowsTotal     int64

	// Last observed latency per route
	requestLatency map[string]time.Duration
}

func New() *Metrics {
	return &Metrics{
		requestsTotal:    make(map[string]map[int]int64),
		predictionsTotal: make(map[string]int64),
		predictionErrors: make(map[string]int64),
		requestLatency:   make(map[string]time.Duration),
	}
}

func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.requestsTotal[route] == nil {
		m.requestsTotal[route] = make(map[int]int64)
	}
	m.requestsTotal[route][status]++
	m.requestLatency[route] = d
}

func (m *Metrics) IncPrediction(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionsTotal[model]++
}

func (m *Metrics) IncPredictionError(route string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionErrors[route]++
}

func (m *Metrics) AddCSVRows(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.csvRowsTotal += int64(n)
}

// Requests reports how many requests a route answered with status.
func (m *Metrics) Requests(route string, status int) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestsTotal[route][status]
}

func (m *Metrics) Predictions(model string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.predictionsTotal[model]
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(m.Render()))
	})
}

// Render writes every series, sorted by name and labels.
func (m *Metrics) Render() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lines []string

	for route, statuses := range m.requestsTotal {
		for status, count := range statuses {
			lines = append(lines, formatMetric("forecast_api_requests_total",
				map[string]string{"route": route, "status": strconv.Itoa(status)}, float64(count)))
		}
	}

	for model, count := range m.predictionsTotal {
		lines = append(lines, formatMetric("forecast_api_predictions_total", map[string]string{"model": model}, float64(count)))
	}

	for route, count := range m.predictionErrors {
		lines = append(lines, formatMetric("forecast_api_prediction_errors_total", map[string]string{"route": route}, float64(count)))
	}

	lines = append(lines, formatMetric("forecast_api_csv_rows_total", nil, float64(m.csvRowsTotal)))

	for route, latency := range m.requestLatency {
		lines = append(lines, formatMetric("forecast_api_request_latency_ms", map[string]string{"route": route}, float64(latency.Milliseconds())))
	}

	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

func formatMetric(name string, labels map[string]string, value float64) string {
	labelStr := ""
	if len(labels) > 0 {
		keys := make([]string, 0, len(labels))
		for k := range labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + `="` + labels[k] + `"`
		}
		labelStr = "{" + strings.Join(pairs, ",") + "}"
	}
	return name + labelStr + " " + strconv.FormatFloat(value, 'f', -1, 64)
}
