package modules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/OldStager01/sales-forecaster/internal/events"
	"github.com/OldStager01/sales-forecaster/internal/loader"
	"github.com/OldStager01/sales-forecaster/internal/logger"
	"github.com/OldStager01/sales-forecaster/internal/page"
)

const metricsFailedText = "Loading metrics failed"

// Metrics renders the model evaluation metrics once at load.
type Metrics struct {
	page      *page.Page
	source    MetricsSource
	publisher *events.Publisher
}

func NewMetrics(deps Deps) *Metrics {
	return &Metrics{
		page:      deps.Page,
		source:    deps.Metrics,
		publisher: deps.Publisher,
	}
}

func (m *Metrics) Name() string { return NameMetrics }

// Load fails only when the page has no metrics region. A backend error is
// rendered and logged but does not stop the page.
func (m *Metrics) Load(ctx context.Context, _ *loader.Registry) error {
	out := m.page.Output(page.OutputMetrics)
	if out == nil {
		return errors.New("metrics output not found")
	}

	out.SetText("Loading metrics…")
	metrics, err := m.source.Metrics(ctx)
	if err != nil {
		logger.WithModule(NameMetrics).Errorf("Failed to load metrics: %v", err)
		out.SetText(metricsFailedText)
		return nil
	}

	out.SetText(FormatMetrics(metrics))
	m.publisher.MetricsLoaded(NameMetrics, metrics)
	return nil
}

// FormatMetrics renders one "name: value" line per metric, sorted by name.
func FormatMetrics(metrics map[string]interface{}) string {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := metrics[k].(type) {
		case float64:
			lines = append(lines, fmt.Sprintf("%s: %.4f", k, v))
		default:
			lines = append(lines, fmt.Sprintf("%s: %v", k, v))
		}
	}
	return strings.Join(lines, "\n")
}
