// Package modules holds the behavior modules the page loads at startup.
package modules

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/OldStager01/sales-forecaster/internal/events"
	"github.com/OldStager01/sales-forecaster/internal/loader"
	"github.com/OldStager01/sales-forecaster/internal/page"
)

const (
	NameUpload    = "upload"
	NameMetrics   = "metrics"
	NameDashboard = "dashboard"
)

// CapabilityPredictCSV is provided by the upload module.
const CapabilityPredictCSV = "predict_csv"

type CSVPredictor interface {
	PredictCSV(ctx context.Context, filename string, r io.Reader) ([]float64, error)
}

type MetricsSource interface {
	Metrics(ctx context.Context) (map[string]interface{}, error)
}

type Deps struct {
	Page      *page.Page
	CSV       CSVPredictor
	Metrics   MetricsSource
	Forecasts *Forecasts
	Publisher *events.Publisher
	// Open reads the file named by the upload input; os.Open when nil.
	Open func(name string) (io.ReadCloser, error)
}

// Build resolves module names into modules, keeping their order.
func Build(names []string, deps Deps) ([]loader.Module, error) {
	if deps.Forecasts == nil {
		deps.Forecasts = NewForecasts()
	}
	if deps.Open == nil {
		deps.Open = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	}

	mods := make([]loader.Module, 0, len(names))
	for _, name := range names {
		switch name {
		case NameUpload:
			mods = append(mods, NewUpload(deps))
		case NameMetrics:
			mods = append(mods, NewMetrics(deps))
		case NameDashboard:
			mods = append(mods, NewDashboard(deps))
		default:
			return nil, fmt.Errorf("unknown module %q", name)
		}
	}
	return mods, nil
}
